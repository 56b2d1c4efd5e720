/*  This file is part of LITEDRAM-GEN.
    LITEDRAM-GEN program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    LITEDRAM-GEN program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with LITEDRAM-GEN.  If not, see <http://www.gnu.org/licenses/>.

    Date: 17-10-2026 */

package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/microwatt/litedram-gen/fusesoc"
	"github.com/microwatt/litedram-gen/litedram"

	"github.com/spf13/cobra"
)

var fusesocCmd = &cobra.Command{
	Use:   "fusesoc <generator-input.yml>",
	Short: "Entry point for FuseSoC",
	Long: `FuseSoC calls the generator with the path of a YAML file describing
the request. The board is taken from the board parameter. Setting the
init parameter to true is the same as --init.

Generator declaration in the core file:

generators:
  litedram_gen:
    interpreter: ""
    command: litedram-gen fusesoc

generate:
  dram:
    generator: litedram_gen
    parameters:
      board: arty
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := fusesoc.ReadInput(args[0])
		if err != nil {
			return err
		}
		if err := apply_params(&gen_args, in); err != nil {
			return err
		}
		g := fusesoc.NewGenerator(in, gen_args.WorkDir)
		m, err := litedram.Run(gen_args, litedram.ExecRunner{}, g)
		if err != nil {
			return err
		}
		if gen_args.Verbose {
			log.Printf("litedram-gen: %d files registered for %s", len(m), in.VLNV)
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(fusesocCmd)
}

func apply_params(args *litedram.Args, in *fusesoc.Input) error {
	args.Board = in.Param("board")
	if args.Board == "" {
		return fmt.Errorf("the generator input does not set the board parameter")
	}
	if s := in.Param("init"); s != "" {
		on, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("init parameter: %w", err)
		}
		args.InitSoftware = args.InitSoftware || on
	}
	return nil
}
