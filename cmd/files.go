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
	"path/filepath"

	"github.com/microwatt/litedram-gen/litedram"

	"github.com/spf13/cobra"
)

var files_abs bool

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Lists the files that gen and fusesoc register",
	Long: `Lists the files that a successful run registers with FuseSoC
and their FuseSoC file type. Nothing is generated. Use --init to
see the files of the init software flow.`,
	RunE: run_files,
	Args: cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	flag := filesCmd.Flags()

	flag.BoolVar(&files_abs, "abs", false, "Output absolute paths")
}

func run_files(cmd *cobra.Command, args []string) error {
	m := litedram.Expected(gen_args)
	if files_abs {
		work, err := filepath.Abs(gen_args.WorkDir)
		if err != nil {
			return err
		}
		for k := range m {
			m[k].Path = filepath.Join(work, m[k].Path)
		}
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), m.String())
	return err
}
