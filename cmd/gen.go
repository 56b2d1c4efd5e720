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
	"io"

	"github.com/microwatt/litedram-gen/fusesoc"
	"github.com/microwatt/litedram-gen/litedram"

	"github.com/spf13/cobra"
)

// listing prints the manifest instead of writing a .core file
type listing struct {
	out      io.Writer
	manifest fusesoc.Manifest
}

func (l *listing) AddFiles(m fusesoc.Manifest) {
	l.manifest = append(l.manifest, m...)
}

func (l *listing) Write() error {
	_, err := fmt.Fprint(l.out, l.manifest.String())
	return err
}

var genCmd = &cobra.Command{
	Use:   "gen <board>",
	Short: "Generates the LiteDRAM core for a board",
	Long: `Generates the LiteDRAM core for a board outside of FuseSoC.
The board file is <script-dir>/<board>.yml. It is passed to the core
generator as its only argument. The generated files are listed when
the generator succeeds.

Board file syntax (keys other than these go to the generator as they are)

sdram_module: MT41K128M16  # must be a known module, see "boards -m"
sdram_phy: A7DDRPHY        # must be a known PHY
sys_clk_freq: 100e6        # any key with clk_freq is a frequency in Hz
cmd_latency: "None"        # "True", "False" and "None" are literals
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen_args.Board = args[0]
		l := &listing{out: cmd.OutOrStdout()}
		_, err := litedram.Run(gen_args, litedram.ExecRunner{}, l)
		return err
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(genCmd)
}
