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
	"os"
	"sort"
	"strings"

	"github.com/microwatt/litedram-gen/boardcfg"
	"github.com/microwatt/litedram-gen/catalog"

	"github.com/spf13/cobra"
)

const sysFreqKey = "sys_clk_freq"

var list_catalog bool

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Lists the boards in the script folder",
	Long: `Lists the <board>.yml files in the script folder together with
the SDRAM module, PHY and system clock they use. Boards whose file
cannot be used are listed with the reason, and a PHY that cannot drive
the module's memory type is flagged.
With -m, the known SDRAM modules and PHYs are listed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if list_catalog {
			dump_catalog(cmd.OutOrStdout())
			return nil
		}
		return dump_boards(cmd.OutOrStdout(), gen_args.ScriptDir)
	},
	Args: cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
	flag := boardsCmd.Flags()

	flag.BoolVarP(&list_catalog, "modules", "m", false, "List the known SDRAM modules and PHYs")
}

func find_boards(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var boards []string
	for _, each := range entries {
		if each.IsDir() || !strings.HasSuffix(each.Name(), ".yml") {
			continue
		}
		boards = append(boards, strings.TrimSuffix(each.Name(), ".yml"))
	}
	sort.Strings(boards)
	return boards, nil
}

func dump_boards(w io.Writer, dir string) error {
	boards, err := find_boards(dir)
	if err != nil {
		return err
	}
	if boards == nil {
		return fmt.Errorf("no board files in %s", dir)
	}
	for _, board := range boards {
		cfg, err := boardcfg.Load(dir, board)
		if err != nil {
			fmt.Fprintf(w, "%-16s error: %v\n", board, err)
			continue
		}
		module, phy, freq := "-", "-", "-"
		m, p := cfg.Module(), cfg.PHY()
		if m != nil {
			module = m.Name
		}
		if p != nil {
			phy = p.Name
		}
		if f, ok := cfg.Float(sysFreqKey); ok {
			freq = fmt.Sprintf("%g MHz", f/1e6)
		}
		fmt.Fprintf(w, "%-16s %-16s %-20s %s", board, module, phy, freq)
		if m != nil && p != nil && !p.Supports(m.MemType) {
			fmt.Fprintf(w, "  (%s does not drive %s)", p.Name, m.MemType)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func dump_catalog(w io.Writer) {
	fmt.Fprintln(w, "SDRAM modules:")
	for _, name := range catalog.Modules() {
		m, _ := catalog.LookupModule(name)
		fmt.Fprintf(w, "  %-16s %-6s %5d MiB\n", m.Name, m.MemType, m.Size()>>20)
	}
	fmt.Fprintln(w, "PHYs:")
	for _, name := range catalog.PHYs() {
		p, _ := catalog.LookupPHY(name)
		fmt.Fprintf(w, "  %-20s %-12s %s\n", p.Name, p.Family, strings.Join(p.MemTypes, ","))
	}
}
