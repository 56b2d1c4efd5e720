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
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/microwatt/litedram-gen/litedram"

	"github.com/joho/godotenv"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Optional file next to the board files with KEY=VALUE defaults
const envFile = "litedram.env"

const (
	envSoCDir    = "LITEX_SOC_DIR"
	envGenerator = "LITEDRAM_GEN"
	envMake      = "LITEDRAM_MAKE"
)

var gen_args litedram.Args
var ram_base uint64
var run_id string

var rootCmd = &cobra.Command{
	Use:   "litedram-gen",
	Short: "FuseSoC generator for LiteDRAM cores",
	Long: `Generates a LiteDRAM controller for a board and registers the
resulting files with FuseSoC.

The board is described in <script-dir>/<board>.yml. The file is handed to
litedram_gen after checking that the SDRAM module, the PHY and the clock
frequencies make sense. Outputs go to build/gateware in the work directory.

Defaults for LITEX_SOC_DIR, LITEDRAM_GEN and LITEDRAM_MAKE can be set in
<script-dir>/litedram.env`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command line and exits. Any error exits with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("litedram-gen: %v", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func init() {
	flag := rootCmd.PersistentFlags()

	flag.StringVar(&gen_args.ScriptDir, "script-dir", default_script_dir(), "Folder with the board files, sdram_init and litedram-wrapper.vhdl")
	flag.StringVar(&gen_args.WorkDir, "work-dir", ".", "Folder where build/ is created")
	flag.StringVar(&gen_args.SoCDir, "soc-dir", "", "LiteX SoC folder. Defaults to $"+envSoCDir)
	flag.StringVar(&gen_args.Generator, "generator", litedram.DefaultGenerator, "Core generator command. Defaults to $"+envGenerator)
	flag.StringVar(&gen_args.Make, "make", litedram.DefaultMake, "Make command. Defaults to $"+envMake)
	flag.BoolVarP(&gen_args.InitSoftware, "init", "i", false, "Build the SDRAM init software and add the VHDL wrapper")
	flag.Uint64Var(&ram_base, "ram-base", litedram.DefaultMainRAMBase, "MAIN_RAM_BASE written to mem.h")
	flag.BoolVarP(&gen_args.Verbose, "verbose", "v", false, "verbose")
}

// The board files live next to the executable, as FuseSoC calls
// generators from the folder of the generator core
func default_script_dir() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return filepath.Dir(exe)
}

func setup(cmd *cobra.Command, args []string) error {
	run_id = xid.New().String()
	gen_args.MainRAMBase = ram_base
	if err := load_env(gen_args.ScriptDir); err != nil {
		return err
	}
	apply_env(&gen_args, cmd.Flags().Changed)
	if gen_args.Verbose {
		log.SetPrefix("[" + run_id + "] ")
		log.Printf("litedram-gen: %s", cmd.CommandPath())
		atexit.Register(func() {
			log.Printf("litedram-gen: run %s done", run_id)
		})
	}
	return nil
}

func load_env(dir string) error {
	err := godotenv.Load(filepath.Join(dir, envFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// apply_env fills the arguments that were not given in the command line
func apply_env(args *litedram.Args, changed func(string) bool) {
	pick := func(flag, env string, dst *string) {
		if changed(flag) {
			return
		}
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
	pick("soc-dir", envSoCDir, &args.SoCDir)
	pick("generator", envGenerator, &args.Generator)
	pick("make", envMake, &args.Make)
}
