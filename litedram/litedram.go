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

// Package litedram produces a LiteDRAM core for a board and hands the
// generated files over to FuseSoC.
package litedram

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/microwatt/litedram-gen/boardcfg"
	"github.com/microwatt/litedram-gen/fusesoc"

	"github.com/google/shlex"
)

const (
	DefaultGenerator   = "litedram_gen"
	DefaultMake        = "make"
	DefaultMainRAMBase = 0x40000000
)

// Artifacts, relative to the work directory
const (
	CoreVerilog = "build/gateware/litedram_core.v"
	CoreInit    = "build/gateware/litedram_core.init"
	WrapperVHDL = "build/gateware/litedram-wrapper.vhdl"
	InitHex     = "build/gateware/sdram_init.hex"
)

var ErrMissingArtifact = errors.New("missing artifact")

type Args struct {
	Board     string
	ScriptDir string // board files, sdram_init/ and litedram-wrapper.vhdl
	WorkDir   string // build/ is created here
	SoCDir    string // LiteX SoC sources, used by the init software
	Generator string // command line of the core generator
	Make      string
	// Build the SDRAM init software and ship it with the VHDL wrapper
	InitSoftware bool
	MainRAMBase  uint64
	Verbose      bool
}

// Runner runs an external program in dir and waits for it
type Runner interface {
	Run(dir string, argv []string) error
}

// Registrar receives the generated files
type Registrar interface {
	AddFiles(m fusesoc.Manifest)
	Write() error
}

// GeneratorError reports a generator that could not run or exited
// with a non-zero code. Code is -1 when the program did not start.
type GeneratorError struct {
	Argv []string
	Code int
	Err  error
}

func (e *GeneratorError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("cannot run %s: %v", strings.Join(e.Argv, " "), e.Err)
	}
	return fmt.Sprintf("%s exited with code %d", strings.Join(e.Argv, " "), e.Code)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}

type exitCoder interface {
	ExitCode() int
}

// Expected returns the manifest that Run would produce for args
func Expected(args Args) fusesoc.Manifest {
	files := []string{CoreVerilog, CoreInit}
	if args.InitSoftware {
		files = []string{CoreVerilog, WrapperVHDL, InitHex}
	}
	m := make(fusesoc.Manifest, 0, len(files))
	for _, each := range files {
		m = append(m, fusesoc.File{Path: each, Type: fusesoc.TypeFor(each)})
	}
	return m
}

// Run generates the core and registers the result with reg. Any error
// aborts the run; files written before the error are left in place.
func Run(args Args, runner Runner, reg Registrar) (fusesoc.Manifest, error) {
	paths, err := MakePaths(args)
	if err != nil {
		return nil, err
	}
	cfg, err := boardcfg.Load(paths.Script, args.Board)
	if err != nil {
		return nil, err
	}
	if args.Verbose {
		log.Printf("litedram: generating LiteDRAM for board %s", args.Board)
		paths.dump()
		if m := cfg.Module(); m != nil {
			log.Printf("litedram: module %s (%s, %d MiB per chip)", m.Name, m.MemType, m.Size()>>20)
		}
		if p := cfg.PHY(); p != nil {
			log.Printf("litedram: PHY %s (%s)", p.Name, p.Family)
		}
	}
	if err := run_generator(args, paths, runner); err != nil {
		return nil, err
	}
	if args.InitSoftware {
		if err := build_init(args, paths, runner); err != nil {
			return nil, err
		}
	}
	manifest := Expected(args)
	for _, each := range manifest {
		if _, err := os.Stat(filepath.Join(paths.Work, each.Path)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, each.Path)
		}
	}
	reg.AddFiles(manifest)
	if err := reg.Write(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func split_cmd(cmdline, fallback string) ([]string, error) {
	if strings.TrimSpace(cmdline) == "" {
		cmdline = fallback
	}
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("cannot parse command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command %q", cmdline)
	}
	return argv, nil
}

func run_generator(args Args, paths Paths, runner Runner) error {
	argv, err := split_cmd(args.Generator, DefaultGenerator)
	if err != nil {
		return err
	}
	argv = append(argv, paths.Config)
	if args.Verbose {
		log.Printf("litedram: generating DRAM controller verilog: %s", strings.Join(argv, " "))
	}
	if err := runner.Run(paths.Work, argv); err != nil {
		code := -1
		var ec exitCoder
		if errors.As(err, &ec) {
			code = ec.ExitCode()
		}
		return &GeneratorError{Argv: argv, Code: code, Err: err}
	}
	return nil
}
