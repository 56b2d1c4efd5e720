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

package litedram

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var memTmpl = template.Must(template.New("mem.h").Parse(
	`// Generated by litedram-gen, do not edit
#define MAIN_RAM_BASE 0x{{printf "%08x" .}}
`))

type Variable struct {
	Key, Value string
}

// Variables is the content of variables.mak, in file order
type Variables []Variable

func makefile_escape(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

func (vars Variables) String() string {
	var b strings.Builder
	for _, each := range vars {
		fmt.Fprintf(&b, "%s=%s\n", each.Key, makefile_escape(each.Value))
	}
	return b.String()
}

// MakeVariables lists the directories the sdram_init Makefile expects
func MakeVariables(p Paths) Variables {
	return Variables{
		{"BUILD_DIR", p.Build},
		{"SRC_DIR", p.InitSrc},
		{"GENINC_DIR", p.GenInc},
		{"LXSRC_DIR", p.LXSrc},
		{"LXINC_DIR", p.LXInc},
	}
}

func write_mem_h(fname string, base uint64) error {
	var buffer bytes.Buffer
	if err := memTmpl.Execute(&buffer, base); err != nil {
		return err
	}
	return os.WriteFile(fname, buffer.Bytes(), 0644)
}

func build_init(args Args, p Paths, runner Runner) error {
	if err := os.MkdirAll(p.Generated, 0755); err != nil {
		return err
	}
	if err := write_mem_h(filepath.Join(p.Generated, "mem.h"), args.MainRAMBase); err != nil {
		return err
	}
	vars := MakeVariables(p).String()
	if err := os.WriteFile(filepath.Join(p.Generated, "variables.mak"), []byte(vars), 0644); err != nil {
		return err
	}

	argv, err := split_cmd(args.Make, DefaultMake)
	if err != nil {
		return err
	}
	argv = append(argv, "-C", p.Build, "-f", filepath.Join(p.InitSrc, "Makefile"))
	if args.Verbose {
		log.Printf("litedram: generating init software: %s", strings.Join(argv, " "))
	}
	if err := runner.Run(p.Work, argv); err != nil {
		return fmt.Errorf("sdram init software: %w", err)
	}

	if err := os.MkdirAll(p.Gateware, 0755); err != nil {
		return err
	}
	hex := filepath.Join(p.Build, "obj", "sdram_init.hex")
	if err := move_file(hex, filepath.Join(p.Gateware, "sdram_init.hex")); err != nil {
		return err
	}
	return copy_file(p.Wrapper, filepath.Join(p.Gateware, "litedram-wrapper.vhdl"))
}

// move_file falls back to copying when src and dst are on different
// file systems
func move_file(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copy_file(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copy_file(src, dst string) error {
	fin, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fin.Close()
	fout, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fout, fin); err != nil {
		fout.Close()
		return err
	}
	return fout.Close()
}
