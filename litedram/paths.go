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
	"errors"
	"log"
	"path/filepath"

	"github.com/microwatt/litedram-gen/boardcfg"
)

// Paths are absolute
type Paths struct {
	Script    string
	Work      string
	Config    string // <board>.yml
	Build     string // build/software
	GenInc    string // build/software/include
	Generated string // build/software/include/generated
	InitSrc   string // sdram_init sources
	LXSrc     string // LiteX BIOS sources
	LXInc     string // LiteX headers
	Gateware  string
	Wrapper   string
}

func MakePaths(args Args) (Paths, error) {
	var p Paths
	if args.Board == "" {
		return p, errors.New("no board given")
	}
	if args.InitSoftware && args.SoCDir == "" {
		return p, errors.New("the init software needs the LiteX SoC directory")
	}
	var err error
	if p.Script, err = filepath.Abs(args.ScriptDir); err != nil {
		return p, err
	}
	if p.Work, err = filepath.Abs(args.WorkDir); err != nil {
		return p, err
	}
	soc := args.SoCDir
	if soc != "" {
		if soc, err = filepath.Abs(soc); err != nil {
			return p, err
		}
	}
	p.Config = boardcfg.Path(p.Script, args.Board)
	p.Build = filepath.Join(p.Work, "build", "software")
	p.GenInc = filepath.Join(p.Build, "include")
	p.Generated = filepath.Join(p.GenInc, "generated")
	p.InitSrc = filepath.Join(p.Script, "sdram_init")
	p.LXSrc = filepath.Join(soc, "software", "bios")
	p.LXInc = filepath.Join(soc, "software", "include")
	p.Gateware = filepath.Join(p.Work, "build", "gateware")
	p.Wrapper = filepath.Join(p.Script, "litedram-wrapper.vhdl")
	return p, nil
}

func (p Paths) dump() {
	log.Println("litedram:  script dir:", p.Script)
	log.Println("litedram:   build dir:", p.Build)
	log.Println("litedram:     gen dir:", p.Generated)
	log.Println("litedram:     src dir:", p.InitSrc)
	log.Println("litedram:  lx src dir:", p.LXSrc)
	log.Println("litedram:  lx inc dir:", p.LXInc)
}
