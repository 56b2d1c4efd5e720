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

// Package catalog holds the SDRAM module and PHY names that a board file
// may refer to. The names match the classes exported by litedram.modules
// and litedram.phy so the same board file can be handed to litedram_gen.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownModule = errors.New("unknown SDRAM module")
	ErrUnknownPHY    = errors.New("unknown SDRAM PHY")
)

type Module struct {
	Name     string
	MemType  string // SDR, DDR, LPDDR, DDR2, DDR3, DDR4
	NBanks   int
	NRows    int
	NCols    int
	DataBits int // per chip, or data width of a DIMM
}

// Size is the capacity of one chip (or single-rank DIMM) in bytes
func (m *Module) Size() int64 {
	return int64(m.NBanks) * int64(m.NRows) * int64(m.NCols) * int64(m.DataBits) / 8
}

func (m *Module) String() string {
	return m.Name
}

type PHY struct {
	Name     string
	Family   string
	MemTypes []string
}

func (p *PHY) String() string {
	return p.Name
}

// Supports reports whether the PHY can drive the given memory type
func (p *PHY) Supports(memtype string) bool {
	for _, each := range p.MemTypes {
		if each == memtype {
			return true
		}
	}
	return false
}

var modules = map[string]*Module{}
var phys = map[string]*PHY{}

func add_module(name, memtype string, nbanks, nrows, ncols, databits int) {
	modules[name] = &Module{
		Name:     name,
		MemType:  memtype,
		NBanks:   nbanks,
		NRows:    nrows,
		NCols:    ncols,
		DataBits: databits,
	}
}

func add_phy(name, family string, memtypes ...string) {
	phys[name] = &PHY{Name: name, Family: family, MemTypes: memtypes}
}

func init() {
	// SDR
	add_module("IS42S16160", "SDR", 4, 8192, 512, 16)
	add_module("IS42S16320", "SDR", 4, 8192, 1024, 16)
	add_module("MT48LC4M16", "SDR", 4, 4096, 256, 16)
	add_module("MT48LC16M16", "SDR", 4, 8192, 512, 16)
	add_module("AS4C16M16", "SDR", 4, 8192, 512, 16)
	add_module("AS4C32M16", "SDR", 4, 8192, 1024, 16)
	add_module("AS4C32M8", "SDR", 4, 8192, 1024, 8)
	add_module("M12L16161A", "SDR", 2, 2048, 256, 16)
	add_module("M12L64322A", "SDR", 4, 2048, 256, 32)
	// DDR
	add_module("MT46V32M16", "DDR", 4, 8192, 1024, 16)
	// LPDDR
	add_module("MT46H32M16", "LPDDR", 4, 8192, 1024, 16)
	add_module("MT46H32M32", "LPDDR", 4, 8192, 1024, 32)
	// DDR2
	add_module("MT47H128M8", "DDR2", 8, 16384, 1024, 8)
	add_module("MT47H32M16", "DDR2", 4, 8192, 1024, 16)
	add_module("MT47H64M16", "DDR2", 8, 8192, 1024, 16)
	add_module("P3R1GE4JGF", "DDR2", 8, 8192, 1024, 16)
	// DDR3
	add_module("MT41K64M16", "DDR3", 8, 8192, 1024, 16)
	add_module("MT41J128M16", "DDR3", 8, 16384, 1024, 16)
	add_module("MT41K128M16", "DDR3", 8, 16384, 1024, 16)
	add_module("MT41J256M16", "DDR3", 8, 32768, 1024, 16)
	add_module("MT41K256M16", "DDR3", 8, 32768, 1024, 16)
	add_module("MT41J512M16", "DDR3", 8, 65536, 1024, 16)
	add_module("MT41K512M16", "DDR3", 8, 65536, 1024, 16)
	add_module("MT41K256M8", "DDR3", 8, 32768, 1024, 8)
	add_module("MT41J512M8", "DDR3", 8, 65536, 1024, 8)
	add_module("MT41K512M8", "DDR3", 8, 65536, 1024, 8)
	add_module("K4B1G0446F", "DDR3", 8, 16384, 2048, 4)
	add_module("K4B2G1646F", "DDR3", 8, 16384, 1024, 16)
	add_module("AS4C256M16D3A", "DDR3", 8, 32768, 1024, 16)
	add_module("H5TC4G63CFR", "DDR3", 8, 32768, 1024, 16)
	add_module("IS43TR16128B", "DDR3", 8, 16384, 1024, 16)
	add_module("MT8JTF12864", "DDR3", 8, 16384, 1024, 64)
	add_module("MT8KTF51264", "DDR3", 8, 65536, 1024, 64)
	// DDR4
	add_module("MT40A256M16", "DDR4", 8, 32768, 1024, 16)
	add_module("MT40A512M8", "DDR4", 16, 32768, 1024, 8)
	add_module("MT40A512M16", "DDR4", 8, 65536, 1024, 16)
	add_module("MT40A1G8", "DDR4", 16, 65536, 1024, 8)
	add_module("MT40A1G16", "DDR4", 8, 131072, 1024, 16)
	add_module("EDY4016A", "DDR4", 8, 32768, 1024, 16)
	add_module("MTA4ATF51264HZ", "DDR4", 8, 65536, 1024, 64)
	add_module("KVR21SE15S84", "DDR4", 16, 32768, 1024, 64)

	add_phy("GENSDRPHY", "generic", "SDR")
	add_phy("HalfRateGENSDRPHY", "generic", "SDR")
	add_phy("S6HalfRateDDRPHY", "spartan6", "DDR", "LPDDR", "DDR2", "DDR3")
	add_phy("S6QuarterRateDDRPHY", "spartan6", "DDR3")
	add_phy("S7DDRPHY", "7series", "DDR2", "DDR3")
	add_phy("A7DDRPHY", "7series", "DDR2", "DDR3")
	add_phy("K7DDRPHY", "7series", "DDR2", "DDR3")
	add_phy("V7DDRPHY", "7series", "DDR2", "DDR3")
	add_phy("USDDRPHY", "ultrascale", "DDR3", "DDR4")
	add_phy("USPDDRPHY", "ultrascale+", "DDR3", "DDR4")
	add_phy("ECP5DDRPHY", "ecp5", "DDR3")
}

func LookupModule(name string) (*Module, error) {
	m, ok := modules[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownModule, name)
	}
	return m, nil
}

func LookupPHY(name string) (*PHY, error) {
	p, ok := phys[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPHY, name)
	}
	return p, nil
}

// Modules returns the module names in alphabetical order
func Modules() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PHYs returns the PHY names in alphabetical order
func PHYs() []string {
	names := make([]string, 0, len(phys))
	for name := range phys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
