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

package boardcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/microwatt/litedram-gen/catalog"

	"gopkg.in/yaml.v2"
)

// Config is the content of a <board>.yml file. Keys not listed below are
// kept as parsed and handed over to litedram_gen untouched.
type Config map[string]interface{}

const (
	ModuleKey = "sdram_module"
	PHYKey    = "sdram_phy"
	freqKey   = "clk_freq"
)

var literals = map[string]interface{}{
	"True":  true,
	"False": false,
	"None":  nil,
}

// Path returns the location of the board file inside dir
func Path(dir, board string) string {
	return filepath.Join(dir, board+".yml")
}

// Load reads and normalizes <dir>/<board>.yml. A missing file returns an
// error matching fs.ErrNotExist.
func Load(dir, board string) (Config, error) {
	fname := Path(dir, board)
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}

// Parse decodes a board file and normalizes it
func Parse(buf []byte) (Config, error) {
	cfg := make(Config)
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse board file: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize applies, in this order: the True/False/None literals,
// float conversion of the clk_freq keys and the catalog look up of the
// module and PHY names.
func (cfg Config) Normalize() error {
	for _, k := range cfg.Keys() {
		v := cfg[k]
		if s, ok := v.(string); ok {
			if lit, found := literals[s]; found {
				v = lit
			}
		}
		if strings.Contains(k, freqKey) {
			f, err := to_float(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			v = f
		}
		switch k {
		case ModuleKey:
			if _, done := v.(*catalog.Module); done {
				break
			}
			name, ok := v.(string)
			if !ok {
				return fmt.Errorf("%s: %w %v", k, catalog.ErrUnknownModule, v)
			}
			m, err := catalog.LookupModule(name)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			v = m
		case PHYKey:
			if _, done := v.(*catalog.PHY); done {
				break
			}
			name, ok := v.(string)
			if !ok {
				return fmt.Errorf("%s: %w %v", k, catalog.ErrUnknownPHY, v)
			}
			p, err := catalog.LookupPHY(name)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			v = p
		}
		cfg[k] = v
	}
	return nil
}

func to_float(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not a frequency: %q", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not a frequency: %v", v)
}

// Keys in alphabetical order
func (cfg Config) Keys() []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Module returns the resolved sdram_module, nil if the key is absent
func (cfg Config) Module() *catalog.Module {
	m, _ := cfg[ModuleKey].(*catalog.Module)
	return m
}

// PHY returns the resolved sdram_phy, nil if the key is absent
func (cfg Config) PHY() *catalog.PHY {
	p, _ := cfg[PHYKey].(*catalog.PHY)
	return p
}

// Float returns a clk_freq style entry
func (cfg Config) Float(key string) (float64, bool) {
	f, ok := cfg[key].(float64)
	return f, ok
}
