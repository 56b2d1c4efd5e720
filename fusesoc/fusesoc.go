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

// Package fusesoc implements the generator side of the FuseSoC CAPI2
// generator protocol: FuseSoC calls the generator with the path to a YAML
// file describing the request and expects a .core file describing the
// generated files in the working directory.
package fusesoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

type FileType string

const (
	VerilogSource  FileType = "verilogSource"
	VHDLSource2008 FileType = "vhdlSource-2008"
	User           FileType = "user"
)

const (
	DefaultFileset = "rtl"
	DefaultTarget  = "default"
)

type File struct {
	Path string
	Type FileType
}

// Manifest lists the generated files in registration order
type Manifest []File

func (m Manifest) Paths() []string {
	paths := make([]string, len(m))
	for k, each := range m {
		paths[k] = each.Path
	}
	return paths
}

func (m Manifest) String() string {
	var b strings.Builder
	for _, each := range m {
		fmt.Fprintf(&b, "%-40s %s\n", each.Path, each.Type)
	}
	return b.String()
}

// TypeFor guesses the file type from the extension
func TypeFor(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".v", ".sv":
		return VerilogSource
	case ".vhd", ".vhdl":
		return VHDLSource2008
	default:
		return User
	}
}

// Input is the YAML document FuseSoC passes to generators.
// Older FuseSoC versions use config instead of parameters.
type Input struct {
	Gapi       string                 `yaml:"gapi"`
	FilesRoot  string                 `yaml:"files_root"`
	VLNV       string                 `yaml:"vlnv"`
	Parameters map[string]interface{} `yaml:"parameters"`
	Config     map[string]interface{} `yaml:"config"`
}

func ReadInput(path string) (*Input, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in Input
	if err := yaml.Unmarshal(buf, &in); err != nil {
		return nil, fmt.Errorf("cannot parse generator input %s: %w", path, err)
	}
	if in.Parameters == nil {
		in.Parameters = in.Config
	}
	if in.VLNV == "" {
		return nil, fmt.Errorf("generator input %s: missing vlnv", path)
	}
	return &in, nil
}

// Param returns a string parameter, empty if absent
func (in *Input) Param(key string) string {
	v, ok := in.Parameters[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

type fileAttrs struct {
	FileType FileType `yaml:"file_type"`
}

type fileset struct {
	Files []map[string]fileAttrs `yaml:"files"`
}

type target struct {
	Filesets []string `yaml:"filesets"`
}

type coreFile struct {
	Name     string              `yaml:"name"`
	Filesets map[string]*fileset `yaml:"filesets"`
	Targets  map[string]*target  `yaml:"targets"`
}

// Generator collects files and writes them as a CAPI2 core
type Generator struct {
	in     *Input
	outdir string
	core   coreFile
}

// NewGenerator prepares a generator whose .core file goes to outdir
func NewGenerator(in *Input, outdir string) *Generator {
	return &Generator{
		in:     in,
		outdir: outdir,
		core: coreFile{
			Name:     in.VLNV,
			Filesets: make(map[string]*fileset),
			Targets:  make(map[string]*target),
		},
	}
}

// CoreFile is the path of the .core file written by Write. FuseSoC
// names it after the name part of the VLNV.
func (g *Generator) CoreFile() (string, error) {
	parts := strings.Split(g.in.VLNV, ":")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("malformed vlnv %q", g.in.VLNV)
	}
	return filepath.Join(g.outdir, parts[2]+".core"), nil
}

// AddFiles registers files in the rtl fileset of the default target
func (g *Generator) AddFiles(m Manifest) {
	g.AddFileset(DefaultFileset, []string{DefaultTarget}, m)
}

func (g *Generator) AddFileset(name string, targets []string, m Manifest) {
	fs, ok := g.core.Filesets[name]
	if !ok {
		fs = &fileset{}
		g.core.Filesets[name] = fs
	}
	for _, each := range m {
		fs.Files = append(fs.Files, map[string]fileAttrs{each.Path: {FileType: each.Type}})
	}
	for _, t := range targets {
		tgt, ok := g.core.Targets[t]
		if !ok {
			tgt = &target{}
			g.core.Targets[t] = tgt
		}
		if !contains(tgt.Filesets, name) {
			tgt.Filesets = append(tgt.Filesets, name)
		}
	}
}

// Write saves the .core file
func (g *Generator) Write() error {
	fname, err := g.CoreFile()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(&g.core)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("CAPI=2:\n")
	buf.Write(data)
	return os.WriteFile(fname, buf.Bytes(), 0644)
}

func contains(list []string, s string) bool {
	for _, each := range list {
		if each == s {
			return true
		}
	}
	return false
}
