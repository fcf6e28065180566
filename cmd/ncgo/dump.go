package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coinbase/netcdf-go/pkg/netcdf"
)

type dimInfo struct {
	Name      string `json:"name" yaml:"name"`
	Len       int    `json:"len" yaml:"len"`
	Unlimited bool   `json:"unlimited,omitempty" yaml:"unlimited,omitempty"`
}

type attInfo struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
	cdl   string
}

type varInfo struct {
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	Dimensions []string  `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Attributes []attInfo `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Data       any       `json:"data,omitempty" yaml:"data,omitempty"`
	cdlData    string
}

type groupInfo struct {
	Name       string      `json:"name" yaml:"name"`
	Dimensions []dimInfo   `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Variables  []varInfo   `json:"variables,omitempty" yaml:"variables,omitempty"`
	Attributes []attInfo   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Groups     []groupInfo `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// fileInfo is the dump document: the file name and format next to the
// fields of the root group.
type fileInfo struct {
	File      string `json:"file" yaml:"file"`
	Format    string `json:"format" yaml:"format"`
	groupInfo `yaml:",inline"`
}

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the header, and optionally data, of a netCDF file.",
		Long: `dump prints the dimensions, variables and attributes of FILE as CDL,
JSON or YAML. Files ending in .gz are decompressed in memory first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			a.log.WithField("path", args[0]).Debug("dumping file")

			info, err := describe(f, baseName(args[0]), a.cfg.GetStringSlice("var"))
			if err != nil {
				return err
			}
			switch format := a.cfg.GetString("format"); format {
			case "cdl":
				return writeCDL(a.out, info)
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				enc := yaml.NewEncoder(a.out)
				defer enc.Close()
				enc.SetIndent(2)
				return enc.Encode(info)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
}

// openInput opens path read-only. A .gz file is inflated and opened from
// memory.
func openInput(path string) (*netcdf.File, error) {
	if !strings.HasSuffix(path, ".gz") {
		return netcdf.Open(path)
	}
	raw, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer raw.Close()
	zr, err := gzip.NewReader(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer zr.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return netcdf.OpenMem(path, buf.Bytes())
}

func baseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func describe(f *netcdf.File, name string, vars []string) (*fileInfo, error) {
	format, err := f.Format()
	if err != nil {
		return nil, err
	}
	want := map[string]bool{}
	for _, v := range vars {
		want[v] = true
	}
	g, err := describeGroup(f.Root(), want)
	if err != nil {
		return nil, err
	}
	if len(want) > 0 {
		missing := slices.Sorted(maps.Keys(want))
		return nil, fmt.Errorf("variable %q: %w", missing[0], netcdf.ErrNotFound)
	}
	return &fileInfo{File: name, Format: format.String(), groupInfo: *g}, nil
}

// describeGroup collects the header of g. Data is read for the variables
// named in want, which are removed from it as they are found.
func describeGroup(g *netcdf.Group, want map[string]bool) (*groupInfo, error) {
	name, err := g.Name()
	if err != nil {
		return nil, err
	}
	info := &groupInfo{Name: name}

	dims, err := g.Dimensions()
	if err != nil {
		return nil, err
	}
	for _, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, err
		}
		info.Dimensions = append(info.Dimensions, dimInfo{Name: d.Name(), Len: n, Unlimited: d.IsUnlimited()})
	}

	vars, err := g.Variables()
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		vi, err := describeVariable(v, want[v.Name()])
		if err != nil {
			return nil, err
		}
		delete(want, v.Name())
		info.Variables = append(info.Variables, *vi)
	}

	atts, err := g.Attributes()
	if err != nil {
		return nil, err
	}
	if info.Attributes, err = describeAttributes(atts); err != nil {
		return nil, err
	}

	children, err := g.Groups()
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		ci, err := describeGroup(c, want)
		if err != nil {
			return nil, err
		}
		info.Groups = append(info.Groups, *ci)
	}
	return info, nil
}

func describeVariable(v *netcdf.Variable, withData bool) (*varInfo, error) {
	vi := &varInfo{Name: v.Name(), Type: v.Type().String()}
	dims, err := v.Dimensions()
	if err != nil {
		return nil, err
	}
	for _, d := range dims {
		vi.Dimensions = append(vi.Dimensions, d.Name())
	}
	atts, err := v.Attributes()
	if err != nil {
		return nil, err
	}
	if vi.Attributes, err = describeAttributes(atts); err != nil {
		return nil, err
	}
	if !withData {
		return vi, nil
	}
	data, err := v.Read(netcdf.All())
	if err != nil {
		return nil, err
	}
	val := netcdf.AttributeValue{Type: v.Type(), Data: data}
	if b, ok := data.([]byte); ok && v.Type() == netcdf.Char {
		val.Data = strings.TrimRight(string(b), "\x00")
	}
	vi.Data = plain(val.Data)
	vi.cdlData = val.String()
	return vi, nil
}

func describeAttributes(atts []*netcdf.Attribute) ([]attInfo, error) {
	var out []attInfo
	for _, att := range atts {
		val, err := att.Value()
		if err != nil {
			return nil, err
		}
		out = append(out, attInfo{Name: att.Name(), Type: val.Type.String(), Value: plain(val.Data), cdl: val.String()})
	}
	return out, nil
}

// plain widens []uint8 so encoders print numbers instead of base64.
func plain(data any) any {
	b, ok := data.([]uint8)
	if !ok {
		return data
	}
	out := make([]uint16, len(b))
	for i, x := range b {
		out[i] = uint16(x)
	}
	return out
}

func writeCDL(w io.Writer, info *fileInfo) error {
	var b strings.Builder
	fmt.Fprintf(&b, "netcdf %s {\n", info.File)
	writeGroupCDL(&b, &info.groupInfo, "")
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeGroupCDL(b *strings.Builder, g *groupInfo, indent string) {
	if len(g.Dimensions) > 0 {
		fmt.Fprintf(b, "%sdimensions:\n", indent)
		for _, d := range g.Dimensions {
			if d.Unlimited {
				fmt.Fprintf(b, "%s\t%s = UNLIMITED ; // (%d currently)\n", indent, d.Name, d.Len)
			} else {
				fmt.Fprintf(b, "%s\t%s = %d ;\n", indent, d.Name, d.Len)
			}
		}
	}
	if len(g.Variables) > 0 {
		fmt.Fprintf(b, "%svariables:\n", indent)
		for _, v := range g.Variables {
			if len(v.Dimensions) > 0 {
				fmt.Fprintf(b, "%s\t%s %s(%s) ;\n", indent, v.Type, v.Name, strings.Join(v.Dimensions, ", "))
			} else {
				fmt.Fprintf(b, "%s\t%s %s ;\n", indent, v.Type, v.Name)
			}
			for _, a := range v.Attributes {
				fmt.Fprintf(b, "%s\t\t%s:%s = %s ;\n", indent, v.Name, a.Name, a.cdl)
			}
		}
	}
	if len(g.Attributes) > 0 {
		fmt.Fprintf(b, "\n%s// global attributes:\n", indent)
		for _, a := range g.Attributes {
			fmt.Fprintf(b, "%s\t\t:%s = %s ;\n", indent, a.Name, a.cdl)
		}
	}
	header := false
	for _, v := range g.Variables {
		if v.Data == nil {
			continue
		}
		if !header {
			fmt.Fprintf(b, "%sdata:\n", indent)
			header = true
		}
		fmt.Fprintf(b, "\n%s %s = %s ;\n", indent, v.Name, v.cdlData)
	}
	for _, c := range g.Groups {
		fmt.Fprintf(b, "\n%sgroup: %s {\n", indent, c.Name)
		writeGroupCDL(b, &c, indent+"  ")
		fmt.Fprintf(b, "%s} // group %s\n", indent, c.Name)
	}
}
