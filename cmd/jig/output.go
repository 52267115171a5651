package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/chazu/jig/pkg/attach"
	"github.com/chazu/jig/pkg/document"
	"github.com/chazu/jig/pkg/geom"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// textWriter is implemented by outputs with a tabular text form.
type textWriter interface {
	writeText(w io.Writer) error
}

// render writes v in the given format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text":
		if t, ok := v.(textWriter); ok {
			return t.writeText(w)
		}
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// ---------------------------------------------------------------------------
// eval
// ---------------------------------------------------------------------------

type placementOut struct {
	Origin [3]float64 `json:"origin" yaml:"origin,flow"`
	X      [3]float64 `json:"x" yaml:"x,flow"`
	Y      [3]float64 `json:"y" yaml:"y,flow"`
	Z      [3]float64 `json:"z" yaml:"z,flow"`
}

func placementOf(p geom.Placement) placementOut {
	arr := func(v geom.Vec) [3]float64 { return [3]float64{clean(v.X), clean(v.Y), clean(v.Z)} }
	return placementOut{
		Origin: arr(p.Origin),
		X:      arr(p.Rotation.X),
		Y:      arr(p.Rotation.Y),
		Z:      arr(p.Rotation.Z),
	}
}

// clean rounds away float noise below 1e-12 so output is stable.
func clean(f float64) float64 {
	if f > -1e-12 && f < 1e-12 {
		return 0
	}
	return f
}

type objectOut struct {
	ID        string       `json:"id" yaml:"id"`
	Label     string       `json:"label,omitempty" yaml:"label,omitempty"`
	Dimension string       `json:"dimension,omitempty" yaml:"dimension,omitempty"`
	Mode      string       `json:"mode,omitempty" yaml:"mode,omitempty"`
	State     string       `json:"state" yaml:"state"`
	Level     *int         `json:"level,omitempty" yaml:"level,omitempty"`
	Placement placementOut `json:"placement" yaml:"placement"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
}

type evalOut struct {
	Objects  []objectOut `json:"objects" yaml:"objects"`
	Levels   int         `json:"levels" yaml:"levels"`
	Failed   int         `json:"failed" yaml:"failed"`
	Warnings []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func newEvalOut(d *document.Document, rep *document.Report, warnings []string) evalOut {
	out := evalOut{Levels: rep.Levels, Failed: len(rep.Failed()), Warnings: warnings}
	for _, o := range d.Objects() {
		obj := objectOut{
			ID:        string(o.ID),
			State:     "free",
			Placement: placementOf(o.Placement()),
		}
		if o.Label != string(o.ID) {
			obj.Label = o.Label
		}
		if a := o.Attachment; a != nil {
			obj.Dimension = a.Dimension().String()
			obj.Mode = string(a.Mode())
			obj.State = a.State().String()
		}
		if res, ok := rep.Result(o.ID); ok {
			lvl := res.Level
			obj.Level = &lvl
			if res.Err != nil {
				obj.Error = res.Err.Error()
			}
		}
		out.Objects = append(out.Objects, obj)
	}
	return out
}

func (e evalOut) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODE\tSTATE\tORIGIN\tZ\tERROR")
	for _, o := range e.Objects {
		mode := "-"
		if o.Mode != "" {
			mode = o.Dimension + "/" + o.Mode
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, mode, o.State, triple(o.Placement.Origin), triple(o.Placement.Z), o.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warn := range e.Warnings {
		fmt.Fprintln(w, warnStyle.Render("warning:"), warn)
	}
	style := summaryStyle
	if e.Failed > 0 {
		style = errorStyle
	}
	_, err := fmt.Fprintln(w, style.Render(fmt.Sprintf("%d levels, %d failed", e.Levels, e.Failed)))
	return err
}

func triple(v [3]float64) string {
	return fmt.Sprintf("(%.6g %.6g %.6g)", v[0], v[1], v[2])
}

// ---------------------------------------------------------------------------
// modes
// ---------------------------------------------------------------------------

type modeOut struct {
	Dimension string   `json:"dimension" yaml:"dimension"`
	ID        string   `json:"id" yaml:"id"`
	Caption   string   `json:"caption" yaml:"caption"`
	Slots     []string `json:"slots" yaml:"slots,flow"`
}

type modesOut []modeOut

func newModeOut(m *attach.Mode) modeOut {
	slots := make([]string, len(m.Slots))
	for i, s := range m.Slots {
		slots[i] = s.Kinds.String()
		if s.Optional {
			slots[i] += "?"
		}
	}
	return modeOut{Dimension: m.Dim.String(), ID: string(m.ID), Caption: m.Caption, Slots: slots}
}

func (ms modesOut) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tMODE\tREFERENCES\tCAPTION")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Dimension, m.ID, strings.Join(m.Slots, " "), m.Caption)
	}
	return tw.Flush()
}
