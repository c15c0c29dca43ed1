// Package summary prints a boxed overview of a finished class report.
//
// The box lists the job, the number of classes and iterations, the last
// recorded distribution and resolution of every class, and the files that
// were written:
//
//	╭──────────────────────────────────────────╮
//	│              job012 summary              │
//	├──────────────────────────────────────────┤
//	│ Classes      3                           │
//	│ Iterations   25                          │
//	├──────────────────────────────────────────┤
//	│ Class   Distribution   Resolution (A)    │
//	│ 1           0.312442         9.176471    │
//	...
//	╰──────────────────────────────────────────╯
//
// Colors are optional so the same output can go to a log file.
package summary

import (
	"io"
	"math"

	"github.com/r3d91ll/classreport/pkg/classes"
)

// Box drawing characters. Rounded corners.
const (
	BoxTopLeft     = "╭"
	BoxTopRight    = "╮"
	BoxBottomLeft  = "╰"
	BoxBottomRight = "╯"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	BoxTeeLeft     = "├"
	BoxTeeRight    = "┤"
)

// ANSI color codes.
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// ClassRow is the last recorded state of one class.
type ClassRow struct {
	Label        string
	Distribution float64
	Resolution   float64
}

// Summary is what the box shows.
type Summary struct {
	Job        string
	Classes    int
	Iterations int
	Final      []ClassRow
	Outputs    []string
}

// FromTables summarizes a job from its two class tables. Each class reports
// its last non-missing value, NaN when it never had one.
func FromTables(job string, dist, res *classes.Table, outputs []string) Summary {
	s := Summary{
		Job:        job,
		Classes:    dist.Classes(),
		Iterations: dist.Len(),
		Outputs:    outputs,
	}
	legend := dist.Legend()
	for c := 0; c < dist.Classes(); c++ {
		row := ClassRow{Label: legend[c], Distribution: lastValue(dist.Column(c)), Resolution: math.NaN()}
		if c < res.Classes() {
			row.Resolution = lastValue(res.Column(c))
		}
		s.Final = append(s.Final, row)
	}
	return s
}

func lastValue(vs []float64) float64 {
	for i := len(vs) - 1; i >= 0; i-- {
		if !math.IsNaN(vs[i]) {
			return vs[i]
		}
	}
	return math.NaN()
}

// Renderer writes summaries.
type Renderer struct {
	w     io.Writer
	color bool
	width int
}

// NewRenderer creates a renderer writing to w, with ANSI colors if color
// is set.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color, width: defaultWidth}
}
