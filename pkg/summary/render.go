package summary

import (
	"fmt"
	"math"
	"strconv"
)

const (
	defaultWidth = 46

	labelWidth  = 12
	classWidth  = 7
	numberWidth = 14
)

// Render writes s as a box.
func (r *Renderer) Render(s Summary) {
	b := &Box{Width: r.width}

	r.writeln(b.Top())
	r.writeln(b.RowCenter(r.header(s.Job + " summary")))
	r.writeln(b.Mid())
	r.writeln(b.Row(" " + padRight(r.label("Classes"), labelWidth) + r.value(strconv.Itoa(s.Classes))))
	r.writeln(b.Row(" " + padRight(r.label("Iterations"), labelWidth) + r.value(strconv.Itoa(s.Iterations))))

	if len(s.Final) > 0 {
		r.writeln(b.Mid())
		r.writeln(b.Row(" " + r.dim(padRight("Class", classWidth)+
			padLeft("Distribution", numberWidth)+padLeft("Resolution (A)", numberWidth+2))))
		for _, row := range s.Final {
			r.writeln(b.Row(" " + padRight(row.Label, classWidth) +
				padLeft(formatValue(row.Distribution), numberWidth) +
				padLeft(formatValue(row.Resolution), numberWidth+2)))
		}
	}

	if len(s.Outputs) > 0 {
		r.writeln(b.Mid())
		for _, path := range s.Outputs {
			r.writeln(b.Row(" " + r.dim("→ ") + tail(path, r.width-4)))
		}
	}
	r.writeln(b.Bottom())
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (r *Renderer) writeln(s string) {
	fmt.Fprintln(r.w, s)
}

// tail keeps the last width runes of path, marking the cut with "…".
func tail(path string, width int) string {
	runes := []rune(path)
	if len(runes) <= width || width < 2 {
		return path
	}
	return "…" + string(runes[len(runes)-width+1:])
}
