// Package render draws class tables as raster or SVG line charts.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/r3d91ll/classreport/pkg/classes"
	rerrors "github.com/r3d91ll/classreport/pkg/errors"
	"github.com/r3d91ll/classreport/pkg/export"
)

// Options controls chart size and styling.
type Options struct {
	Width      int
	Height     int
	LineWidth  float64
	ShowPoints bool
}

// DefaultOptions returns a 1100x600 chart with 2px lines.
func DefaultOptions() Options {
	return Options{Width: 1100, Height: 600, LineWidth: 2}
}

// Chart builds a line chart of t with one series per class. Missing cells
// are left out of their series; classes with no values are omitted.
func Chart(t *classes.Table, opts Options) chart.Chart {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions().LineWidth
	}

	title, yLabel := export.ChartText(t.Kind)
	lo, hi := t.Bounds()

	xMax := float64(t.Len() - 1)
	if xMax < 1 {
		xMax = 1
	}

	ch := chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  export.IterationLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: iterationTicks(t.Len()),
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: niceTicks(lo, hi, 6),
		},
		Series: classSeries(t, opts),
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func classSeries(t *classes.Table, opts Options) []chart.Series {
	legend := t.Legend()
	var series []chart.Series
	for c := 0; c < t.Classes(); c++ {
		var xs, ys []float64
		for r, v := range t.Column(c) {
			if math.IsNaN(v) {
				continue
			}
			xs = append(xs, float64(r))
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}

		col := hexColor(export.ClassPalette[c%len(export.ClassPalette)])
		st := chart.Style{StrokeColor: col, StrokeWidth: opts.LineWidth}
		if opts.ShowPoints || len(xs) == 1 {
			st.DotColor = col
			st.DotWidth = 3
		}
		series = append(series, chart.ContinuousSeries{
			Name:    legend[c],
			XValues: xs,
			YValues: ys,
			Style:   st,
		})
	}
	return series
}

// PNG renders t as a PNG image.
func PNG(w io.Writer, t *classes.Table, opts Options) error {
	return renderTo(w, t, opts, chart.PNG)
}

// SVG renders t as an SVG document.
func SVG(w io.Writer, t *classes.Table, opts Options) error {
	return renderTo(w, t, opts, chart.SVG)
}

// Image renders t and decodes the PNG for display.
func Image(t *classes.Table, opts Options) (image.Image, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, t, opts); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, rerrors.Internal(rerrors.ErrInternalDisplay, fmt.Sprintf("failed to decode %s chart", t.Kind)).WithCause(err)
	}
	return img, nil
}

func renderTo(w io.Writer, t *classes.Table, opts Options, provider chart.RendererProvider) error {
	ch := Chart(t, opts)
	if len(ch.Series) == 0 {
		return rerrors.Validationf(rerrors.ErrValidationInvalidValue, "%s table has no values to chart", t.Kind)
	}
	if err := ch.Render(provider, w); err != nil {
		return rerrors.IOWrapf(err, rerrors.ErrIOWriteFailed, "failed to render %s chart", t.Kind)
	}
	return nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// iterationTicks labels whole iteration positions, thinned to about ten.
func iterationTicks(n int) []chart.Tick {
	if n < 1 {
		n = 1
	}
	step := 1
	for n/step > 10 {
		step *= 2
	}
	ticks := make([]chart.Tick, 0, n/step+1)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}
	if n == 1 {
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}
	return ticks
}

// niceTicks returns up to n+2 ticks in [min, max] on a 1-2-2.5-5 step.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil((max-min)/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			best, bestScore = step, score
		}
	}

	var ticks []chart.Tick
	for v := math.Ceil(min/best) * best; v <= max+best*1e-9; v += best {
		ticks = append(ticks, chart.Tick{Value: v, Label: tickLabel(v, best)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func tickLabel(v, step float64) string {
	if math.Abs(v) < step*1e-9 {
		return "0"
	}
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
		if step*math.Pow(10, float64(decimals)) != math.Round(step*math.Pow(10, float64(decimals))) {
			decimals++
		}
	} else if step != math.Trunc(step) {
		decimals = 1
	}
	return fmt.Sprintf("%.*f", decimals, v)
}
