// Package export writes class charts as PDF pages and class tables as CSV.
package export

import (
	"fmt"
	"math"
	"strings"
)

// PDF constants for document generation.
const (
	// PDFVersion is the PDF specification version used.
	PDFVersion = "1.4"

	// PDFProducer is the producer string embedded in PDF metadata.
	PDFProducer = "classreport"
)

// LegendPosition places the legend inside the plot area.
type LegendPosition int

const (
	LegendUpperLeft LegendPosition = iota
	LegendUpperRight
)

// LegendConfig controls the legend box.
type LegendConfig struct {
	Show     bool
	Title    string
	Columns  int
	Position LegendPosition
}

// PDFConfig specifies options for one chart page.
type PDFConfig struct {
	// Width and Height are the page size in points (1 point = 1/72 inch).
	Width  float64
	Height float64

	Title      string
	XAxisLabel string
	YAxisLabel string

	// YMin and YMax fix the y range when FixedY is set; otherwise the range
	// is derived from the data.
	YMin   float64
	YMax   float64
	FixedY bool

	ShowGrid   bool
	ShowPoints bool

	Legend LegendConfig

	// Footer is printed small in the bottom-left corner.
	Footer string

	FontSize    float64
	Padding     float64
	PointRadius float64
	LineWidth   float64

	GridColor       PDFColor
	AxisColor       PDFColor
	BackgroundColor PDFColor
}

// PDFColor represents an RGB color for PDF output.
type PDFColor struct {
	R, G, B float64 // Values in range [0, 1]
}

// HexToPDFColor converts a hex color string to PDFColor.
func HexToPDFColor(hex string) PDFColor {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return PDFColor{0, 0, 0}
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return PDFColor{0, 0, 0}
	}
	return PDFColor{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// String returns the PDF color operands.
func (c PDFColor) String() string {
	return fmt.Sprintf("%.3f %.3f %.3f", c.R, c.G, c.B)
}

// DefaultPDFConfig returns a landscape US Letter chart page.
func DefaultPDFConfig() *PDFConfig {
	return &PDFConfig{
		Width:      792,
		Height:     612,
		XAxisLabel: "Iteration",
		ShowGrid:   true,
		Legend: LegendConfig{
			Show:     true,
			Columns:  1,
			Position: LegendUpperRight,
		},
		FontSize:        10,
		Padding:         50,
		PointRadius:     2.5,
		LineWidth:       1.5,
		GridColor:       PDFColor{0.85, 0.85, 0.85},
		AxisColor:       PDFColor{0.2, 0.2, 0.2},
		BackgroundColor: PDFColor{1, 1, 1},
	}
}

// Series is one line of a chart. NaN values in Y break the line.
type Series struct {
	Label string
	Color string
	X     []float64
	Y     []float64
}

// PDFPlotBuilder draws line charts as PDF content streams.
type PDFPlotBuilder struct {
	config *PDFConfig
	series []Series
}

// NewPDFPlotBuilder creates a builder. If config is nil, DefaultPDFConfig()
// is used.
func NewPDFPlotBuilder(config *PDFConfig) *PDFPlotBuilder {
	if config == nil {
		config = DefaultPDFConfig()
	}
	return &PDFPlotBuilder{config: config}
}

// AddSeries adds a line to the chart.
func (ppb *PDFPlotBuilder) AddSeries(s Series) *PDFPlotBuilder {
	ppb.series = append(ppb.series, s)
	return ppb
}

// SetYRange fixes the y axis to [min, max].
func (ppb *PDFPlotBuilder) SetYRange(min, max float64) *PDFPlotBuilder {
	ppb.config.YMin = min
	ppb.config.YMax = max
	ppb.config.FixedY = true
	return ppb
}

// plotArea is the chart rectangle in page coordinates.
type plotArea struct {
	left, bottom  float64
	width, height float64

	minX, maxX float64
	minY, maxY float64
}

func (a plotArea) x(v float64) float64 { return scaleValue(v, a.minX, a.maxX, 0, a.width) }
func (a plotArea) y(v float64) float64 { return scaleValue(v, a.minY, a.maxY, 0, a.height) }

// BuildPage returns the content stream of one chart page.
func (ppb *PDFPlotBuilder) BuildPage() string {
	cfg := ppb.config

	titleOffset := 0.0
	if cfg.Title != "" {
		titleOffset = 25
	}
	tickLabelRoom := 3.5 * cfg.FontSize

	area := plotArea{
		left:   cfg.Padding + tickLabelRoom,
		bottom: cfg.Padding,
	}
	area.width = cfg.Width - area.left - cfg.Padding
	area.height = cfg.Height - area.bottom - cfg.Padding - titleOffset
	area.minX, area.maxX, area.minY, area.maxY = ppb.calculateBounds()

	var content strings.Builder

	content.WriteString("q\n")
	fmt.Fprintf(&content, "%s rg\n", cfg.BackgroundColor.String())
	fmt.Fprintf(&content, "0 0 %.2f %.2f re f\n", cfg.Width, cfg.Height)
	fmt.Fprintf(&content, "1 0 0 1 %.2f %.2f cm\n", area.left, area.bottom)

	if cfg.ShowGrid {
		ppb.writeGrid(&content, area)
	}
	ppb.writeAxes(&content, area)

	// series are clipped to the plot rectangle
	content.WriteString("q\n")
	fmt.Fprintf(&content, "0 0 %.2f %.2f re W n\n", area.width, area.height)
	for i, s := range ppb.series {
		ppb.writeSeries(&content, s, i, area)
	}
	content.WriteString("Q\n")

	if cfg.Legend.Show && len(ppb.series) > 0 {
		ppb.writeLegend(&content, area)
	}
	content.WriteString("Q\n")

	if cfg.Title != "" {
		ppb.writeTitle(&content)
	}
	ppb.writeAxisLabels(&content, area)
	if cfg.Footer != "" {
		ppb.writeFooter(&content)
	}

	return content.String()
}

// Build renders the chart as a single-page PDF document.
func (ppb *PDFPlotBuilder) Build(info DocumentInfo, compress bool) []byte {
	doc := NewPDFDocument(info, compress)
	doc.AddPage(ppb.config.Width, ppb.config.Height, ppb.BuildPage())
	return doc.Build()
}

// calculateBounds determines the axis ranges. NaN values are ignored.
func (ppb *PDFPlotBuilder) calculateBounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = math.Inf(1), math.Inf(-1)
	minY, maxY = math.Inf(1), math.Inf(-1)

	for _, s := range ppb.series {
		for i, x := range s.X {
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
			if i < len(s.Y) && !math.IsNaN(s.Y[i]) {
				minY = math.Min(minY, s.Y[i])
				maxY = math.Max(maxY, s.Y[i])
			}
		}
	}

	if math.IsInf(minX, 1) {
		minX, maxX = 0, 1
	}
	if minX == maxX {
		minX--
		maxX++
	}

	if ppb.config.FixedY {
		minY, maxY = ppb.config.YMin, ppb.config.YMax
	} else if math.IsInf(minY, 1) {
		minY, maxY = 0, 1
	} else if pad := (maxY - minY) * 0.1; pad > 0 {
		minY -= pad
		maxY += pad
	}
	if minY == maxY {
		minY--
		maxY++
	}
	return minX, maxX, minY, maxY
}

// writeGrid writes dashed grid lines at every tick.
func (ppb *PDFPlotBuilder) writeGrid(sb *strings.Builder, a plotArea) {
	fmt.Fprintf(sb, "%s RG\n", ppb.config.GridColor.String())
	sb.WriteString("0.5 w\n")
	sb.WriteString("[3 3] 0 d\n")

	for _, tick := range calculateIntTicks(a.minX, a.maxX, 10) {
		x := a.x(tick)
		fmt.Fprintf(sb, "%.2f 0 m %.2f %.2f l S\n", x, x, a.height)
	}
	for _, tick := range calculateFloatTicks(a.minY, a.maxY, 8) {
		y := a.y(tick)
		fmt.Fprintf(sb, "0 %.2f m %.2f %.2f l S\n", y, a.width, y)
	}

	sb.WriteString("[] 0 d\n")
}

// writeAxes writes the axis lines, tick marks and tick labels.
func (ppb *PDFPlotBuilder) writeAxes(sb *strings.Builder, a plotArea) {
	cfg := ppb.config
	xTicks := calculateIntTicks(a.minX, a.maxX, 10)
	yTicks := calculateFloatTicks(a.minY, a.maxY, 8)

	fmt.Fprintf(sb, "%s RG\n", cfg.AxisColor.String())
	sb.WriteString("1 w\n")
	fmt.Fprintf(sb, "0 0 m %.2f 0 l S\n", a.width)
	fmt.Fprintf(sb, "0 0 m 0 %.2f l S\n", a.height)

	for _, tick := range xTicks {
		x := a.x(tick)
		fmt.Fprintf(sb, "%.2f 0 m %.2f -4 l S\n", x, x)
	}
	for _, tick := range yTicks {
		y := a.y(tick)
		fmt.Fprintf(sb, "0 %.2f m -4 %.2f l S\n", y, y)
	}

	size := cfg.FontSize - 1
	sb.WriteString("BT\n")
	fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
	fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
	for _, tick := range xTicks {
		label := formatTick(tick)
		x := a.x(tick) - textWidth(label, size)/2
		fmt.Fprintf(sb, "1 0 0 1 %.2f %.2f Tm (%s) Tj\n", x, -6-size, escapePDFString(label))
	}
	for _, tick := range yTicks {
		label := formatTick(tick)
		x := -7 - textWidth(label, size)
		fmt.Fprintf(sb, "1 0 0 1 %.2f %.2f Tm (%s) Tj\n", x, a.y(tick)-size/3, escapePDFString(label))
	}
	sb.WriteString("ET\n")
}

// writeSeries writes one line. A NaN ends the current segment; a segment of
// a single point is drawn as a marker.
func (ppb *PDFPlotBuilder) writeSeries(sb *strings.Builder, s Series, index int, a plotArea) {
	if len(s.X) == 0 {
		return
	}
	color := seriesColor(s, index)

	fmt.Fprintf(sb, "%s RG\n", color.String())
	fmt.Fprintf(sb, "%.2f w\n", ppb.config.LineWidth)
	sb.WriteString("1 J\n1 j\n")

	var isolated [][2]float64
	segment := 0
	var first [2]float64
	flush := func() {
		switch {
		case segment == 1:
			sb.WriteString("n\n")
			isolated = append(isolated, first)
		case segment > 1:
			sb.WriteString("S\n")
		}
		segment = 0
	}

	for i, xv := range s.X {
		if i >= len(s.Y) || math.IsNaN(s.Y[i]) {
			flush()
			continue
		}
		x, y := a.x(xv), a.y(s.Y[i])
		if segment == 0 {
			fmt.Fprintf(sb, "%.2f %.2f m\n", x, y)
			first = [2]float64{x, y}
		} else {
			fmt.Fprintf(sb, "%.2f %.2f l\n", x, y)
		}
		segment++
	}
	flush()

	if len(isolated) > 0 || ppb.config.ShowPoints {
		fmt.Fprintf(sb, "%s rg\n", color.String())
		if ppb.config.ShowPoints {
			isolated = isolated[:0]
			for i, xv := range s.X {
				if i < len(s.Y) && !math.IsNaN(s.Y[i]) {
					isolated = append(isolated, [2]float64{a.x(xv), a.y(s.Y[i])})
				}
			}
		}
		for _, p := range isolated {
			writeCircle(sb, p[0], p[1], ppb.config.PointRadius)
			sb.WriteString("f\n")
		}
	}
}

// writeCircle appends a circle path built from four Bezier curves.
func writeCircle(sb *strings.Builder, x, y, r float64) {
	k := r * 0.5523
	fmt.Fprintf(sb, "%.2f %.2f m\n", x+r, y)
	fmt.Fprintf(sb, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+r, y+k, x+k, y+r, x, y+r)
	fmt.Fprintf(sb, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x-k, y+r, x-r, y+k, x-r, y)
	fmt.Fprintf(sb, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x-r, y-k, x-k, y-r, x, y-r)
	fmt.Fprintf(sb, "%.2f %.2f %.2f %.2f %.2f %.2f c\n", x+k, y-r, x+r, y-k, x+r, y)
}

// writeTitle writes the page title centered at the top.
func (ppb *PDFPlotBuilder) writeTitle(sb *strings.Builder) {
	cfg := ppb.config
	size := cfg.FontSize + 4
	x := (cfg.Width - textWidth(cfg.Title, size)) / 2
	y := cfg.Height - cfg.Padding + 5

	sb.WriteString("BT\n")
	fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
	fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
	fmt.Fprintf(sb, "%.2f %.2f Td\n", x, y)
	fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(cfg.Title))
	sb.WriteString("ET\n")
}

// writeAxisLabels writes the x label under the axis and the y label rotated
// along the left edge.
func (ppb *PDFPlotBuilder) writeAxisLabels(sb *strings.Builder, a plotArea) {
	cfg := ppb.config
	size := cfg.FontSize

	if cfg.XAxisLabel != "" {
		x := a.left + (a.width-textWidth(cfg.XAxisLabel, size))/2
		y := a.bottom - 2*size - 12

		sb.WriteString("BT\n")
		fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
		fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
		fmt.Fprintf(sb, "%.2f %.2f Td\n", x, y)
		fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(cfg.XAxisLabel))
		sb.WriteString("ET\n")
	}

	if cfg.YAxisLabel != "" {
		x := cfg.Padding - 5
		y := a.bottom + (a.height-textWidth(cfg.YAxisLabel, size))/2

		sb.WriteString("BT\n")
		fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
		fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
		// rotate 90 degrees: [cos sin -sin cos tx ty]
		fmt.Fprintf(sb, "0 1 -1 0 %.2f %.2f Tm\n", x, y)
		fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(cfg.YAxisLabel))
		sb.WriteString("ET\n")
	}
}

// writeFooter writes the footer line in the bottom-left corner.
func (ppb *PDFPlotBuilder) writeFooter(sb *strings.Builder) {
	cfg := ppb.config
	sb.WriteString("BT\n")
	fmt.Fprintf(sb, "/F1 %.2f Tf\n", cfg.FontSize-3)
	sb.WriteString("0.500 0.500 0.500 rg\n")
	fmt.Fprintf(sb, "%.2f %.2f Td\n", cfg.Padding/2, cfg.Padding/3)
	fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(cfg.Footer))
	sb.WriteString("ET\n")
}

// writeLegend writes a framed legend inside the plot area. Entries fill the
// columns top to bottom, left to right.
func (ppb *PDFPlotBuilder) writeLegend(sb *strings.Builder, a plotArea) {
	cfg := ppb.config
	size := cfg.FontSize - 1
	lineHeight := size + 5
	const (
		inset     = 8.0
		pad       = 6.0
		sampleLen = 18.0
		sampleGap = 5.0
		colGap    = 12.0
	)

	cols := cfg.Legend.Columns
	if cols < 1 {
		cols = 1
	}
	if cols > len(ppb.series) {
		cols = len(ppb.series)
	}
	rows := (len(ppb.series) + cols - 1) / cols

	labelWidth := 0.0
	for _, s := range ppb.series {
		labelWidth = math.Max(labelWidth, textWidth(s.Label, size))
	}
	colWidth := sampleLen + sampleGap + labelWidth

	boxWidth := 2*pad + float64(cols)*colWidth + float64(cols-1)*colGap
	titleHeight := 0.0
	if cfg.Legend.Title != "" {
		titleHeight = lineHeight
		boxWidth = math.Max(boxWidth, 2*pad+textWidth(cfg.Legend.Title, size))
	}
	boxHeight := 2*pad + titleHeight + float64(rows)*lineHeight

	left := inset
	if cfg.Legend.Position == LegendUpperRight {
		left = a.width - inset - boxWidth
	}
	top := a.height - inset

	sb.WriteString("1.000 1.000 1.000 rg\n")
	sb.WriteString("0.800 0.800 0.800 RG\n")
	sb.WriteString("0.5 w\n")
	fmt.Fprintf(sb, "%.2f %.2f %.2f %.2f re B\n", left, top-boxHeight, boxWidth, boxHeight)

	y := top - pad - size
	if cfg.Legend.Title != "" {
		tx := left + (boxWidth-textWidth(cfg.Legend.Title, size))/2
		sb.WriteString("BT\n")
		fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
		fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
		fmt.Fprintf(sb, "%.2f %.2f Td\n", tx, y)
		fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(cfg.Legend.Title))
		sb.WriteString("ET\n")
		y -= lineHeight
	}

	for i, s := range ppb.series {
		col, row := i/rows, i%rows
		x := left + pad + float64(col)*(colWidth+colGap)
		ey := y - float64(row)*lineHeight
		color := seriesColor(s, i)

		fmt.Fprintf(sb, "%s RG\n", color.String())
		fmt.Fprintf(sb, "%.2f w\n", cfg.LineWidth)
		fmt.Fprintf(sb, "%.2f %.2f m %.2f %.2f l S\n", x, ey+size/3, x+sampleLen, ey+size/3)

		sb.WriteString("BT\n")
		fmt.Fprintf(sb, "/F1 %.2f Tf\n", size)
		fmt.Fprintf(sb, "%s rg\n", cfg.AxisColor.String())
		fmt.Fprintf(sb, "%.2f %.2f Td\n", x+sampleLen+sampleGap, ey)
		fmt.Fprintf(sb, "(%s) Tj\n", escapePDFString(s.Label))
		sb.WriteString("ET\n")
	}
}

func seriesColor(s Series, index int) PDFColor {
	if s.Color != "" {
		return HexToPDFColor(s.Color)
	}
	return HexToPDFColor(ClassPalette[index%len(ClassPalette)])
}

// textWidth approximates the width of s set in Helvetica at size.
func textWidth(s string, size float64) float64 {
	return float64(len(s)) * size * 0.5
}

// escapePDFString escapes special characters for PDF text strings.
func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
