package export

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// PDFConfig Tests
// -----------------------------------------------------------------------------

func TestDefaultPDFConfig(t *testing.T) {
	config := DefaultPDFConfig()

	if config.Width != 792 || config.Height != 612 {
		t.Errorf("expected 792x612 landscape page, got %.0fx%.0f", config.Width, config.Height)
	}
	if config.XAxisLabel != "Iteration" {
		t.Errorf("expected XAxisLabel='Iteration', got %q", config.XAxisLabel)
	}
	if !config.ShowGrid {
		t.Error("expected ShowGrid=true by default")
	}
	if config.FixedY {
		t.Error("expected a data-derived y range by default")
	}
}

func TestHexToPDFColor(t *testing.T) {
	tests := []struct {
		name     string
		hex      string
		expected PDFColor
	}{
		{"black", "#000000", PDFColor{0, 0, 0}},
		{"white", "#ffffff", PDFColor{1, 1, 1}},
		{"red", "#ff0000", PDFColor{1, 0, 0}},
		{"palette blue", "#1f77b4", PDFColor{0.122, 0.467, 0.706}},
		{"without hash", "00ff00", PDFColor{0, 1, 0}},
		{"too short", "#fff", PDFColor{0, 0, 0}},
		{"not hex", "zzzzzz", PDFColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HexToPDFColor(tt.hex)
			tolerance := 0.01
			if math.Abs(result.R-tt.expected.R) > tolerance ||
				math.Abs(result.G-tt.expected.G) > tolerance ||
				math.Abs(result.B-tt.expected.B) > tolerance {
				t.Errorf("HexToPDFColor(%q) = %v, want %v", tt.hex, result, tt.expected)
			}
		})
	}
}

func TestPDFColorString(t *testing.T) {
	if got := (PDFColor{0.5, 0.25, 0.75}).String(); got != "0.500 0.250 0.750" {
		t.Errorf("String() = %q", got)
	}
}

func TestEscapePDFString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"Resolution (A)", "Resolution \\(A\\)"},
		{"back\\slash", "back\\\\slash"},
	}

	for _, tt := range tests {
		result := escapePDFString(tt.input)
		if result != tt.expected {
			t.Errorf("escapePDFString(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// -----------------------------------------------------------------------------
// PDFPlotBuilder Tests
// -----------------------------------------------------------------------------

func plainConfig() *PDFConfig {
	cfg := DefaultPDFConfig()
	cfg.ShowGrid = false
	cfg.Legend.Show = false
	return cfg
}

func contentLines(content string) []string {
	return strings.Split(content, "\n")
}

func countLines(content, want string) int {
	n := 0
	for _, l := range contentLines(content) {
		if l == want {
			n++
		}
	}
	return n
}

func TestBuildPage_Labels(t *testing.T) {
	cfg := DefaultPDFConfig()
	cfg.Title = "Class Distribution"
	cfg.YAxisLabel = "Distribution"
	cfg.Footer = "job012 | 3 classes"

	content := NewPDFPlotBuilder(cfg).
		AddSeries(Series{Label: "1", X: []float64{0, 1}, Y: []float64{0.2, 0.3}}).
		BuildPage()

	for _, want := range []string{
		"(Class Distribution) Tj",
		"(Iteration) Tj",
		"(Distribution) Tj",
		"(job012 | 3 classes) Tj",
		"[3 3] 0 d",
		"0 1 -1 0 ",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q", want)
		}
	}
}

func TestBuildPage_NaNBreaksLine(t *testing.T) {
	content := NewPDFPlotBuilder(plainConfig()).
		AddSeries(Series{X: []float64{0, 1, 2, 3, 4}, Y: []float64{1, 2, math.NaN(), 3, 4}}).
		BuildPage()

	if got := countLines(content, "S"); got != 2 {
		t.Errorf("expected 2 stroked segments, got %d", got)
	}
	if got := countLines(content, "n"); got != 0 {
		t.Errorf("expected no discarded paths, got %d", got)
	}
}

func TestBuildPage_IsolatedPointGetsMarker(t *testing.T) {
	content := NewPDFPlotBuilder(plainConfig()).
		AddSeries(Series{X: []float64{0, 1, 2}, Y: []float64{math.NaN(), 2, math.NaN()}}).
		BuildPage()

	if got := countLines(content, "n"); got != 1 {
		t.Errorf("expected the lone point path to be discarded once, got %d", got)
	}
	if got := countLines(content, "f"); got != 1 {
		t.Errorf("expected one filled marker, got %d", got)
	}
}

func TestBuildPage_ShowPoints(t *testing.T) {
	cfg := plainConfig()
	cfg.ShowPoints = true
	content := NewPDFPlotBuilder(cfg).
		AddSeries(Series{X: []float64{0, 1, 2}, Y: []float64{1, 2, 3}}).
		BuildPage()

	if got := countLines(content, "f"); got != 3 {
		t.Errorf("expected 3 markers, got %d", got)
	}
}

func TestBuildPage_AllMissingSeries(t *testing.T) {
	content := NewPDFPlotBuilder(plainConfig()).
		AddSeries(Series{X: []float64{0, 1}, Y: []float64{math.NaN(), math.NaN()}}).
		BuildPage()

	if countLines(content, "S") != 0 || countLines(content, "f") != 0 {
		t.Error("an all-missing series should draw nothing")
	}
}

func TestCalculateBounds(t *testing.T) {
	b := NewPDFPlotBuilder(plainConfig()).
		AddSeries(Series{X: []float64{0, 1, 2}, Y: []float64{1, math.NaN(), 3}})

	minX, maxX, minY, maxY := b.calculateBounds()
	if minX != 0 || maxX != 2 {
		t.Errorf("x range = [%v, %v], want [0, 2]", minX, maxX)
	}
	if math.Abs(minY-0.8) > 1e-9 || math.Abs(maxY-3.2) > 1e-9 {
		t.Errorf("padded y range = [%v, %v], want [0.8, 3.2]", minY, maxY)
	}

	b.SetYRange(0, 10)
	_, _, minY, maxY = b.calculateBounds()
	if minY != 0 || maxY != 10 {
		t.Errorf("fixed y range = [%v, %v], want [0, 10]", minY, maxY)
	}
}

func TestCalculateBounds_SinglePoint(t *testing.T) {
	b := NewPDFPlotBuilder(plainConfig()).
		AddSeries(Series{X: []float64{0}, Y: []float64{5}})

	minX, maxX, minY, maxY := b.calculateBounds()
	if minX != -1 || maxX != 1 || minY != 4 || maxY != 6 {
		t.Errorf("bounds = %v %v %v %v", minX, maxX, minY, maxY)
	}
}

var tdLabel = regexp.MustCompile(`^(-?[0-9.]+) (-?[0-9.]+) Td$`)

// legendPositions maps each legend label to the text origin it is drawn at.
func legendPositions(t *testing.T, content string) map[string][2]float64 {
	t.Helper()
	lines := contentLines(content)
	out := make(map[string][2]float64)
	for i := 1; i < len(lines); i++ {
		if !strings.HasSuffix(lines[i], ") Tj") || !strings.HasPrefix(lines[i], "(") {
			continue
		}
		m := tdLabel.FindStringSubmatch(lines[i-1])
		if m == nil {
			continue
		}
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		out[strings.TrimSuffix(strings.TrimPrefix(lines[i], "("), ") Tj")] = [2]float64{x, y}
	}
	return out
}

func TestLegend_TwoColumnsUpperLeft(t *testing.T) {
	cfg := plainConfig()
	cfg.Legend = LegendConfig{Show: true, Title: "Classes", Columns: 2, Position: LegendUpperLeft}

	b := NewPDFPlotBuilder(cfg)
	for _, label := range []string{"1", "2", "3", "4"} {
		b.AddSeries(Series{Label: label, X: []float64{0, 1}, Y: []float64{1, 2}})
	}
	pos := legendPositions(t, b.BuildPage())

	for _, label := range []string{"Classes", "1", "2", "3", "4"} {
		if _, ok := pos[label]; !ok {
			t.Fatalf("legend entry %q not drawn", label)
		}
	}

	// column-major: 1 and 2 share the first column, 3 and 4 the second
	if pos["1"][0] != pos["2"][0] || pos["3"][0] != pos["4"][0] || pos["1"][0] >= pos["3"][0] {
		t.Errorf("unexpected columns: %v", pos)
	}
	if pos["1"][1] != pos["3"][1] || pos["2"][1] != pos["4"][1] || pos["1"][1] <= pos["2"][1] {
		t.Errorf("unexpected rows: %v", pos)
	}
	if pos["Classes"][1] <= pos["1"][1] {
		t.Error("legend title should sit above the entries")
	}

	plotWidth := cfg.Width - 2*cfg.Padding - 3.5*cfg.FontSize
	if pos["1"][0] > plotWidth/2 {
		t.Errorf("legend should be on the left, entry 1 at x=%v", pos["1"][0])
	}
}

func TestLegend_UpperRight(t *testing.T) {
	cfg := plainConfig()
	cfg.Legend = LegendConfig{Show: true, Columns: 1, Position: LegendUpperRight}

	pos := legendPositions(t, NewPDFPlotBuilder(cfg).
		AddSeries(Series{Label: "only", X: []float64{0, 1}, Y: []float64{1, 2}}).
		BuildPage())

	plotWidth := cfg.Width - 2*cfg.Padding - 3.5*cfg.FontSize
	if pos["only"][0] < plotWidth/2 {
		t.Errorf("legend should be on the right, got x=%v", pos["only"][0])
	}
}

// -----------------------------------------------------------------------------
// Tick Tests
// -----------------------------------------------------------------------------

func TestCalculateIntTicks(t *testing.T) {
	tests := []struct {
		min, max float64
		want     []float64
	}{
		{0, 1, []float64{0, 1}},
		{-1, 1, []float64{-1, 0, 1}},
		{-0.5, 0.5, []float64{0}},
		{0, 24, []float64{0, 5, 10, 15, 20}},
		{3, 24, []float64{5, 10, 15, 20}},
		{0.2, 0.8, nil},
	}
	for _, tt := range tests {
		got := calculateIntTicks(tt.min, tt.max, 10)
		if len(got) != len(tt.want) {
			t.Errorf("calculateIntTicks(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("calculateIntTicks(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
				break
			}
		}
	}
}

func TestCalculateFloatTicks(t *testing.T) {
	ticks := calculateFloatTicks(0, 1, 8)
	if len(ticks) != 11 || ticks[0] != 0 || ticks[10] != 1 {
		t.Errorf("calculateFloatTicks(0, 1) = %v", ticks)
	}

	for _, tick := range calculateFloatTicks(0.195, 0.46, 8) {
		if tick < 0.195 || tick > 0.46 {
			t.Errorf("tick %v outside range", tick)
		}
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{12, "12"},
		{0.1 + 0.2, "0.3"},
		{0.05, "0.05"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		if got := formatTick(tt.in); got != tt.want {
			t.Errorf("formatTick(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
