package summary

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/r3d91ll/classreport/pkg/classes"
)

func tables(t *testing.T) (*classes.Table, *classes.Table) {
	t.Helper()
	dist, _, err := classes.Build(classes.Distribution, [][]float64{{0.5, 0.3, 0.2}, {0.6, 0.4}}, 3, classes.Strict)
	if err != nil {
		t.Fatal(err)
	}
	res, _, err := classes.Build(classes.Resolution, [][]float64{{12, 14, 20}, {9.5, 11}}, 3, classes.Strict)
	if err != nil {
		t.Fatal(err)
	}
	return dist, res
}

func TestFromTables(t *testing.T) {
	dist, res := tables(t)
	s := FromTables("job012", dist, res, []string{"job012.pdf"})

	if s.Classes != 3 || s.Iterations != 2 {
		t.Errorf("counts = %d classes, %d iterations", s.Classes, s.Iterations)
	}
	if len(s.Final) != 3 {
		t.Fatalf("expected 3 class rows, got %d", len(s.Final))
	}
	if s.Final[0].Distribution != 0.6 || s.Final[0].Resolution != 9.5 {
		t.Errorf("class 1 = %+v", s.Final[0])
	}
	// class 3 is missing in the last iteration and falls back to the first
	if s.Final[2].Distribution != 0.2 || s.Final[2].Resolution != 20 {
		t.Errorf("class 3 = %+v", s.Final[2])
	}
	if s.Final[2].Label != "3" {
		t.Errorf("label = %q", s.Final[2].Label)
	}
}

func TestFromTables_NeverSeen(t *testing.T) {
	dist, _, _ := classes.Build(classes.Distribution, [][]float64{nil}, 2, classes.Strict)
	s := FromTables("job", dist, dist, nil)
	if !math.IsNaN(s.Final[1].Distribution) {
		t.Errorf("expected NaN, got %v", s.Final[1].Distribution)
	}
}

func TestRender_Plain(t *testing.T) {
	dist, res := tables(t)
	var buf bytes.Buffer
	NewRenderer(&buf, false).Render(FromTables("job012", dist, res, []string{"out/job012.pdf"}))
	out := buf.String()

	for _, want := range []string{"job012 summary", "Classes", "Iterations", "0.600000", "9.500000", "→ out/job012.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("plain output should have no escape codes")
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], BoxTopLeft) || !strings.HasPrefix(lines[len(lines)-1], BoxBottomLeft) {
		t.Errorf("output is not boxed:\n%s", out)
	}
	for i, line := range lines {
		if n := visibleLength(line); n != defaultWidth+2 {
			t.Errorf("line %d has width %d: %q", i, n, line)
		}
	}
}

func TestRender_Color(t *testing.T) {
	dist, res := tables(t)
	var buf bytes.Buffer
	NewRenderer(&buf, true).Render(FromTables("job012", dist, res, nil))

	if !strings.Contains(buf.String(), ColorCyan) {
		t.Error("colored output should style the header")
	}
	for i, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if n := visibleLength(line); n != defaultWidth+2 {
			t.Errorf("line %d has visible width %d", i, n)
		}
	}
}

func TestRender_MissingValue(t *testing.T) {
	dist, _, _ := classes.Build(classes.Distribution, [][]float64{{0.5}}, 2, classes.Strict)
	var buf bytes.Buffer
	NewRenderer(&buf, false).Render(FromTables("job", dist, dist, nil))
	if !strings.Contains(buf.String(), " -") {
		t.Errorf("missing values should print as -:\n%s", buf.String())
	}
}

func TestBox(t *testing.T) {
	b := &Box{Width: 5}
	tests := []struct {
		got, want string
	}{
		{b.Top(), "╭─────╮"},
		{b.Mid(), "├─────┤"},
		{b.Bottom(), "╰─────╯"},
		{b.Row("ab"), "│ab   │"},
		{b.Row("abcdefg"), "│abcde│"},
		{b.RowCenter("ab"), "│ ab  │"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestVisibleLength(t *testing.T) {
	if n := visibleLength(ColorBold + "abc" + ColorReset); n != 3 {
		t.Errorf("visibleLength = %d, want 3", n)
	}
	if got := truncateVisible(ColorCyan+"abcdef", 2); got != ColorCyan+"ab"+ColorReset {
		t.Errorf("truncateVisible = %q", got)
	}
}

func TestTail(t *testing.T) {
	if got := tail("short", 10); got != "short" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("/very/long/path/job012.pdf", 11); got != "…job012.pdf" {
		t.Errorf("tail = %q", got)
	}
}
