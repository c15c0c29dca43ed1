// Package errors tests for error formatting and display.
package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestFormatter_Format_NilError(t *testing.T) {
	f := &Formatter{UseColor: false, Indent: "  "}
	if got := f.Format(nil); got != "" {
		t.Errorf("expected empty string for nil error, got %q", got)
	}
}

func TestFormatter_Format_StandardError(t *testing.T) {
	tests := []struct {
		name     string
		useColor bool
		contains []string
	}{
		{name: "no color", useColor: false, contains: []string{"Error:", "something went wrong"}},
		{name: "with color", useColor: true, contains: []string{colorRed, "Error:", "something went wrong", colorReset}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Formatter{UseColor: tt.useColor, Indent: "  "}
			result := f.Format(fmt.Errorf("something went wrong"))
			for _, substr := range tt.contains {
				if !strings.Contains(result, substr) {
					t.Errorf("expected output to contain %q, got %q", substr, result)
				}
			}
		})
	}
}

func TestFormatter_Format_ReportError_NoColor(t *testing.T) {
	re := New(ErrStarRowMismatch, CategoryParse, "row field count does not match header").
		WithContext("file", "run_it002_model.star").
		WithContext("line", "41").
		WithCause(fmt.Errorf("got 5 fields")).
		WithSuggestion("Re-run once the iteration is complete")

	f := &Formatter{UseColor: false, Indent: "  "}
	result := f.Format(re)

	expected := "ERROR [STAR_ROW_MISMATCH]: row field count does not match header\n" +
		"  at: run_it002_model.star:41\n" +
		"  cause: got 5 fields\n" +
		"\n" +
		"  → Re-run once the iteration is complete"
	if result != expected {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", result, expected)
	}
	if strings.Contains(result, "\033[") {
		t.Error("expected no ANSI codes without color")
	}
}

func TestFormatter_Format_ContextWithoutLine(t *testing.T) {
	re := New(ErrIterationNoFiles, CategoryInput, "no model files").
		WithContext("pattern", "*model.star").
		WithContext("dir", "Class3D/job012")

	f := &Formatter{UseColor: false, Indent: "  "}
	expected := "ERROR [ITERATION_NO_FILES]: no model files\n" +
		"  dir: Class3D/job012\n" +
		"  pattern: *model.star\n"
	if got := f.Format(re); got != expected {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", got, expected)
	}
}

func TestFormatter_Format_ReportError_Color(t *testing.T) {
	re := New(ErrClassCountMismatch, CategoryValidation, "too many values").
		WithContext("kind", "distribution").
		WithSuggestion("Pass -truncate")

	f := &Formatter{UseColor: true, Indent: "  "}
	got := f.Format(re)
	for _, want := range []string{
		colorRed + colorBold + "ERROR" + colorReset,
		colorYellow + "kind: " + colorReset + "distribution",
		colorCyan + "→ Pass -truncate" + colorReset,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%q", want, got)
		}
	}
}

func TestFormatter_Display(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{UseColor: false, Writer: &buf, Indent: "  "}

	f.Display(nil)
	if buf.Len() != 0 {
		t.Error("expected nothing written for nil error")
	}

	f.Display(New(ErrIOWriteFailed, CategoryIO, "cannot write job012.pdf"))
	if !strings.HasPrefix(buf.String(), "ERROR [IO_WRITE_FAILED]: cannot write job012.pdf") {
		t.Errorf("unexpected display output %q", buf.String())
	}
}

func TestSprint_NoColor(t *testing.T) {
	out := Sprint(New(ErrJobClassesMissing, CategoryParse, "no class count"))
	if strings.Contains(out, "\033[") {
		t.Error("Sprint must not emit ANSI codes")
	}
}

func TestCategoryLabel(t *testing.T) {
	tests := map[Category]string{
		CategoryConfig:     "Configuration Error",
		CategoryInput:      "Input Error",
		CategoryParse:      "Parse Error",
		CategoryValidation: "Validation Error",
		CategoryIO:         "I/O Error",
		CategoryInternal:   "Internal Error",
		Category("other"):  "Error",
	}
	for cat, want := range tests {
		if got := CategoryLabel(cat); got != want {
			t.Errorf("CategoryLabel(%q) = %q, want %q", cat, got, want)
		}
	}
}
