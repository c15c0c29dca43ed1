// Package errors provides error formatting and display functions.
// Renders ReportErrors with color coding for TTY output.
package errors

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m" // Error type/code
	colorYellow = "\033[33m" // Context information
	colorCyan   = "\033[36m" // Suggestions
	colorDim    = "\033[90m" // Secondary/cause info
	colorBold   = "\033[1m"  // Emphasis
)

// Formatter handles error display with optional color support.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	// When false, output is plain text suitable for logs.
	UseColor bool

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer

	// Indent is the prefix for context and suggestion lines.
	Indent string
}

// DefaultFormatter returns a Formatter configured for standard error output.
// Color is enabled if stderr is a TTY.
func DefaultFormatter() *Formatter {
	return &Formatter{
		UseColor: IsTTY(os.Stderr),
		Writer:   os.Stderr,
		Indent:   "  ",
	}
}

// IsTTY returns true if the given file is a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Format renders an error with the default formatter.
func Format(err error) string {
	return DefaultFormatter().Format(err)
}

// Format renders an error with color coding based on formatter settings.
// For ReportError, displays code, message, context, cause, and suggestions.
// For standard errors, displays a simple error message.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	re, ok := AsReportError(err)
	if !ok {
		return f.formatStandardError(err)
	}
	return f.formatReportError(re)
}

func (f *Formatter) formatStandardError(err error) string {
	return f.paint(colorRed, "Error: ") + err.Error()
}

// paint wraps text in an ANSI style when colors are on.
func (f *Formatter) paint(style, text string) string {
	if !f.UseColor {
		return text
	}
	return style + text + colorReset
}

// formatReportError renders
//
//	ERROR [CODE]: message
//	  at: run_it002_model.star:41
//	  key: value
//	  cause: ...
//
//	  → suggestion
func (f *Formatter) formatReportError(re *ReportError) string {
	var sb strings.Builder

	sb.WriteString(f.paint(colorRed+colorBold, "ERROR"))
	sb.WriteString(f.paint(colorRed, " ["+re.Code+"]: "))
	sb.WriteString(re.Message)
	sb.WriteString("\n")

	details := 0
	for _, kv := range f.contextLines(re) {
		sb.WriteString(f.Indent + f.paint(colorYellow, kv[0]+": ") + kv[1] + "\n")
		details++
	}
	if re.Cause != nil {
		sb.WriteString(f.Indent + f.paint(colorDim, "cause: "+re.Cause.Error()) + "\n")
		details++
	}

	if re.HasSuggestions() {
		if details > 0 {
			sb.WriteString("\n")
		}
		lines := make([]string, len(re.Suggestions))
		for i, s := range re.Suggestions {
			lines[i] = f.Indent + f.paint(colorCyan, "→ "+s)
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}
	return sb.String()
}

// contextLines returns the context as sorted key/value pairs. A file and
// line pair is merged into a leading "at: file:line" entry.
func (f *Formatter) contextLines(re *ReportError) [][2]string {
	if !re.HasContext() {
		return nil
	}

	var out [][2]string
	file, hasFile := re.Context["file"]
	line, hasLine := re.Context["line"]
	located := hasFile && hasLine
	if located {
		out = append(out, [2]string{"at", file + ":" + line})
	}

	keys := make([]string, 0, len(re.Context))
	for k := range re.Context {
		if located && (k == "file" || k == "line") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, [2]string{k, re.Context[k]})
	}
	return out
}

// Display writes a formatted error to the formatter's writer.
func (f *Formatter) Display(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(f.Writer, f.Format(err))
}

// Display writes a formatted error to stderr with default settings.
func Display(err error) {
	DefaultFormatter().Display(err)
}

// Sprint returns a formatted error string without colors.
// Useful for logging or non-TTY environments.
func Sprint(err error) string {
	f := &Formatter{
		UseColor: false,
		Writer:   io.Discard,
		Indent:   "  ",
	}
	return f.Format(err)
}

// CategoryLabel returns a human-readable label for an error category.
func CategoryLabel(cat Category) string {
	switch cat {
	case CategoryConfig:
		return "Configuration Error"
	case CategoryInput:
		return "Input Error"
	case CategoryParse:
		return "Parse Error"
	case CategoryValidation:
		return "Validation Error"
	case CategoryIO:
		return "I/O Error"
	case CategoryInternal:
		return "Internal Error"
	default:
		return "Error"
	}
}
