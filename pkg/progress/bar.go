// Package progress draws a single-line progress bar on a terminal while
// model files are parsed. Output is suppressed when the writer is not a
// terminal so piped and logged runs stay clean.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI escape sequences.
const (
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
	carriageReturn = "\r"

	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"

	symbolSuccess = "✓"
	symbolFailure = "✗"

	barFilled = "█"
	barEmpty  = "░"
)

const (
	defaultWidth = 20

	// maxItemLen bounds the item name shown after the counters.
	maxItemLen = 40
)

// Config configures a Bar.
type Config struct {
	// Total is the number of steps. Values <= 0 are treated as 1.
	Total int

	// Label prefixes the bar, e.g. "Parsing".
	Label string

	// Width of the bar in cells. Defaults to 20.
	Width int

	// Writer defaults to os.Stderr.
	Writer io.Writer

	// IsTTY overrides terminal detection on Writer.
	IsTTY *bool
}

// Bar is a thread-safe terminal progress bar.
type Bar struct {
	mu sync.Mutex

	cfg     Config
	isTTY   bool
	current int
	item    string
	started time.Time
	active  bool

	lastLen int
}

// New returns a bar for total steps writing to w.
func New(total int, label string, w io.Writer) *Bar {
	return NewWithConfig(Config{Total: total, Label: label, Writer: w})
}

// NewWithConfig returns a bar using cfg.
func NewWithConfig(cfg Config) *Bar {
	if cfg.Total <= 0 {
		cfg.Total = 1
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	isTTY := IsTerminal(cfg.Writer)
	if cfg.IsTTY != nil {
		isTTY = *cfg.IsTTY
	}
	return &Bar{cfg: cfg, isTTY: isTTY}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the bar draws anything.
func (b *Bar) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isTTY
}

// Current returns the number of completed steps.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Total returns the configured number of steps.
func (b *Bar) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Total
}

// Start draws the empty bar. Calling Start twice is a no-op.
func (b *Bar) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active {
		return
	}
	b.active = true
	b.started = time.Now()
	b.current = 0
	b.item = ""

	if b.isTTY {
		fmt.Fprint(b.cfg.Writer, hideCursor)
		b.redraw()
	}
}

// Step marks one more step done; item names what was just processed.
func (b *Bar) Step(item string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	if b.current < b.cfg.Total {
		b.current++
	}
	b.item = item
	if b.isTTY {
		b.redraw()
	}
}

// Done stops the bar and prints a success line.
func (b *Bar) Done(message string) {
	b.finish(message, symbolSuccess, colorGreen)
}

// Fail stops the bar and prints a failure line.
func (b *Bar) Fail(message string) {
	b.finish(message, symbolFailure, colorRed)
}

func (b *Bar) finish(message, symbol, color string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.active = false
	if !b.isTTY {
		return
	}

	b.clear()
	fmt.Fprint(b.cfg.Writer, showCursor)
	if message == "" {
		message = b.cfg.Label + " complete"
	}
	fmt.Fprintf(b.cfg.Writer, "%s%s%s %s %s\n", color, symbol, colorReset, message, formatElapsed(time.Since(b.started)))
}

// line renders the current state. Caller holds the mutex.
// Format: Parsing [████████░░░░░░░░░░░░] 40% (2/5) run_it002_model.star
func (b *Bar) line() string {
	parts := make([]string, 0, 5)
	if b.cfg.Label != "" {
		parts = append(parts, b.cfg.Label)
	}

	filled := b.current * b.cfg.Width / b.cfg.Total
	if filled > b.cfg.Width {
		filled = b.cfg.Width
	}
	parts = append(parts,
		"["+strings.Repeat(barFilled, filled)+strings.Repeat(barEmpty, b.cfg.Width-filled)+"]",
		fmt.Sprintf("%.0f%%", float64(b.current)/float64(b.cfg.Total)*100),
		fmt.Sprintf("(%d/%d)", b.current, b.cfg.Total),
	)
	if b.item != "" {
		parts = append(parts, shorten(b.item, maxItemLen))
	}
	return strings.Join(parts, " ")
}

func (b *Bar) redraw() {
	b.clear()
	out := b.line()
	fmt.Fprint(b.cfg.Writer, out)
	b.lastLen = len([]rune(out))
}

func (b *Bar) clear() {
	if b.lastLen > 0 {
		fmt.Fprint(b.cfg.Writer, carriageReturn+strings.Repeat(" ", b.lastLen)+carriageReturn)
		b.lastLen = 0
	}
}

// shorten keeps the tail of s, which holds the distinguishing part of a path.
func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "…" + string(r[len(r)-max+1:])
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%.1fs)", d.Seconds())
	}
	return fmt.Sprintf("(%dm %ds)", int(d.Minutes()), int(d.Seconds())%60)
}
