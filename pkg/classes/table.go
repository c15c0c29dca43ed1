// Package classes assembles per-iteration sequences into class-indexed
// tables and derives their chart bounds.
package classes

import (
	"fmt"
	"math"
	"strconv"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

// Kind names the statistic held by a table.
type Kind int

const (
	Distribution Kind = iota
	Resolution
)

// String returns the lower-case name of the statistic.
func (k Kind) String() string {
	switch k {
	case Distribution:
		return "distribution"
	case Resolution:
		return "resolution"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Policy decides what happens to sequences longer than the class count.
type Policy int

const (
	// Strict rejects over-long sequences.
	Strict Policy = iota
	// Truncate drops the extra values and reports a warning.
	Truncate
)

// ParsePolicy maps a configuration value onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "truncate":
		return Truncate, nil
	}
	return Strict, rerrors.Validationf(rerrors.ErrValidationInvalidValue, "unknown mismatch policy %q", s).
		WithContext("policy", s)
}

// Warning describes a sequence whose length did not match the class count.
type Warning struct {
	Kind     Kind
	Row      int
	Got      int
	Expected int
}

func (w Warning) String() string {
	if w.Got > w.Expected {
		return fmt.Sprintf("%s row %d: %d values for %d classes, extra values dropped", w.Kind, w.Row, w.Got, w.Expected)
	}
	return fmt.Sprintf("%s row %d: %d values for %d classes, missing values left empty", w.Kind, w.Row, w.Got, w.Expected)
}

// Table holds one statistic per class (columns) per iteration (rows).
// Missing cells are NaN.
type Table struct {
	Kind    Kind
	Columns []string
	rows    [][]float64
}

// Label returns the column label of class i ("class0", "class1", ...).
func Label(i int) string {
	return "class" + strconv.Itoa(i)
}

// Build assembles seqs, one per iteration in sorted order, into a table
// with classCount columns.
func Build(kind Kind, seqs [][]float64, classCount int, policy Policy) (*Table, []Warning, error) {
	if classCount < 1 {
		return nil, nil, rerrors.Validationf(rerrors.ErrValidationInvalidValue, "class count must be positive, got %d", classCount).
			WithContext("classes", strconv.Itoa(classCount))
	}

	t := &Table{
		Kind:    kind,
		Columns: make([]string, classCount),
		rows:    make([][]float64, len(seqs)),
	}
	for i := range t.Columns {
		t.Columns[i] = Label(i)
	}

	var warnings []Warning
	for r, seq := range seqs {
		if len(seq) > classCount {
			if policy == Strict {
				return nil, nil, rerrors.Validationf(rerrors.ErrClassCountMismatch,
					"%s row %d has %d values but the job declares %d classes", kind, r, len(seq), classCount).
					WithContext("kind", kind.String()).
					WithContext("row", strconv.Itoa(r)).
					WithContext("got", strconv.Itoa(len(seq))).
					WithContext("expected", strconv.Itoa(classCount))
			}
			warnings = append(warnings, Warning{Kind: kind, Row: r, Got: len(seq), Expected: classCount})
		} else if len(seq) > 0 && len(seq) < classCount {
			warnings = append(warnings, Warning{Kind: kind, Row: r, Got: len(seq), Expected: classCount})
		}

		row := make([]float64, classCount)
		for c := range row {
			if c < len(seq) {
				row[c] = seq[c]
			} else {
				row[c] = math.NaN()
			}
		}
		t.rows[r] = row
	}
	return t, warnings, nil
}

// Len returns the number of rows (iterations).
func (t *Table) Len() int {
	return len(t.rows)
}

// Classes returns the number of columns.
func (t *Table) Classes() int {
	return len(t.Columns)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.rows[i]...)
}

// Column returns class i across all rows.
func (t *Table) Column(i int) []float64 {
	out := make([]float64, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// Missing reports whether every cell of row i is missing.
func (t *Table) Missing(i int) bool {
	for _, v := range t.rows[i] {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Legend returns the 1-based display labels of the classes.
func (t *Table) Legend() []string {
	out := make([]string, len(t.Columns))
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// Extent returns the smallest and largest present value; ok is false when
// every cell is missing.
func (t *Table) Extent() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range t.rows {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// Bounds returns the y-axis range for charting the table. Distribution is
// padded and clamped to [0, 1]; resolution is padded and floored at 0.
func (t *Table) Bounds() (lo, hi float64) {
	min, max, ok := t.Extent()
	if !ok {
		return 0, 1
	}
	switch t.Kind {
	case Distribution:
		return math.Max(0, min-0.005), math.Min(1, max+0.06)
	default:
		return math.Max(0, min-1), max + 2
	}
}
