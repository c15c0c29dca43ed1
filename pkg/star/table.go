package star

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

// Value is one cell of a STAR table.
type Value struct {
	Text    string
	Num     float64
	Numeric bool
}

func parseValue(field string) Value {
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return Value{Text: field, Num: f, Numeric: true}
	}
	return Value{Text: field, Num: math.NaN()}
}

// Float returns the numeric value, or NaN for text cells.
func (v Value) Float() float64 {
	if !v.Numeric {
		return math.NaN()
	}
	return v.Num
}

// String returns the cell as written in the file.
func (v Value) String() string {
	return v.Text
}

// Table is a parsed STAR table: ordered columns and row-major values.
type Table struct {
	Name    string
	columns []string
	index   map[string]int
	rows    [][]Value
}

func newTable(name string, columns []string) *Table {
	t := &Table{
		Name:    name,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no columns (table not found) or no rows.
func (t *Table) Empty() bool {
	return len(t.columns) == 0 || len(t.rows) == 0
}

// Has reports whether the table declares column name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Row returns row i.
func (t *Table) Row(i int) []Value {
	return t.rows[i]
}

// Floats returns column name as float64s; text cells become NaN.
// ok is false when the column does not exist.
func (t *Table) Floats(name string) (values []float64, ok bool) {
	col, ok := t.index[name]
	if !ok {
		return nil, false
	}
	values = make([]float64, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[col].Float()
	}
	return values, true
}

// Strings returns column name as written in the file.
func (t *Table) Strings(name string) (values []string, ok bool) {
	col, ok := t.index[name]
	if !ok {
		return nil, false
	}
	values = make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[col].Text
	}
	return values, true
}

// Parse reads table out of r. source names r in error messages.
// A table that is not present yields an empty table and no error.
func Parse(r io.Reader, source, table string, opts Options) (*Table, error) {
	var t *Table

	block, err := scan(r, table, opts, func(b *Block, lineNo int, line string) error {
		if t == nil {
			t = newTable(table, b.Columns)
		}
		fields := strings.Fields(line)
		if len(fields) != len(t.columns) {
			return rerrors.Parsef(rerrors.ErrStarRowMismatch,
				"row in table %s has %d fields, header declares %d", table, len(fields), len(t.columns)).
				WithContext("file", source).
				WithContext("line", strconv.Itoa(lineNo)).
				WithContext("expected", strconv.Itoa(len(t.columns))).
				WithContext("got", strconv.Itoa(len(fields)))
		}
		row := make([]Value, len(fields))
		for i, f := range fields {
			row[i] = parseValue(f)
		}
		t.rows = append(t.rows, row)
		return nil
	})
	if err != nil {
		if _, ok := rerrors.AsReportError(err); ok {
			return nil, err
		}
		return nil, rerrors.IOWrapf(err, rerrors.ErrIOReadFailed, "failed to read %s", source).
			WithContext("file", source)
	}

	if t == nil {
		t = newTable(table, block.Columns)
	}
	return t, nil
}

// ParseFile opens path and reads table from it.
func ParseFile(path, table string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		code := rerrors.ErrIOReadFailed
		if os.IsNotExist(err) {
			code = rerrors.ErrIOFileNotFound
		}
		return nil, rerrors.IOWrapf(err, code, "failed to open %s", path).WithContext("file", path)
	}
	defer f.Close()

	return Parse(f, path, table, opts)
}
