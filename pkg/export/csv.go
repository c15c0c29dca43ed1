package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/r3d91ll/classreport/pkg/classes"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard uses RFC 4180 CSV.
	DialectStandard CSVDialect = "standard"

	// DialectTSV uses tab-separated values.
	DialectTSV CSVDialect = "tsv"
)

// CSVConfig specifies options for CSV export.
type CSVConfig struct {
	Dialect CSVDialect

	// Precision is the number of decimal places; -1 uses the fewest digits
	// that round-trip.
	Precision int

	// NAString is written for missing cells.
	NAString string
}

// DefaultCSVConfig returns RFC 4180 output with "NA" for missing cells.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:   DialectStandard,
		Precision: 6,
		NAString:  "NA",
	}
}

// ClassCSVWriter writes class tables as rows of
// table,iteration,file,class0..classN-1.
type ClassCSVWriter struct {
	config      *CSVConfig
	writer      *csv.Writer
	classes     int
	headerDone  bool
	rowsWritten int
}

// NewClassCSVWriter creates a writer for tables with the given number of
// classes. If config is nil, DefaultCSVConfig() is used.
func NewClassCSVWriter(w io.Writer, classCount int, config *CSVConfig) *ClassCSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}
	cw := csv.NewWriter(w)
	if config.Dialect == DialectTSV {
		cw.Comma = '\t'
	}
	return &ClassCSVWriter{config: config, writer: cw, classes: classCount}
}

// WriteHeader writes the header row once.
func (cw *ClassCSVWriter) WriteHeader() error {
	if cw.headerDone {
		return nil
	}
	header := []string{"table", "iteration", "file"}
	for i := 0; i < cw.classes; i++ {
		header = append(header, classes.Label(i))
	}
	if err := cw.writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	cw.headerDone = true
	return nil
}

// WriteTable writes every row of t. files names the model file of each row
// and may be shorter than the table.
func (cw *ClassCSVWriter) WriteTable(t *classes.Table, files []string) error {
	if t.Classes() != cw.classes {
		return fmt.Errorf("table has %d classes, writer expects %d", t.Classes(), cw.classes)
	}
	if err := cw.WriteHeader(); err != nil {
		return err
	}

	for r := 0; r < t.Len(); r++ {
		file := cw.config.NAString
		if r < len(files) && files[r] != "" {
			file = files[r]
		}
		row := []string{t.Kind.String(), strconv.Itoa(r), file}
		for _, v := range t.Row(r) {
			row = append(row, cw.formatFloat(v))
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
		cw.rowsWritten++
	}
	return nil
}

// Flush flushes buffered rows to the underlying writer.
func (cw *ClassCSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of data rows written.
func (cw *ClassCSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

func (cw *ClassCSVWriter) formatFloat(f float64) string {
	if math.IsNaN(f) {
		return cw.config.NAString
	}
	return strconv.FormatFloat(f, 'f', cw.config.Precision, 64)
}

// ExportClassTablesToCSV writes all tables to w in order.
func ExportClassTablesToCSV(w io.Writer, files []string, config *CSVConfig, tables ...*classes.Table) error {
	if len(tables) == 0 {
		return nil
	}
	cw := NewClassCSVWriter(w, tables[0].Classes(), config)
	for _, t := range tables {
		if err := cw.WriteTable(t, files); err != nil {
			return err
		}
	}
	return cw.Flush()
}
