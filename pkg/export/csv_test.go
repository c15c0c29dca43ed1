package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/r3d91ll/classreport/pkg/classes"
)

func TestClassCSVWriter(t *testing.T) {
	dist, _, err := classes.Build(classes.Distribution, [][]float64{{0.25, 0.75}, nil}, 2, classes.Strict)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	cw := NewClassCSVWriter(&buf, 2, nil)
	if err := cw.WriteTable(dist, []string{"run_it000_model.star"}); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "table,iteration,file,class0,class1\n" +
		"distribution,0,run_it000_model.star,0.250000,0.750000\n" +
		"distribution,1,NA,NA,NA\n"
	if buf.String() != want {
		t.Errorf("CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
	if cw.RowsWritten() != 2 {
		t.Errorf("RowsWritten() = %d", cw.RowsWritten())
	}
}

func TestClassCSVWriter_TSVAndPrecision(t *testing.T) {
	res, _, _ := classes.Build(classes.Resolution, [][]float64{{8.25}}, 1, classes.Strict)

	var buf bytes.Buffer
	cfg := &CSVConfig{Dialect: DialectTSV, Precision: -1, NAString: ""}
	if err := ExportClassTablesToCSV(&buf, nil, cfg, res); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "table\titeration\tfile\tclass0\nresolution\t0\t\t8.25\n" {
		t.Errorf("TSV output = %q", got)
	}
}

func TestExportClassTablesToCSV_BothTables(t *testing.T) {
	dist, _, _ := classes.Build(classes.Distribution, [][]float64{{0.5, 0.5}}, 2, classes.Strict)
	res, _, _ := classes.Build(classes.Resolution, [][]float64{{4, 5}}, 2, classes.Strict)

	var buf bytes.Buffer
	if err := ExportClassTablesToCSV(&buf, []string{"run_it000_model.star"}, nil, dist, res); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[2], "resolution,0,run_it000_model.star,4.000000") {
		t.Errorf("unexpected resolution row %q", lines[2])
	}
}

func TestClassCSVWriter_ClassCountMismatch(t *testing.T) {
	dist, _, _ := classes.Build(classes.Distribution, [][]float64{{1}}, 1, classes.Strict)
	cw := NewClassCSVWriter(&bytes.Buffer{}, 3, nil)
	if err := cw.WriteTable(dist, nil); err == nil {
		t.Error("expected an error for a table with the wrong class count")
	}
}
