package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r3d91ll/classreport/pkg/classes"
	"github.com/r3d91ll/classreport/pkg/config"
	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

func buildTables(t *testing.T) (*classes.Table, *classes.Table) {
	t.Helper()
	dist, _, err := classes.Build(classes.Distribution, [][]float64{
		{0.33, 0.33, 0.34},
		{0.2, 0.5, 0.3},
	}, 3, classes.Strict)
	if err != nil {
		t.Fatal(err)
	}
	res, _, err := classes.Build(classes.Resolution, [][]float64{
		{20, 21, 22},
		{9.5, 8.2, 12},
	}, 3, classes.Strict)
	if err != nil {
		t.Fatal(err)
	}
	return dist, res
}

func uncompressed() config.ReportConfig {
	rc := config.Default().Report
	rc.Compress = false
	return rc
}

func TestClassChartConfig(t *testing.T) {
	dist, res := buildTables(t)
	rc := config.Default().Report

	cfg := ClassChartConfig(dist, rc)
	if cfg.Title != "Class Distribution" || cfg.YAxisLabel != "Distribution" || cfg.XAxisLabel != "Iteration" {
		t.Errorf("distribution labels: %q %q %q", cfg.Title, cfg.YAxisLabel, cfg.XAxisLabel)
	}
	lo, hi := dist.Bounds()
	if !cfg.FixedY || cfg.YMin != lo || cfg.YMax != hi {
		t.Errorf("y range = [%v, %v] fixed=%v, want [%v, %v]", cfg.YMin, cfg.YMax, cfg.FixedY, lo, hi)
	}
	if cfg.Legend.Title != "Classes" || cfg.Legend.Columns != 2 || cfg.Legend.Position != LegendUpperLeft {
		t.Errorf("legend = %+v", cfg.Legend)
	}
	if cfg.Width != rc.PageWidth || cfg.LineWidth != rc.LineWidth {
		t.Errorf("page settings not applied: %+v", cfg)
	}

	cfg = ClassChartConfig(res, rc)
	if cfg.Title != "Class Resolution" || cfg.YAxisLabel != "Resolution (A)" {
		t.Errorf("resolution labels: %q %q", cfg.Title, cfg.YAxisLabel)
	}
	if math.Abs(cfg.YMin-7.2) > 1e-9 || cfg.YMax != 24 {
		t.Errorf("resolution y range = [%v, %v], want [7.2, 24]", cfg.YMin, cfg.YMax)
	}
}

func TestClassSeries(t *testing.T) {
	dist, _ := buildTables(t)
	series := ClassSeries(dist)

	if len(series) != 3 {
		t.Fatalf("expected 3 series, got %d", len(series))
	}
	for i, s := range series {
		if s.Label != []string{"1", "2", "3"}[i] {
			t.Errorf("series %d label = %q", i, s.Label)
		}
		if len(s.X) != 2 || s.X[0] != 0 || s.X[1] != 1 {
			t.Errorf("series %d x = %v", i, s.X)
		}
	}
	if series[1].Y[1] != 0.5 {
		t.Errorf("series 1 y = %v", series[1].Y)
	}
}

func TestWriteClassReport_TwoPages(t *testing.T) {
	dist, res := buildTables(t)
	info := ReportInfo{Job: "job012", Source: "Class3D/job012/", Classes: 3, Iterations: 2, ToolVersion: "1.0.0"}

	var buf bytes.Buffer
	if err := WriteClassReport(&buf, info, uncompressed(), dist, res); err != nil {
		t.Fatalf("WriteClassReport: %v", err)
	}
	pdf := buf.String()

	for _, want := range []string{
		"/Count 2",
		"(Class Distribution) Tj",
		"(Class Resolution) Tj",
		"(Iteration) Tj",
		"(Distribution) Tj",
		"(Resolution \\(A\\)) Tj",
		"(Classes) Tj",
		"(1) Tj",
		"(2) Tj",
		"(3) Tj",
		"(job012 | 3 classes | 2 iterations | classreport 1.0.0) Tj",
		"/Title (job012 class report)",
		"/Subject (Class3D/job012/)",
	} {
		if !strings.Contains(pdf, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if strings.Index(pdf, "(Class Distribution) Tj") > strings.Index(pdf, "(Class Resolution) Tj") {
		t.Error("distribution page should come first")
	}
	if strings.Contains(pdf, "(4) Tj") {
		t.Error("legend should stop at the class count")
	}
}

func TestWriteClassReport_Fingerprint(t *testing.T) {
	dist, res := buildTables(t)
	fp := NewFingerprintBuilder().WithJob("job012", 3).WithInput("run.job", "aa").Build()
	info := ReportInfo{Job: "job012", Classes: 3, Iterations: 2, Fingerprint: fp}

	var buf bytes.Buffer
	if err := WriteClassReport(&buf, info, uncompressed(), dist, res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "inputs "+fp.ShortHash()) {
		t.Error("footer should carry the input fingerprint")
	}
	if !strings.Contains(buf.String(), "inputs:"+fp.Hash) {
		t.Error("keywords should carry the full fingerprint")
	}
}

func TestExportClassReportToFile(t *testing.T) {
	dist, res := buildTables(t)
	dir := t.TempDir()
	path := ReportPath(dir, "job012")

	if err := ExportClassReportToFile(path, ReportInfo{Job: "job012"}, config.Default().Report, dist, res); err != nil {
		t.Fatalf("ExportClassReportToFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-1.4")) {
		t.Error("output is not a PDF")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the report in %s, found %v", dir, names)
	}
}

func TestExportClassReportToFile_MissingDir(t *testing.T) {
	dist, _ := buildTables(t)
	path := filepath.Join(t.TempDir(), "missing", "job012.pdf")

	err := ExportClassReportToFile(path, ReportInfo{Job: "job012"}, config.Default().Report, dist)
	if !rerrors.IsCode(err, rerrors.ErrIOWriteFailed) {
		t.Errorf("error = %v, want %s", err, rerrors.ErrIOWriteFailed)
	}
}

func TestWriteFileAtomic_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if got, _ := os.ReadFile(path); string(got) != "new" {
		t.Errorf("file holds %q", got)
	}
}

func TestJobName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Class3D/job012/", "job012"},
		{"Class3D/job012", "Class3D"},
		{"/data/project/Class3D/job012/", "job012"},
		{"job012/", "job012"},
		{"job012", "job012"},
		{"/job012", "job012"},
	}
	for _, tt := range tests {
		if got := JobName(tt.path); got != tt.want {
			t.Errorf("JobName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestJobName_DotResolvesToDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := JobName("./"); got != filepath.Base(wd) {
		t.Errorf("JobName(\"./\") = %q, want %q", got, filepath.Base(wd))
	}
}

func TestReportPath(t *testing.T) {
	if got := ReportPath("", "job012"); got != "job012.pdf" {
		t.Errorf("ReportPath = %q", got)
	}
	if got := ReportPath("out", "job012"); got != filepath.Join("out", "job012.pdf") {
		t.Errorf("ReportPath = %q", got)
	}
	if got := SiblingPath("out", "job012", "_classes.csv"); got != filepath.Join("out", "job012_classes.csv") {
		t.Errorf("SiblingPath = %q", got)
	}
}
