package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/r3d91ll/classreport/pkg/classes"
	"github.com/r3d91ll/classreport/pkg/config"
	rerrors "github.com/r3d91ll/classreport/pkg/errors"
)

// ClassPalette is the line color cycle for class series.
var ClassPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Chart text for each statistic.
const (
	LegendTitle    = "Classes"
	IterationLabel = "Iteration"
)

// ChartText returns the title and y-axis label for kind.
func ChartText(kind classes.Kind) (title, yLabel string) {
	if kind == classes.Resolution {
		return "Class Resolution", "Resolution (A)"
	}
	return "Class Distribution", "Distribution"
}

// ReportInfo describes the job a report is built for.
type ReportInfo struct {
	Job        string
	Source     string
	Classes    int
	Iterations int

	Author      string
	ToolVersion string

	// Fingerprint, when set, is printed in the footer of every page.
	Fingerprint *Fingerprint
}

func (ri ReportInfo) footer() string {
	parts := []string{ri.Job}
	if ri.Classes > 0 {
		parts = append(parts, fmt.Sprintf("%d classes", ri.Classes))
	}
	parts = append(parts, fmt.Sprintf("%d iterations", ri.Iterations))
	if ri.Fingerprint != nil {
		parts = append(parts, "inputs "+ri.Fingerprint.ShortHash())
	}
	if ri.ToolVersion != "" {
		parts = append(parts, PDFProducer+" "+ri.ToolVersion)
	}
	return strings.Join(parts, " | ")
}

// ClassChartConfig returns the page settings for charting t: title and
// labels by kind, y range from t.Bounds, and a two-column "Classes" legend
// in the upper left.
func ClassChartConfig(t *classes.Table, rc config.ReportConfig) *PDFConfig {
	cfg := DefaultPDFConfig()
	cfg.Width = rc.PageWidth
	cfg.Height = rc.PageHeight
	cfg.LineWidth = rc.LineWidth
	cfg.ShowPoints = rc.ShowPoints

	cfg.Title, cfg.YAxisLabel = ChartText(t.Kind)
	cfg.XAxisLabel = IterationLabel
	cfg.YMin, cfg.YMax = t.Bounds()
	cfg.FixedY = true

	cfg.Legend = LegendConfig{
		Show:     true,
		Title:    LegendTitle,
		Columns:  2,
		Position: LegendUpperLeft,
	}
	return cfg
}

// ClassSeries returns one series per class of t, x being the row position.
func ClassSeries(t *classes.Table) []Series {
	xs := make([]float64, t.Len())
	for i := range xs {
		xs[i] = float64(i)
	}

	legend := t.Legend()
	out := make([]Series, t.Classes())
	for c := range out {
		out[c] = Series{
			Label: legend[c],
			Color: ClassPalette[c%len(ClassPalette)],
			X:     xs,
			Y:     t.Column(c),
		}
	}
	return out
}

// ClassPage renders t as one chart page content stream.
func ClassPage(t *classes.Table, rc config.ReportConfig, footer string) string {
	cfg := ClassChartConfig(t, rc)
	cfg.Footer = footer

	b := NewPDFPlotBuilder(cfg)
	for _, s := range ClassSeries(t) {
		b.AddSeries(s)
	}
	return b.BuildPage()
}

// BuildClassReport renders one page per table, in order, into a document.
func BuildClassReport(info ReportInfo, rc config.ReportConfig, tables ...*classes.Table) *PDFDocument {
	meta := DocumentInfo{
		Title:    fmt.Sprintf("%s class report", info.Job),
		Author:   rc.Author,
		Subject:  info.Source,
		Keywords: []string{info.Job, "RELION", "3D classification"},
	}
	if info.Author != "" {
		meta.Author = info.Author
	}
	if info.ToolVersion != "" {
		meta.Creator = PDFProducer + " " + info.ToolVersion
	}
	if info.Fingerprint != nil {
		meta.Keywords = append(meta.Keywords, "inputs:"+info.Fingerprint.Hash)
	}

	doc := NewPDFDocument(meta, rc.Compress)
	footer := info.footer()
	for _, t := range tables {
		doc.AddPage(rc.PageWidth, rc.PageHeight, ClassPage(t, rc, footer))
	}
	return doc
}

// WriteClassReport writes the report for tables to w.
func WriteClassReport(w io.Writer, info ReportInfo, rc config.ReportConfig, tables ...*classes.Table) error {
	if _, err := BuildClassReport(info, rc, tables...).WriteTo(w); err != nil {
		return rerrors.IOWrap(err, rerrors.ErrIOWriteFailed, "failed to write report")
	}
	return nil
}

// ExportClassReportToFile writes the report to path. The file appears only
// once it is complete.
func ExportClassReportToFile(path string, info ReportInfo, rc config.ReportConfig, tables ...*classes.Table) error {
	var buf bytes.Buffer
	if err := WriteClassReport(&buf, info, rc, tables...); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte) error {
	wrap := func(err error, msg string) error {
		return rerrors.IOWrapf(err, rerrors.ErrIOWriteFailed, "%s %s", msg, path).WithContext("path", path)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return wrap(err, "failed to create temporary file for")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrap(err, "failed to write")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return wrap(err, "failed to sync")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return wrap(err, "failed to close")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return wrap(err, "failed to set permissions on")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return wrap(err, "failed to rename into")
	}
	return nil
}

// JobName returns the second-to-last '/'-separated segment of path, the
// job directory when path ends with a slash ("Class3D/job012/" gives
// "job012"). A path with a single segment names itself, and relative
// segments such as "." resolve to the directory they name.
func JobName(path string) string {
	name := filepath.Base(path)
	if parts := strings.Split(path, "/"); len(parts) >= 2 {
		name = parts[len(parts)-2]
	}
	switch name {
	case "", ".", "..":
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.Base(abs)
		}
		return filepath.Base(filepath.Clean(path))
	}
	return name
}

// ReportPath returns <dir>/<job>.pdf; an empty dir means the working
// directory.
func ReportPath(dir, job string) string {
	return filepath.Join(dir, job+".pdf")
}

// SiblingPath returns <dir>/<job><suffix>.
func SiblingPath(dir, job, suffix string) string {
	return filepath.Join(dir, job+suffix)
}
