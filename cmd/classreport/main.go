// classreport summarizes a RELION 3D classification job.
//
// It reads the per-iteration model files of a job directory and writes
// <job>.pdf with two charts: the distribution of particles over classes and
// the estimated resolution of each class, both against iteration.
//
// Usage:
//
//	classreport [flags] <job-dir>
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/r3d91ll/classreport/pkg/classes"
	"github.com/r3d91ll/classreport/pkg/config"
	rerrors "github.com/r3d91ll/classreport/pkg/errors"
	"github.com/r3d91ll/classreport/pkg/export"
	"github.com/r3d91ll/classreport/pkg/iteration"
	"github.com/r3d91ll/classreport/pkg/job"
	"github.com/r3d91ll/classreport/pkg/logging"
	"github.com/r3d91ll/classreport/pkg/progress"
	"github.com/r3d91ll/classreport/pkg/render"
	"github.com/r3d91ll/classreport/pkg/summary"
	"github.com/r3d91ll/classreport/pkg/viewer"
)

var version = "1.0.0"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// showChart displays the distribution chart for -s.
var showChart = viewer.Show

type options struct {
	dir        string
	outDir     string
	configPath string
	show       bool
	csv        bool
	png        bool
	truncate   bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("classreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: classreport [flags] <job-dir>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var opts options
	fs.BoolVar(&opts.show, "s", false, "Show the distribution chart after saving the report")
	fs.StringVar(&opts.outDir, "o", "", "Output directory (default: config output.dir or working directory)")
	fs.BoolVar(&opts.csv, "csv", false, "Also write <job>_classes.csv")
	fs.BoolVar(&opts.png, "png", false, "Also write <job>_distribution.png and <job>_resolution.png")
	fs.StringVar(&opts.configPath, "config", "", "Config file path (default: classreport.yaml)")
	initConfig := fs.Bool("init", false, "Write a default config file and exit")
	fs.BoolVar(&opts.truncate, "truncate", false, "Drop values beyond the declared class count instead of failing")
	fs.BoolVar(&opts.verbose, "v", false, "Debug logging")
	showVersion := fs.Bool("version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "classreport %s\n", version)
		return exitOK
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if *initConfig {
		if err := config.InitConfig(cfgPath); err != nil {
			display(stderr, err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "Config initialized at: %s\n", cfgPath)
		return exitOK
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	opts.dir = fs.Arg(0)

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		display(stderr, err)
		return exitFailure
	}

	logger := logging.New(opts.verbose, stderr)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := generate(ctx, opts, cfg, logger, stderr)
	if err != nil {
		display(stderr, err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Report written to %s\n", rep.pdfPath)
	outputs := append([]string{rep.pdfPath}, rep.extra...)
	summary.NewRenderer(stdout, progress.IsTerminal(stdout)).
		Render(summary.FromTables(rep.job, rep.distribution, rep.resolution, outputs))

	if opts.show {
		img, err := render.Image(rep.distribution, render.DefaultOptions())
		if err != nil {
			display(stderr, err)
			return exitFailure
		}
		showChart(rep.job+": Class Distribution", img)
	}
	return exitOK
}

// report is the outcome of one run.
type report struct {
	job          string
	pdfPath      string
	extra        []string
	distribution *classes.Table
	resolution   *classes.Table
}

func generate(ctx context.Context, opts options, cfg *config.Config, logger *zap.Logger, progressOut io.Writer) (*report, error) {
	sugar := logger.Sugar()

	policyName := cfg.Aggregate.MismatchPolicy
	if opts.truncate {
		policyName = config.PolicyTruncate
	}
	policy, err := classes.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}

	manifestPath, err := job.FindManifest(opts.dir, cfg.Input.Manifest)
	if err != nil {
		return nil, err
	}
	manifest, err := job.ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	jobName := export.JobName(opts.dir)
	sugar.Debugw("read manifest", "path", manifestPath, "classes", manifest.Classes)

	records, err := iteration.NewCollector(cfg.Input, logger).
		WithProgress(progressOut).
		Collect(ctx, opts.dir)
	if err != nil {
		return nil, err
	}

	dist, err := buildTable(classes.Distribution, iteration.Distributions(records), manifest.Classes, policy, sugar)
	if err != nil {
		return nil, err
	}
	res, err := buildTable(classes.Resolution, iteration.Resolutions(records), manifest.Classes, policy, sugar)
	if err != nil {
		return nil, err
	}

	fp, err := fingerprint(jobName, manifestPath, manifest.Classes, policyName, cfg.Input, records)
	if err != nil {
		return nil, err
	}

	outDir := cfg.Output.Dir
	if opts.outDir != "" {
		outDir = opts.outDir
	}

	rep := &report{
		job:          jobName,
		pdfPath:      export.ReportPath(outDir, jobName),
		distribution: dist,
		resolution:   res,
	}

	info := export.ReportInfo{
		Job:         jobName,
		Source:      opts.dir,
		Classes:     manifest.Classes,
		Iterations:  len(records),
		ToolVersion: version,
		Fingerprint: fp,
	}
	if err := export.ExportClassReportToFile(rep.pdfPath, info, cfg.Report, dist, res); err != nil {
		return nil, err
	}
	sugar.Infow("report written", "path", rep.pdfPath, "iterations", len(records), "classes", manifest.Classes)

	if opts.csv || cfg.Output.CSV {
		path := export.SiblingPath(outDir, jobName, "_classes.csv")
		if err := writeCSV(path, records, dist, res); err != nil {
			return nil, err
		}
		rep.extra = append(rep.extra, path)
	}

	if opts.png || cfg.Output.PNG {
		ro := render.DefaultOptions()
		ro.LineWidth = cfg.Report.LineWidth
		ro.ShowPoints = cfg.Report.ShowPoints
		for _, t := range []*classes.Table{dist, res} {
			path := export.SiblingPath(outDir, jobName, "_"+t.Kind.String()+".png")
			if err := writePNG(path, t, ro); err != nil {
				if rerrors.IsCode(err, rerrors.ErrValidationInvalidValue) {
					sugar.Warnw("skipping chart without values", "kind", t.Kind.String())
					continue
				}
				return nil, err
			}
			rep.extra = append(rep.extra, path)
		}
	}

	return rep, nil
}

func buildTable(kind classes.Kind, seqs [][]float64, count int, policy classes.Policy, sugar *zap.SugaredLogger) (*classes.Table, error) {
	t, warnings, err := classes.Build(kind, seqs, count, policy)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		sugar.Warnw(w.String(), "kind", kind.String(), "row", w.Row)
	}
	return t, nil
}

func fingerprint(jobName, manifestPath string, count int, policy string, in config.InputConfig, records []iteration.Record) (*export.Fingerprint, error) {
	fb := export.NewFingerprintBuilder().
		WithToolVersion(version).
		WithJob(jobName, count).
		WithParameter("table", in.Table).
		WithParameter("distribution_column", in.DistributionColumn).
		WithParameter("resolution_column", in.ResolutionColumn).
		WithParameter("mismatch_policy", policy)

	if err := fb.WithFile(manifestPath); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := fb.WithFile(r.File.Path); err != nil {
			return nil, err
		}
	}
	return fb.Build(), nil
}

func writeCSV(path string, records []iteration.Record, tables ...*classes.Table) error {
	files := make([]string, len(records))
	for i, r := range records {
		files[i] = r.File.Name
	}

	var buf bytes.Buffer
	if err := export.ExportClassTablesToCSV(&buf, files, nil, tables...); err != nil {
		return rerrors.IOWrap(err, rerrors.ErrIOWriteFailed, "failed to write class table CSV").
			WithContext("path", path)
	}
	return export.WriteFileAtomic(path, buf.Bytes())
}

func writePNG(path string, t *classes.Table, opts render.Options) error {
	var buf bytes.Buffer
	if err := render.PNG(&buf, t, opts); err != nil {
		return err
	}
	return export.WriteFileAtomic(path, buf.Bytes())
}

func display(w io.Writer, err error) {
	f := rerrors.DefaultFormatter()
	if w != os.Stderr {
		f.UseColor = false
	}
	f.Writer = w
	f.Display(err)
}
