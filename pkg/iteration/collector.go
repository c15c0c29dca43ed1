package iteration

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/r3d91ll/classreport/pkg/config"
	"github.com/r3d91ll/classreport/pkg/progress"
	"github.com/r3d91ll/classreport/pkg/star"
)

// Record holds the statistics read from one model file.
type Record struct {
	File File

	// Distribution and Resolution hold one value per class, or nothing when
	// the file lacks the table or column.
	Distribution []float64
	Resolution   []float64

	// Classes is the full typed class table.
	Classes []star.ClassRecord
}

// Collector reads every model file of a job directory.
type Collector struct {
	cfg      config.InputConfig
	progress io.Writer

	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewCollector returns a collector using cfg. A nil logger discards logs.
func NewCollector(cfg config.InputConfig, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Collector{
		cfg:    cfg,
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

// WithProgress draws a progress bar on w while files are parsed.
func (c *Collector) WithProgress(w io.Writer) *Collector {
	c.progress = w
	return c
}

// Collect discovers and parses the model files in dir. Records are returned
// in sorted file order regardless of the number of workers.
func (c *Collector) Collect(ctx context.Context, dir string) ([]Record, error) {
	files, skipped, err := discover(dir, c.cfg.Pattern)
	for _, name := range skipped {
		c.sugar.Warnw("skipping file without iteration number", "file", name)
	}
	if err != nil {
		return nil, err
	}
	c.sugar.Debugw("discovered model files", "dir", dir, "count", len(files), "workers", c.cfg.Workers)

	var bar *progress.Bar
	if c.progress != nil {
		bar = progress.New(len(files), "Parsing", c.progress)
		bar.Start()
	}

	records := make([]Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := c.read(f)
			if err != nil {
				return err
			}
			records[i] = rec
			if bar != nil {
				bar.Step(f.Name)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if bar != nil {
			bar.Fail("parsing model files failed")
		}
		return nil, err
	}
	if bar != nil {
		bar.Done(fmt.Sprintf("parsed %d model files", len(files)))
	}
	return records, nil
}

// read parses one file. A missing table or column yields an empty sequence.
func (c *Collector) read(f File) (Record, error) {
	rec := Record{File: f}

	tbl, err := star.ParseFile(f.Path, c.cfg.Table, star.Options{})
	if err != nil {
		return rec, err
	}
	if len(tbl.Columns()) == 0 {
		c.sugar.Warnw("table not found", "file", f.Name, "table", c.cfg.Table)
		return rec, nil
	}

	rec.Distribution = c.column(tbl, f, c.cfg.DistributionColumn)
	rec.Resolution = c.column(tbl, f, c.cfg.ResolutionColumn)
	rec.Classes = star.ReadClasses(tbl)

	c.logger.Debug("parsed model file",
		zap.String("file", f.Name),
		zap.Int("iteration", f.Iteration),
		zap.Bool("continuation", f.Continuation),
		zap.Int("classes", tbl.Len()),
	)
	return rec, nil
}

func (c *Collector) column(tbl *star.Table, f File, name string) []float64 {
	values, ok := tbl.Floats(name)
	if !ok {
		c.sugar.Warnw("column not found", "file", f.Name, "table", c.cfg.Table, "column", name)
		return nil
	}
	return values
}

// Distributions returns the distribution sequence of every record.
func Distributions(records []Record) [][]float64 {
	out := make([][]float64, len(records))
	for i, r := range records {
		out[i] = r.Distribution
	}
	return out
}

// Resolutions returns the resolution sequence of every record.
func Resolutions(records []Record) [][]float64 {
	out := make([][]float64, len(records))
	for i, r := range records {
		out[i] = r.Resolution
	}
	return out
}
