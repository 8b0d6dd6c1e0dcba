// Package pipeline runs the filter, counter and entropy stages for each mode
// and writes one report per mode.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/filter"
	"github.com/verte-zerg/symkrypt/internal/model"
	"github.com/verte-zerg/symkrypt/internal/stats"
)

// Recorder persists finished runs.
type Recorder interface {
	InsertRun(ctx context.Context, rec model.RunRecord, s model.TextStatistics) (int64, error)
}

// Options selects input, outputs and modes for one Run.
type Options struct {
	Input   string
	OutBase string
	// Tag is written as the report marker; empty uses the run start time.
	Tag      string
	Modes    []model.Mode
	Parallel bool
}

// Outcome is the result of one mode.
type Outcome struct {
	Mode       model.Mode
	Stats      model.TextStatistics
	ReportPath string
	Err        error
}

// Result holds every mode's outcome in the order the modes were requested.
type Result struct {
	Marker    string
	StartedAt time.Time
	Outcomes  []Outcome
}

// Runner executes analysis runs.
type Runner struct {
	alphabet *alphabet.Alphabet
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// New constructs a Runner. recorder may be nil to disable history.
func New(a *alphabet.Alphabet, logger *zap.Logger, recorder Recorder) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		alphabet: a,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Analyze reads path and returns its statistics for mode.
func Analyze(path string, mode model.Mode, a *alphabet.Alphabet) (model.TextStatistics, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.TextStatistics{}, fmt.Errorf("%w %s: %w", ErrInputOpen, path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	stream, err := filter.ReadAll(file, mode, a)
	if err != nil {
		return model.TextStatistics{}, fmt.Errorf("%w %s: %w", ErrInputOpen, path, err)
	}
	return stats.Analyze(stream, mode), nil
}

// ReportPath returns the report file name for a mode.
func ReportPath(outBase string, mode model.Mode) string {
	return outBase + mode.Suffix() + ".txt"
}

// Run analyzes opts.Input once per mode and writes the reports. A failing mode
// does not stop the others; all failures are combined in the returned error.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	modes := opts.Modes
	if len(modes) == 0 {
		modes = model.AllModes
	}
	startedAt := r.now()
	res := Result{
		Marker:    opts.Tag,
		StartedAt: startedAt,
		Outcomes:  make([]Outcome, len(modes)),
	}
	if res.Marker == "" {
		res.Marker = startedAt.Format(time.RFC3339)
	}
	r.logger.Debug("run started",
		zap.String("input", opts.Input),
		zap.String("marker", res.Marker),
		zap.Int("modes", len(modes)),
		zap.Bool("parallel", opts.Parallel),
	)

	if opts.Parallel {
		// Failures stay in each Outcome; the group only joins the modes.
		var g errgroup.Group
		for i, mode := range modes {
			g.Go(func() error {
				res.Outcomes[i] = r.runMode(ctx, opts, mode, res.Marker)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, mode := range modes {
			res.Outcomes[i] = r.runMode(ctx, opts, mode, res.Marker)
		}
	}

	var errs error
	for _, out := range res.Outcomes {
		if out.Err != nil {
			errs = multierr.Append(errs, out.Err)
			continue
		}
		r.record(ctx, opts, res, out)
	}
	return res, errs
}

func (r *Runner) runMode(ctx context.Context, opts Options, mode model.Mode, marker string) Outcome {
	out := Outcome{Mode: mode, ReportPath: ReportPath(opts.OutBase, mode)}
	log := r.logger.With(zap.String("mode", mode.Suffix()))
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	s, err := Analyze(opts.Input, mode, r.alphabet)
	if err != nil {
		log.Error("input unreadable, skipping report", zap.String("input", opts.Input), zap.Error(err))
		out.Err = err
		return out
	}
	out.Stats = s
	if s.TotalSymbols == 0 {
		log.Warn("degenerate input", zap.String("input", opts.Input), zap.Error(ErrDegenerateInput))
	}

	if err := stats.WriteReport(out.ReportPath, s, r.alphabet, marker); err != nil {
		err = fmt.Errorf("%w %s: %w", ErrOutputCreate, out.ReportPath, err)
		log.Error("report not written", zap.String("path", out.ReportPath), zap.Error(err))
		out.Err = err
		return out
	}
	log.Info("report written",
		zap.String("path", out.ReportPath),
		zap.Int("symbols", s.TotalSymbols),
		zap.Float64("symbol_entropy", s.SymbolEntropy),
	)
	return out
}

func (r *Runner) record(ctx context.Context, opts Options, res Result, out Outcome) {
	if r.recorder == nil {
		return
	}
	rec := model.RunRecord{
		StartedAt:                   res.StartedAt,
		Tag:                         res.Marker,
		Input:                       opts.Input,
		Mode:                        out.Mode,
		ReportPath:                  out.ReportPath,
		TotalSymbols:                out.Stats.TotalSymbols,
		DistinctSymbols:             out.Stats.DistinctSymbols(),
		OverlappingBigramTotal:      out.Stats.OverlappingBigramTotal,
		NonOverlappingBigramTotal:   out.Stats.NonOverlappingBigramTotal,
		SymbolEntropy:               out.Stats.SymbolEntropy,
		OverlappingBigramEntropy:    out.Stats.OverlappingBigramEntropy,
		NonOverlappingBigramEntropy: out.Stats.NonOverlappingBigramEntropy,
	}
	if _, err := r.recorder.InsertRun(ctx, rec, out.Stats); err != nil {
		r.logger.Warn("failed to record run", zap.String("mode", out.Mode.Suffix()), zap.Error(err))
	}
}
