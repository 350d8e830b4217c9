package report

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/aggregator"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
)

// ErrInvalidReportType matches every *InvalidReportTypeError.
var ErrInvalidReportType = errors.New("invalid report type")

// InvalidReportTypeError names a report tag with no registered strategy.
type InvalidReportTypeError struct {
	Tag string
}

func (e *InvalidReportTypeError) Error() string {
	return "Invalid report type: " + e.Tag
}

func (e *InvalidReportTypeError) Is(target error) bool {
	return target == ErrInvalidReportType
}

// Strategy builds a report from the full set of loaded lines.
type Strategy func(ctx context.Context, lines []model.RawLine) (*model.HandlerReport, error)

// Dispatcher selects the strategy registered for a report type.
type Dispatcher struct {
	extractor *parser.Extractor
	workers   int
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers bounds the goroutines used while folding lines.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a Dispatcher whose strategies extract records with ex.
func NewDispatcher(ex *parser.Extractor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		extractor: ex,
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Types lists the report types with a registered strategy.
func (d *Dispatcher) Types() []model.ReportType {
	var out []model.ReportType
	for _, t := range model.ReportTypes() {
		if _, ok := d.strategy(t); ok {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks tag without running anything.
func (d *Dispatcher) Validate(tag string) (model.ReportType, error) {
	t := model.ReportType(tag)
	if _, ok := d.strategy(t); !ok {
		return "", &InvalidReportTypeError{Tag: tag}
	}
	return t, nil
}

// Dispatch runs the strategy registered for tag over lines.
func (d *Dispatcher) Dispatch(ctx context.Context, tag string, lines []model.RawLine) (*model.HandlerReport, error) {
	t, err := d.Validate(tag)
	if err != nil {
		return nil, err
	}
	run, _ := d.strategy(t)

	d.logger.Debug("building report", "type", t, "lines", len(lines))
	return run(ctx, lines)
}

func (d *Dispatcher) strategy(t model.ReportType) (Strategy, bool) {
	switch t {
	case model.ReportHandlers:
		return d.handlers, true
	default:
		return nil, false
	}
}

// handlers counts requests per handler path and severity.
func (d *Dispatcher) handlers(ctx context.Context, lines []model.RawLine) (*model.HandlerReport, error) {
	agg := aggregator.New()
	if err := agg.FoldParallel(ctx, d.extractor, lines, d.workers); err != nil {
		return nil, err
	}

	rep := agg.Snapshot()
	d.logger.Debug("handlers report built",
		"handlers", rep.Len(),
		"requests", rep.Total,
		"skipped", len(lines)-rep.Total,
	)
	return rep, nil
}
