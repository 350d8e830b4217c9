package aggregator

import (
	"context"
	"sync"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest slice of lines worth folding on its own goroutine.
const minChunk = 4096

// Aggregator folds request records into a HandlerReport.
// Record and Merge may be called from multiple goroutines.
type Aggregator struct {
	mu     sync.Mutex
	report *model.HandlerReport
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{report: model.NewHandlerReport()}
}

// Record counts one request.
func (a *Aggregator) Record(rec model.LogRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.report.Inc(rec.Path, rec.Level)
}

// Merge folds a partial report built elsewhere.
func (a *Aggregator) Merge(part *model.HandlerReport) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.report.Merge(part)
}

// Snapshot returns a copy of the report built so far.
func (a *Aggregator) Snapshot() *model.HandlerReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.report.Clone()
}

// Fold extracts and counts every matching line, in order.
func (a *Aggregator) Fold(ex *parser.Extractor, lines []model.RawLine) {
	a.Merge(foldChunk(ex, lines))
}

// FoldParallel splits lines into contiguous chunks, folds each chunk into its
// own report on a bounded pool and merges the parts in chunk order after the
// join. The result is identical to Fold, row order included.
func (a *Aggregator) FoldParallel(ctx context.Context, ex *parser.Extractor, lines []model.RawLine, workers int) error {
	if workers < 1 {
		workers = 1
	}
	chunks := split(lines, workers)
	if len(chunks) <= 1 {
		a.Fold(ex, lines)
		return nil
	}

	parts := make([]*model.HandlerReport, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = foldChunk(ex, chunk)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, part := range parts {
		a.Merge(part)
	}
	return nil
}

func foldChunk(ex *parser.Extractor, lines []model.RawLine) *model.HandlerReport {
	part := model.NewHandlerReport()
	for _, line := range lines {
		if rec, ok := ex.Extract(line.Text); ok {
			part.Inc(rec.Path, rec.Level)
		}
	}
	return part
}

// split cuts lines into at most n contiguous chunks of at least minChunk lines.
func split(lines []model.RawLine, n int) [][]model.RawLine {
	if len(lines) == 0 {
		return nil
	}
	size := (len(lines) + n - 1) / n
	if size < minChunk {
		size = minChunk
	}

	var chunks [][]model.RawLine
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		chunks = append(chunks, lines[start:end])
	}
	return chunks
}
