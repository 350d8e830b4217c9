package aggregator

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
)

var fixture = []string{
	"2023-10-01 12:00:00 INFO django.request: GET /api/v1/resource",
	"2023-10-01 12:01:00 DEBUG django.request: POST /api/v1/resource",
	"2023-10-01 12:02:00 WARNING django.request: GET /api/v1/resource",
	"2023-10-01 12:03:00 ERROR django.request: GET /api/v1/resource",
	"2023-10-01 12:03:00 CRITICAL django.request: GET /api/v1/resource",
}

func rawLines(texts ...string) []model.RawLine {
	out := make([]model.RawLine, len(texts))
	for i, t := range texts {
		out[i] = model.RawLine{Text: t, Source: "test.log"}
	}
	return out
}

func TestFoldLevelCounts(t *testing.T) {
	agg := New()
	agg.Fold(parser.MustExtractor(), rawLines(fixture...))

	rep := agg.Snapshot()
	if rep.Total != 5 {
		t.Errorf("expected 5 total requests, got %d", rep.Total)
	}
	if rep.Len() != 1 {
		t.Fatalf("expected 1 handler, got %d", rep.Len())
	}
	for _, lvl := range model.Severities() {
		if n := rep.Count("/api/v1/resource", lvl); n != 1 {
			t.Errorf("expected 1 %s, got %d", lvl, n)
		}
	}
}

func TestFoldIgnoresUnmatched(t *testing.T) {
	agg := New()
	agg.Fold(parser.MustExtractor(), rawLines(
		"Watching for file changes with StatReloader",
		"2023-10-01 12:00:00 INFO django.request: no path on this line",
		"2023-10-01 12:00:00 INFO django.server: GET /static/app.css 200",
		fixture[0],
	))

	rep := agg.Snapshot()
	if rep.Total != 1 {
		t.Errorf("expected 1 total request, got %d", rep.Total)
	}
}

func TestConcurrentRecord(t *testing.T) {
	agg := New()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				agg.Record(model.LogRecord{Level: model.SeverityError, Path: "/hot"})
			}
		}()
	}
	wg.Wait()

	rep := agg.Snapshot()
	if rep.Count("/hot", model.SeverityError) != 8000 {
		t.Errorf("expected 8000 ERROR for /hot, got %d", rep.Count("/hot", model.SeverityError))
	}
	if rep.Total != rep.Sum() {
		t.Errorf("total %d does not match sum %d", rep.Total, rep.Sum())
	}
}

func TestFoldParallelMatchesFold(t *testing.T) {
	ex := parser.MustExtractor()

	texts := make([]string, 0, 5*minChunk)
	for i := 0; i < 5*minChunk; i++ {
		texts = append(texts, fmt.Sprintf("2023-10-01 12:00:00,000 %s django.request: GET /api/v1/items/%d",
			model.Severities()[i%5], i%37))
		if i%11 == 0 {
			texts = append(texts, "2023-10-01 12:00:00,000 INFO django.server: noise")
		}
	}
	lines := rawLines(texts...)

	seq := New()
	seq.Fold(ex, lines)

	par := New()
	if err := par.FoldParallel(context.Background(), ex, lines, 4); err != nil {
		t.Fatal(err)
	}

	want, got := seq.Snapshot(), par.Snapshot()
	if got.Total != want.Total {
		t.Fatalf("expected total %d, got %d", want.Total, got.Total)
	}
	wantPaths, gotPaths := want.Paths(), got.Paths()
	if len(gotPaths) != len(wantPaths) {
		t.Fatalf("expected %d paths, got %d", len(wantPaths), len(gotPaths))
	}
	for i, p := range wantPaths {
		if gotPaths[i] != p {
			t.Errorf("row %d: expected %q, got %q", i, p, gotPaths[i])
		}
		for _, lvl := range model.Severities() {
			if got.Count(p, lvl) != want.Count(p, lvl) {
				t.Errorf("%s %s: expected %d, got %d", p, lvl, want.Count(p, lvl), got.Count(p, lvl))
			}
		}
	}
}

func TestFoldParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := make([]string, 3*minChunk)
	for i := range texts {
		texts[i] = fixture[i%5]
	}

	agg := New()
	if err := agg.FoldParallel(ctx, parser.MustExtractor(), rawLines(texts...), 3); err == nil {
		t.Error("expected context error")
	}
	if agg.Snapshot().Total != 0 {
		t.Error("expected nothing merged after cancellation")
	}
}

func TestSplit(t *testing.T) {
	if got := split(nil, 4); got != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(got))
	}
	if got := split(rawLines(fixture...), 4); len(got) != 1 {
		t.Errorf("expected small input to stay in one chunk, got %d", len(got))
	}

	lines := make([]model.RawLine, 2*minChunk+1)
	chunks := split(lines, 8)
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	if n != len(lines) {
		t.Errorf("expected chunks to cover %d lines, got %d", len(lines), n)
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(chunks))
	}
}
