package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/config"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/loader"
	applog "github.com/RolAlek/cli-app-logs-analyzer/internal/log"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/output"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/report"
)

// runAnalyze loads the files, builds the requested report and renders it.
// The report type and output format are checked before any file is read.
func runAnalyze(ctx context.Context, stdout, stderr io.Writer, cfg config.Config, paths []string) error {
	logger := applog.New(stderr, cfg.Verbose)

	ex, err := parser.NewExtractor(parser.WithMarker(cfg.Marker), parser.WithPattern(cfg.Pattern))
	if err != nil {
		return err
	}

	dispatcher := report.NewDispatcher(ex,
		report.WithWorkers(cfg.Workers),
		report.WithLogger(logger),
	)
	reportType, err := dispatcher.Validate(cfg.Report)
	if err != nil {
		return err
	}

	renderer, err := output.New(cfg.Output, stdout, cfg.Color)
	if err != nil {
		return err
	}

	lines, err := loader.New(
		loader.WithWorkers(cfg.Workers),
		loader.WithLogger(logger),
	).Load(ctx, paths)
	if err != nil {
		return err
	}

	rep, err := dispatcher.Dispatch(ctx, string(reportType), lines)
	if err != nil {
		return err
	}

	if err := renderer.Render(rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
