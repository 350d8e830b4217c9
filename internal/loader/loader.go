package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Loader reads whole log files concurrently.
type Loader struct {
	workers int
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers bounds the number of files read at the same time.
// Non-positive values keep the default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Resolve expands glob patterns and checks that every path exists. An
// argument that exists on disk is taken literally even if it contains glob
// metacharacters, and is read once per time it is listed. Glob matches
// already listed by an earlier argument are skipped. The first missing path
// is reported as a *FileNotFoundError naming it exactly.
func (l *Loader) Resolve(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, ErrNoInput
	}

	listed := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		_, err := os.Stat(pattern)
		if err == nil {
			listed[filepath.Clean(pattern)] = true
			paths = append(paths, pattern)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", pattern, err)
		}
		if !isGlob(pattern) {
			return nil, &FileNotFoundError{Path: pattern}
		}

		matches, err := expandGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, &FileNotFoundError{Path: pattern}
		}
		for _, m := range matches {
			key := filepath.Clean(m)
			if !listed[key] {
				listed[key] = true
				paths = append(paths, m)
			}
		}
	}

	return paths, nil
}

// Load resolves patterns and returns every line of every file. Lines keep
// their order within a file; the order across files is not defined.
// Nothing is returned when any path is missing or any read fails.
func (l *Loader) Load(ctx context.Context, patterns []string) ([]model.RawLine, error) {
	paths, err := l.Resolve(patterns)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([][]model.RawLine, len(paths))

	// Siblings are not interrupted on failure; only tasks that have not
	// started yet are skipped.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			lines, err := readFile(path)
			if err != nil {
				return err
			}
			l.logger.Debug("read log file", "path", path, "lines", len(lines))

			results[i] = lines
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	merged := make([]model.RawLine, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	l.logger.Info("loaded log files",
		"files", len(paths),
		"lines", total,
		"workers", l.workers,
		"elapsed", time.Since(start),
	)

	return merged, nil
}

// readFile returns all lines of path with "\n" and "\r\n" endings removed.
// Lines have no length limit.
func readFile(path string) ([]model.RawLine, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []model.RawLine
	r := bufio.NewReaderSize(f, 64*1024)
	for {
		text, err := r.ReadString('\n')
		if text != "" {
			text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			lines = append(lines, model.RawLine{Text: text, Source: path})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error on %s: %w", path, err)
		}
	}

	return lines, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like /var/log/**/*.log via doublestar.
func expandGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Clean(m)
	}
	return matches, nil
}
