package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
)

// DefaultMarker identifies Django request-handling lines.
const DefaultMarker = "django.request"

// patternTemplate is filled with the quoted marker to form the default pattern.
const patternTemplate = `(?P<timestamp>[\d\-]+\s[\d:,]+) (?P<level>\w+) %s:.*?(?P<path>/[^\s]+)`

// ErrMissingGroup is returned when a pattern lacks a required named group.
var ErrMissingGroup = errors.New("pattern is missing a required named group")

// DefaultPattern returns the extraction pattern built around marker.
func DefaultPattern(marker string) string {
	return fmt.Sprintf(patternTemplate, regexp.QuoteMeta(marker))
}

// Extractor pulls request records out of raw log lines.
// It is safe for concurrent use.
type Extractor struct {
	marker string
	re     *regexp.Regexp

	tsIdx, levelIdx, pathIdx int
}

// Option configures an Extractor.
type Option func(*extractorConfig)

type extractorConfig struct {
	marker  string
	pattern string
}

// WithMarker sets the substring a line must contain to be considered.
// Empty values are ignored.
func WithMarker(marker string) Option {
	return func(c *extractorConfig) {
		if marker != "" {
			c.marker = marker
		}
	}
}

// WithPattern sets a custom pattern. It must declare the named groups
// timestamp, level and path. Empty values are ignored.
func WithPattern(pattern string) Option {
	return func(c *extractorConfig) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

// NewExtractor compiles an Extractor. Without options it matches Django
// request lines.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := extractorConfig{marker: DefaultMarker}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pattern == "" {
		cfg.pattern = DefaultPattern(cfg.marker)
	}

	re, err := regexp.Compile(cfg.pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	e := &Extractor{marker: cfg.marker, re: re}
	for name, idx := range map[string]*int{
		"timestamp": &e.tsIdx,
		"level":     &e.levelIdx,
		"path":      &e.pathIdx,
	} {
		i := re.SubexpIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingGroup, name)
		}
		*idx = i
	}

	return e, nil
}

// MustExtractor is like NewExtractor but panics on error.
func MustExtractor(opts ...Option) *Extractor {
	e, err := NewExtractor(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Marker returns the substring the extractor filters on.
func (e *Extractor) Marker() string { return e.marker }

// Extract returns the record carried by line. The boolean is false when the
// line has no marker, does not match the pattern, or names an unknown level.
func (e *Extractor) Extract(line string) (model.LogRecord, bool) {
	if !strings.Contains(line, e.marker) {
		return model.LogRecord{}, false
	}

	m := e.re.FindStringSubmatch(line)
	if m == nil {
		return model.LogRecord{}, false
	}

	level, ok := model.ParseSeverity(m[e.levelIdx])
	if !ok {
		return model.LogRecord{}, false
	}

	return model.LogRecord{
		Timestamp: m[e.tsIdx],
		Level:     level,
		Path:      m[e.pathIdx],
	}, true
}
