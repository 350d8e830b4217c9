package model

import "encoding/json"

// ReportType names a kind of report the analyzer can build.
type ReportType string

// ReportHandlers counts requests per handler path and severity.
const ReportHandlers ReportType = "handlers"

// ReportTypes returns every known report type.
func ReportTypes() []ReportType {
	return []ReportType{ReportHandlers}
}

// HandlerReport maps handler paths to per-severity request counts.
// Paths iterate in the order they were first seen. Total always equals Sum().
// A HandlerReport is not safe for concurrent use.
type HandlerReport struct {
	Total  int
	paths  []string
	counts map[string]map[Severity]int
}

// NewHandlerReport returns an empty report.
func NewHandlerReport() *HandlerReport {
	return &HandlerReport{counts: make(map[string]map[Severity]int)}
}

// Inc records a single request for path at level.
func (r *HandlerReport) Inc(path string, level Severity) {
	r.Add(path, level, 1)
}

// Add records n requests for path at level. Non-positive n is ignored.
func (r *HandlerReport) Add(path string, level Severity, n int) {
	if n <= 0 {
		return
	}
	levels, ok := r.counts[path]
	if !ok {
		levels = make(map[Severity]int)
		r.counts[path] = levels
		r.paths = append(r.paths, path)
	}
	levels[level] += n
	r.Total += n
}

// Count returns the number of requests for path at level, 0 when absent.
func (r *HandlerReport) Count(path string, level Severity) int {
	return r.counts[path][level]
}

// Paths returns handler paths in first-seen order.
func (r *HandlerReport) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Levels returns a copy of the per-severity counts for path.
func (r *HandlerReport) Levels(path string) map[Severity]int {
	src := r.counts[path]
	out := make(map[Severity]int, len(src))
	for lvl, n := range src {
		out[lvl] = n
	}
	return out
}

// Len returns the number of distinct handler paths.
func (r *HandlerReport) Len() int { return len(r.paths) }

// Sum adds up every cell. It is what Total must equal.
func (r *HandlerReport) Sum() int {
	var sum int
	for _, levels := range r.counts {
		for _, n := range levels {
			sum += n
		}
	}
	return sum
}

// Merge folds other into r. Paths new to r are appended in other's order.
func (r *HandlerReport) Merge(other *HandlerReport) {
	if other == nil {
		return
	}
	for _, path := range other.paths {
		for lvl, n := range other.counts[path] {
			r.Add(path, lvl, n)
		}
	}
}

// Clone returns a deep copy of r.
func (r *HandlerReport) Clone() *HandlerReport {
	c := NewHandlerReport()
	c.Merge(r)
	return c
}

type handlerRow struct {
	Path   string           `json:"path"`
	Levels map[Severity]int `json:"levels"`
}

// MarshalJSON encodes the report with rows kept in first-seen order.
func (r *HandlerReport) MarshalJSON() ([]byte, error) {
	rows := make([]handlerRow, 0, len(r.paths))
	for _, path := range r.paths {
		rows = append(rows, handlerRow{Path: path, Levels: r.Levels(path)})
	}
	return json.Marshal(struct {
		Total    int          `json:"total"`
		Handlers []handlerRow `json:"handlers"`
	}{
		Total:    r.Total,
		Handlers: rows,
	})
}
