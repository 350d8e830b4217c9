package model

// RawLine is a single line read from a log file, before extraction.
type RawLine struct {
	Text   string `json:"text"`
	Source string `json:"source"` // originating file path
}

// LogRecord is the request event pulled out of a matching line.
type LogRecord struct {
	Timestamp string   `json:"timestamp"` // kept verbatim, e.g. "2023-10-01 12:00:00,123"
	Level     Severity `json:"level"`
	Path      string   `json:"path"` // handler path, always starts with '/'
}
