package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
)

func sampleReport() *model.HandlerReport {
	rep := model.NewHandlerReport()
	for _, lvl := range model.Severities() {
		rep.Inc("/api/v1/resource", lvl)
	}
	return rep
}

func TestTextRendererLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(sampleReport()); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		strings.Repeat("=", 58),
		"Total Requests:     5",
		strings.Repeat("=", 58),
		"HANDLER              INFO   DEBUG  WARNING ERROR  CRITICAL",
		strings.Repeat("-", 58),
		"/api/v1/resource     1        1        1        1        1       ",
	}, "\n") + "\n"

	if buf.String() != want {
		t.Errorf("unexpected table:\n%s\nexpected:\n%s", buf.String(), want)
	}
}

func TestTextRendererDefaultsMissingLevelsToZero(t *testing.T) {
	rep := model.NewHandlerReport()
	rep.Inc("/admin/dashboard/", model.SeverityError)
	rep.Inc("/api/v1/auth/login/", model.SeverityInfo)
	rep.Inc("/admin/dashboard/", model.SeverityError)

	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(rep); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[1] != "Total Requests:     3" {
		t.Errorf("unexpected total line %q", lines[1])
	}
	if lines[5] != "/admin/dashboard/    0        0        0        2        0       " {
		t.Errorf("unexpected first row %q", lines[5])
	}
	if lines[6] != "/api/v1/auth/login/  1        0        0        0        0       " {
		t.Errorf("unexpected second row %q", lines[6])
	}
}

func TestTextRendererLongPathIsNotTruncated(t *testing.T) {
	rep := model.NewHandlerReport()
	long := "/api/v1/very/long/handler/path/"
	rep.Inc(long, model.SeverityWarning)

	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(rep); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), long+" 0        0        1       ") {
		t.Errorf("expected long path to overflow its column:\n%s", buf.String())
	}
}

func TestTextRendererEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextRenderer(&buf).Render(model.NewHandlerReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Total Requests:     0\n") {
		t.Errorf("expected zero total, got:\n%s", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 5 {
		t.Errorf("expected header only, got:\n%s", buf.String())
	}
}

func TestTextRendererIdempotent(t *testing.T) {
	rep := sampleReport()

	var first, second bytes.Buffer
	if err := NewTextRenderer(&first).Render(rep); err != nil {
		t.Fatal(err)
	}
	if err := NewTextRenderer(&second).Render(rep); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("rendering the same report twice produced different output")
	}
}

func TestTextRendererColorOnNonTerminal(t *testing.T) {
	rep := sampleReport()

	var plain, colored bytes.Buffer
	if err := NewTextRenderer(&plain).Render(rep); err != nil {
		t.Fatal(err)
	}
	if err := NewTextRenderer(&colored, WithColor(true)).Render(rep); err != nil {
		t.Fatal(err)
	}
	if plain.String() != colored.String() {
		t.Errorf("expected plain output for a non-terminal writer, got:\n%q", colored.String())
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer(&buf).Render(sampleReport()); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Total    int `json:"total"`
		Handlers []struct {
			Path   string         `json:"path"`
			Levels map[string]int `json:"levels"`
		} `json:"handlers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}

	if got.Total != 5 {
		t.Errorf("expected total 5, got %d", got.Total)
	}
	if len(got.Handlers) != 1 || got.Handlers[0].Path != "/api/v1/resource" {
		t.Fatalf("unexpected handlers %+v", got.Handlers)
	}
	if got.Handlers[0].Levels["CRITICAL"] != 1 {
		t.Errorf("expected CRITICAL=1, got %v", got.Handlers[0].Levels)
	}
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownRenderer(&buf).Render(sampleReport()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"## Handlers report", "Total requests: 5", "HANDLER", "CRITICAL", "`/api/v1/resource`"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, out)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		format string
		want   string
	}{
		{"", "*output.TextRenderer"},
		{"text", "*output.TextRenderer"},
		{"JSON", "*output.JSONRenderer"},
		{"markdown", "*output.MarkdownRenderer"},
	}
	for _, tt := range tests {
		r, err := New(tt.format, &buf, false)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.format, err)
		}
		switch r.(type) {
		case *TextRenderer:
			if tt.want != "*output.TextRenderer" {
				t.Errorf("New(%q): unexpected %T", tt.format, r)
			}
		case *JSONRenderer:
			if tt.want != "*output.JSONRenderer" {
				t.Errorf("New(%q): unexpected %T", tt.format, r)
			}
		case *MarkdownRenderer:
			if tt.want != "*output.MarkdownRenderer" {
				t.Errorf("New(%q): unexpected %T", tt.format, r)
			}
		}
	}

	if _, err := New("yaml", &buf, false); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
