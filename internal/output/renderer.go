package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/markdown"
)

// Output formats accepted by New.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes a HandlerReport to an output stream.
type Renderer interface {
	Render(rep *model.HandlerReport) error
}

// Formats lists every supported format name.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown}
}

// New returns the Renderer for format. color only affects the text format.
func New(format string, w io.Writer, color bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextRenderer(w, WithColor(color)), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (fixed-width table)
// ---------------------------------------------------------------------------

// Column widths are fixed and never derived from the data.
const (
	handlerWidth = 20
	headerWidth  = 6
	countWidth   = 8
)

// TextRenderer prints the report as an aligned table.
type TextRenderer struct {
	w     io.Writer
	color bool
}

// TextOption configures a TextRenderer.
type TextOption func(*TextRenderer)

// WithColor enables severity colors in the header and count cells.
// Writers that are not terminals still get plain text.
func WithColor(enabled bool) TextOption {
	return func(r *TextRenderer) {
		r.color = enabled
	}
}

// NewTextRenderer returns a Renderer that writes a text table to w.
func NewTextRenderer(w io.Writer, opts ...TextOption) *TextRenderer {
	r := &TextRenderer{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TextRenderer) Render(rep *model.HandlerReport) error {
	levels := model.Severities()
	st := plainPalette()
	if r.color {
		st = colorPalette(lipgloss.NewRenderer(r.w))
	}

	// Rule width follows the unstyled header row.
	plainHeader := fmt.Sprintf("%-*s ", handlerWidth, "HANDLER")
	styledHeader := st.header(plainHeader)
	cells := make([]string, len(levels))
	plainCells := make([]string, len(levels))
	for i, lvl := range levels {
		plainCells[i] = fmt.Sprintf("%-*s", headerWidth, lvl)
		cells[i] = st.level(lvl, plainCells[i])
	}
	plainHeader += strings.Join(plainCells, " ")
	styledHeader += strings.Join(cells, " ")
	width := len(plainHeader)

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", width) + "\n")
	sb.WriteString(st.header(fmt.Sprintf("%-*s", handlerWidth, "Total Requests:")) + strconv.Itoa(rep.Total) + "\n")
	sb.WriteString(strings.Repeat("=", width) + "\n")
	sb.WriteString(styledHeader + "\n")
	sb.WriteString(strings.Repeat("-", width) + "\n")

	for _, path := range rep.Paths() {
		sb.WriteString(fmt.Sprintf("%-*s ", handlerWidth, path))
		for i, lvl := range levels {
			if i > 0 {
				sb.WriteByte(' ')
			}
			n := rep.Count(path, lvl)
			cell := fmt.Sprintf("%-*d", countWidth, n)
			if n > 0 {
				cell = st.level(lvl, cell)
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// palette styles already padded cells so alignment never depends on escapes.
type palette struct {
	header func(string) string
	level  func(model.Severity, string) string
}

func plainPalette() palette {
	return palette{
		header: func(s string) string { return s },
		level:  func(_ model.Severity, s string) string { return s },
	}
}

func colorPalette(re *lipgloss.Renderer) palette {
	var (
		styleHeader   = re.NewStyle().Bold(true)
		styleInfo     = re.NewStyle().Foreground(lipgloss.Color("245")) // gray
		styleDebug    = re.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
		styleWarning  = re.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
		styleError    = re.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
		styleCritical = re.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("196")).
				Bold(true) // white on red
	)

	return palette{
		header: func(s string) string { return styleHeader.Render(s) },
		level: func(lvl model.Severity, s string) string {
			switch lvl {
			case model.SeverityDebug:
				return styleDebug.Render(s)
			case model.SeverityWarning:
				return styleWarning.Render(s)
			case model.SeverityError:
				return styleError.Render(s)
			case model.SeverityCritical:
				return styleCritical.Render(s)
			default:
				return styleInfo.Render(s)
			}
		},
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints the report as one indented JSON document.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONRenderer{enc: enc}
}

func (r *JSONRenderer) Render(rep *model.HandlerReport) error {
	return r.enc.Encode(rep)
}

// ---------------------------------------------------------------------------
// Markdown Renderer
// ---------------------------------------------------------------------------

// MarkdownRenderer prints the report as a GitHub-flavored markdown table.
type MarkdownRenderer struct {
	w io.Writer
}

// NewMarkdownRenderer returns a Renderer that writes markdown to w.
func NewMarkdownRenderer(w io.Writer) *MarkdownRenderer {
	return &MarkdownRenderer{w: w}
}

func (r *MarkdownRenderer) Render(rep *model.HandlerReport) error {
	levels := model.Severities()

	header := make([]string, 0, len(levels)+1)
	header = append(header, "HANDLER")
	for _, lvl := range levels {
		header = append(header, lvl.String())
	}

	rows := make([][]string, 0, rep.Len())
	for _, path := range rep.Paths() {
		row := make([]string, 0, len(levels)+1)
		row = append(row, "`"+path+"`")
		for _, lvl := range levels {
			row = append(row, strconv.Itoa(rep.Count(path, lvl)))
		}
		rows = append(rows, row)
	}

	md := markdown.NewMarkdown(r.w)
	md.H2("Handlers report")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("Total requests: %d", rep.Total))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
	return md.Build()
}
