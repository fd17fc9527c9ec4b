package encoding

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
)

// Format selects how results are written.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

// ParseFormat accepts json, csv or table; an empty string means json.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported format %q: must be one of json, csv, table", s)
	}
}

// ContentType returns the HTTP content type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTable:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// LineDocument is the JSON shape of one computed line.
type LineDocument struct {
	Label  string        `json:"label"`
	Kind   string        `json:"kind"`
	Peak   scenario.Peak `json:"peak"`
	Points []Point       `json:"points"`
}

// ResultDocument is the JSON shape of a computed scenario.
type ResultDocument struct {
	Name    string         `json:"name"`
	Title   string         `json:"title,omitempty"`
	Impact  float64        `json:"impact"`
	Periods int            `json:"periods"`
	Lines   []LineDocument `json:"lines"`
}

// NewResultDocument attaches period indices and labels to every line of r.
func NewResultDocument(r scenario.Result) ResultDocument {
	doc := ResultDocument{
		Name:    r.Name,
		Title:   r.Title,
		Impact:  r.Impact,
		Periods: r.Periods(),
		Lines:   make([]LineDocument, len(r.Lines)),
	}
	for i, line := range r.Lines {
		doc.Lines[i] = LineDocument{
			Label:  line.Label,
			Kind:   string(line.Kind),
			Peak:   line.Peak(),
			Points: Points(line.Values),
		}
	}
	return doc
}

// Encoder writes scenario results in a single format.
type Encoder struct {
	format Format
	indent bool
}

// NewEncoder returns an encoder for format. Indented JSON is meant for terminals.
func NewEncoder(format Format, indent bool) *Encoder {
	return &Encoder{format: format, indent: indent}
}

// Format reports the encoder's output format.
func (e *Encoder) Format() Format { return e.format }

// Encode writes r to w.
func (e *Encoder) Encode(w io.Writer, r scenario.Result) error {
	switch e.format {
	case FormatCSV:
		return writeCSV(w, r)
	case FormatTable:
		_, err := io.WriteString(w, RenderTable(r)+"\n")
		return err
	default:
		data, err := MarshalJSON(NewResultDocument(r))
		if err != nil {
			return err
		}
		if e.indent {
			var buf bytes.Buffer
			if err := json.Indent(&buf, data, "", "  "); err != nil {
				return err
			}
			data = buf.Bytes()
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	}
}

// writeCSV emits one row per line and period: line,period,value,label.
func writeCSV(w io.Writer, r scenario.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "period", "value", "label"}); err != nil {
		return err
	}
	for _, line := range r.Lines {
		for _, p := range Points(line.Values) {
			if err := cw.Write([]string{
				line.Label,
				strconv.Itoa(p.Period),
				strconv.FormatFloat(p.Value, 'f', -1, 64),
				p.Label,
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

// RenderTable lays r out with one row per period and one column per line.
// Shorter lines leave their trailing cells blank.
func RenderTable(r scenario.Result) string {
	headers := make([]string, 0, len(r.Lines)+1)
	headers = append(headers, "Period")
	for _, line := range r.Lines {
		headers = append(headers, line.Label)
	}

	rows := make([][]string, r.Periods())
	for i := range rows {
		row := make([]string, len(headers))
		row[0] = strconv.Itoa(i + 1)
		for j, line := range r.Lines {
			if i < len(line.Values) {
				row[j+1] = FormatLabel(line.Values[i])
			}
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	title := r.Title
	if title == "" {
		title = r.Name
	}
	return headerStyle.Render(title) + "\n" + t.String()
}

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// MarshalJSON encodes v through a pooled buffer without the trailing newline json.Encoder adds.
func MarshalJSON(v any) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
