package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"civiceye/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatPDF  ExportFormat = "pdf"
)

// ExportFile is a rendered report. Location is set once a sink stored it.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
	Location    string `json:"location,omitempty"`
}

type Exporter struct {
	Sink  utils.ExportSink
	Clock clockwork.Clock
	Log   *zap.Logger
}

func NewExporter(sink utils.ExportSink, clock clockwork.Clock, log *zap.Logger) *Exporter {
	return &Exporter{Sink: sink, Clock: clock, Log: log}
}

// Render serializes data in the requested format without storing it.
func (e *Exporter) Render(format ExportFormat, data any) (ExportFile, error) {
	name := "civiceye_report_" + e.Clock.Now().UTC().Format(dayLayout)
	switch format {
	case FormatJSON:
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return ExportFile{}, fmt.Errorf("render json: %w", err)
		}
		return ExportFile{Filename: name + ".json", ContentType: "application/json", Content: raw}, nil
	case FormatCSV:
		text, err := ToCSV(data)
		if err != nil {
			return ExportFile{}, fmt.Errorf("render csv: %w", err)
		}
		return ExportFile{Filename: name + ".csv", ContentType: "text/csv", Content: []byte(text)}, nil
	case FormatPDF:
		return ExportFile{}, ErrPDFNotImplemented
	}
	return ExportFile{}, fmt.Errorf("%q: %w", format, ErrUnknownExportFormat)
}

// Export renders data and hands it to the sink.
func (e *Exporter) Export(ctx context.Context, format ExportFormat, data any) (ExportFile, error) {
	f, err := e.Render(format, data)
	if err != nil {
		return f, err
	}
	if e.Sink != nil {
		loc, err := e.Sink.Put(ctx, f.Filename, f.ContentType, f.Content)
		if err != nil {
			return f, fmt.Errorf("store export: %w", err)
		}
		f.Location = loc
	}
	utils.ExportCount.WithLabelValues(string(format)).Inc()
	e.Log.Info("report_exported", zap.String("file", f.Filename), zap.String("location", f.Location), zap.Int("bytes", len(f.Content)))
	return f, nil
}

// ToCSV writes an array of objects as CSV with the first element's keys, in
// their JSON order, as the header. Anything that is not an array is
// returned as compact JSON.
func ToCSV(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return string(raw), nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return "", err
	}
	var headers []string
	if len(rows) > 0 {
		if headers, err = objectKeys(rows[0]); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		var fields map[string]json.RawMessage
		if len(row) > 0 && row[0] == '{' {
			if err := json.Unmarshal(row, &fields); err != nil {
				return "", err
			}
		}
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = csvCell(fields[h])
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func csvCell(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}

// objectKeys lists the keys of a JSON object in document order. Non-objects
// have no keys.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
