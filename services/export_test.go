package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"civiceye/models"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type memorySink struct {
	files map[string][]byte
}

func (m *memorySink) Put(_ context.Context, filename, _ string, content []byte) (string, error) {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filename] = content
	return "mem://" + filename, nil
}

func newExporter(sink *memorySink) *Exporter {
	return NewExporter(sink, clockwork.NewFakeClockAt(testNow), zap.NewNop())
}

func TestToCSV_ArrayUsesFirstElementKeys(t *testing.T) {
	rows := []models.LocationStat{
		{Location: "Lima, Centro", Count: 3, RecoveryRate: 50},
		{Location: "Cusco", Count: 1},
	}
	got, err := ToCSV(rows)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	want := "location,count,recoveryRate,avgResponseTime\n" +
		"\"Lima, Centro\",3,50,0\n" +
		"Cusco,1,0,0"
	if got != want {
		t.Errorf("ToCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestToCSV_MissingAndNestedValues(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": []int{1, 2}},
		{"a": nil},
	}
	got, err := ToCSV(rows)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	want := "a,b\n1,\"[1,2]\"\n,"
	if got != want {
		t.Errorf("ToCSV = %q, want %q", got, want)
	}
}

func TestToCSV_NonArrayIsCompactJSON(t *testing.T) {
	got, err := ToCSV(map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	if got != `{"x":1}` {
		t.Errorf("ToCSV = %q", got)
	}
}

func TestExporter_JSONRoundTrip(t *testing.T) {
	sink := &memorySink{}
	data := models.AnalyticsData{TotalUsers: 3, RecoveryRate: 12.5}

	f, err := newExporter(sink).Export(context.Background(), FormatJSON, data)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if f.Filename != "civiceye_report_2026-10-18.json" {
		t.Errorf("Filename = %q", f.Filename)
	}
	if f.Location != "mem://civiceye_report_2026-10-18.json" {
		t.Errorf("Location = %q", f.Location)
	}
	if !strings.Contains(string(f.Content), "\n  \"totalUsers\": 3") {
		t.Errorf("content not 2-space indented:\n%s", f.Content)
	}
	var back models.AnalyticsData
	if err := json.Unmarshal(sink.files[f.Filename], &back); err != nil {
		t.Fatalf("unmarshal stored file: %v", err)
	}
	if back.TotalUsers != 3 || back.RecoveryRate != 12.5 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestExporter_Formats(t *testing.T) {
	e := newExporter(&memorySink{})
	if _, err := e.Render(FormatPDF, nil); !errors.Is(err, ErrPDFNotImplemented) {
		t.Errorf("pdf err = %v, want ErrPDFNotImplemented", err)
	}
	if _, err := e.Render("xlsx", nil); !errors.Is(err, ErrUnknownExportFormat) {
		t.Errorf("xlsx err = %v, want ErrUnknownExportFormat", err)
	}
	f, err := e.Render(FormatCSV, []models.DailyStat{{Date: "2026-10-18"}})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if f.Filename != "civiceye_report_2026-10-18.csv" || f.ContentType != "text/csv" {
		t.Errorf("csv file = %s (%s)", f.Filename, f.ContentType)
	}
}
