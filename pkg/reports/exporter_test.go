package reports

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"olist-insights/pkg/models"
)

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "payments.json")
	rows := []PaymentTypeRow{{Type: "credit_card", Payments: 3, TotalValue: 120}}
	if err := ExportJSON(path, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var back []PaymentTypeRow
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(back) != 1 || back[0].Type != "credit_card" {
		t.Fatalf("bad export content: %v", back)
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "funnel.csv")
	err := ExportCSV(path, []string{"stage", "orders"}, [][]string{{"created", "4"}, {"approved", "3"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 || lines[0] != "stage,orders" {
		t.Fatalf("bad csv content: %q", raw)
	}
}

func TestCSVTable_SegmentSummary(t *testing.T) {
	header, rows, err := CSVTable([]models.SegmentSummary{
		{Segment: "Champions", CustomerCount: 2, AvgRecencyDays: 3.5, AvgFrequency: 8, AvgMonetary: 950},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header[0] != "segment_name" || len(header) != 5 {
		t.Fatalf("bad header: %v", header)
	}
	if len(rows) != 1 || rows[0][0] != "Champions" || rows[0][1] != "2" {
		t.Fatalf("bad rows: %v", rows)
	}
}

func TestCSVTable_UndefinedRatesRenderNA(t *testing.T) {
	_, rows, err := CSVTable([]DeliveryRow{{Month: "2018-03", Delivered: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0][2] != "n/a" || rows[0][4] != "n/a" {
		t.Fatalf("undefined rates must render as n/a: %v", rows[0])
	}
}

func TestCSVTable_UnknownPayload(t *testing.T) {
	if _, _, err := CSVTable(struct{}{}); err == nil {
		t.Fatal("expected error for unknown payload type, got nil")
	}
}

func TestExportCSV_FromCSVTable(t *testing.T) {
	header, rows, err := CSVTable([]FunnelStage{
		{Stage: "created", Orders: 4},
		{Stage: "approved", Orders: 3, ConversionPct: sql.NullFloat64{Float64: 75, Valid: true}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "funnel.csv")
	if err := ExportCSV(path, header, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 || lines[0] != "stage,orders,conversion_pct" {
		t.Fatalf("bad csv content: %q", raw)
	}
	if lines[1] != "created,4,n/a" || lines[2] != "approved,3,75.00" {
		t.Fatalf("bad csv rows: %q", raw)
	}
}

func TestTimestampedFilename(t *testing.T) {
	name := TimestampedFilename("reports", "rfm", "json")
	if !strings.HasPrefix(name, filepath.Join("reports", "rfm_")) || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected filename: %s", name)
	}
}
