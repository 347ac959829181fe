package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"contract-claims-api/models"
)

func TestReportFilename(t *testing.T) {
	got := ReportFilename(time.Date(2025, time.November, 21, 15, 4, 5, 0, time.UTC))
	if got != "HR_Report_20251121.pdf" {
		t.Errorf("unexpected filename %s", got)
	}
}

func TestNewExporter_InvalidInput(t *testing.T) {
	if _, err := NewExporter("not a locale!", "ZAR"); err == nil {
		t.Error("expected locale error")
	}
	if _, err := NewExporter("en-ZA", "XYZ1"); err == nil {
		t.Error("expected currency error")
	}
}

func TestExporter_FormatAmount(t *testing.T) {
	e, err := NewExporter("en-US", "USD")
	if err != nil {
		t.Fatal(err)
	}
	got := e.FormatAmount(4500)
	if !strings.Contains(got, "$") || !strings.Contains(got, "4,500") {
		t.Errorf("unexpected amount %q", got)
	}
}

func TestExporter_WritePDF(t *testing.T) {
	e, err := NewExporter("en-ZA", "ZAR")
	if err != nil {
		t.Fatal(err)
	}
	when := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	groups := Aggregate([]models.Claim{
		{ID: 1, FullName: "Swazi Bhengu", ModuleCode: "PROG6212", HoursWorked: 10, Total: 3300, Status: models.StatusApproved, SubmissionDate: when},
		{ID: 2, FullName: "Swazi Bhengu", HoursWorked: 5, Total: 1650, Status: models.StatusPending, SubmissionDate: when},
	}, Filter{})

	var buf bytes.Buffer
	if err := e.WritePDF(&buf, groups, Filter{Month: 3, Year: 2025}, when); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}

	buf.Reset()
	if err := e.WritePDF(&buf, nil, Filter{}, when); err != nil {
		t.Fatalf("WritePDF empty: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty report should still render a document")
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := map[Filter]string{
		{}:                      "All periods",
		{Month: 3}:              "March, all years",
		{Year: 2025}:            "Year 2025",
		{Month: 11, Year: 2025}: "November 2025",
	}
	for f, want := range tests {
		if got := periodLabel(f); got != want {
			t.Errorf("periodLabel(%+v) = %q, want %q", f, got, want)
		}
	}
}
