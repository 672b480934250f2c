package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/plotvista/plotvista/internal/export"
	"github.com/plotvista/plotvista/internal/lifecycle"
)

var exportClock = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func testPlot(number string, state lifecycle.SaleState) *lifecycle.Plot {
	return &lifecycle.Plot{
		ID:         "id-" + number,
		PlotNumber: number,
		Dimension:  "30x40",
		Area:       1200,
		Row:        0,
		Col:        1,
		State:      state,
	}
}

func booking(name, phone string) lifecycle.BookingRecord {
	return lifecycle.BookingRecord{Name: name, Phone: phone, BookingDate: exportClock}
}

func TestRowsAvailablePlot(t *testing.T) {
	rows := export.Rows("Sunrise Gardens", []*lifecycle.Plot{
		testPlot("1", lifecycle.Available{}),
	}, false)

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Status != "Available" || r.CustomerName != "" || r.TotalBookings != 0 {
		t.Errorf("Unexpected available row: %+v", r)
	}
	if r.Position != "Row 1, Col 2" {
		t.Errorf("Expected 1-based position, got %q", r.Position)
	}
	if r.PlotValue != "₹600,000" {
		t.Errorf("Unexpected plot value: %q", r.PlotValue)
	}
}

func TestRowsMultiBookingExpansion(t *testing.T) {
	plot := testPlot("2", lifecycle.Booked{Bookings: []lifecycle.BookingRecord{
		booking("Asha Rao", "9876543210"),
		booking("Vikram Shah", "9123456780"),
	}})

	expanded := export.Rows("Sunrise Gardens", []*lifecycle.Plot{plot}, true)
	if len(expanded) != 2 {
		t.Fatalf("Expected 2 rows expanded, got %d", len(expanded))
	}
	if expanded[0].MultipleBookings != "Booking 1 of 2" || expanded[1].MultipleBookings != "Booking 2 of 2" {
		t.Errorf("Unexpected booking labels: %q / %q", expanded[0].MultipleBookings, expanded[1].MultipleBookings)
	}
	if expanded[0].Remarks != "Multiple interested customers" {
		t.Errorf("Unexpected remarks: %q", expanded[0].Remarks)
	}

	collapsed := export.Rows("Sunrise Gardens", []*lifecycle.Plot{plot}, false)
	if len(collapsed) != 1 {
		t.Fatalf("Expected 1 collapsed row, got %d", len(collapsed))
	}
	r := collapsed[0]
	if r.CustomerName != "Asha Rao" || r.MultipleBookings != "Primary (2 total)" || r.TotalBookings != 2 {
		t.Errorf("Unexpected collapsed row: %+v", r)
	}
	if r.Remarks != "1 other interested customers" {
		t.Errorf("Unexpected collapsed remarks: %q", r.Remarks)
	}
}

func TestRowsAgreementAndRegistration(t *testing.T) {
	rows := export.Rows("Sunrise Gardens", []*lifecycle.Plot{
		testPlot("3", lifecycle.Agreement{Record: booking("Asha Rao", "9876543210")}),
		testPlot("4", lifecycle.Registration{Record: booking("Vikram Shah", "9123456780")}),
	}, false)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].AgreementDate != "2026-03-15" || rows[0].Remarks != "Agreement executed" {
		t.Errorf("Unexpected agreement row: %+v", rows[0])
	}
	if rows[1].RegistrationDate != "2026-03-15" || rows[1].Remarks != "Registration completed" {
		t.Errorf("Unexpected registration row: %+v", rows[1])
	}
}

func TestWriteCSV(t *testing.T) {
	rows := export.Rows("Sunrise, Gardens", []*lifecycle.Plot{
		testPlot("1", lifecycle.Booked{Bookings: []lifecycle.BookingRecord{booking(`Asha "AR" Rao`, "9876543210")}}),
	}, false)

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header plus 1 record, got %d", len(records))
	}
	if len(records[0]) != len(export.Header) {
		t.Errorf("Expected %d columns, got %d", len(export.Header), len(records[0]))
	}
	if records[0][0] != "Project Name" || records[0][len(export.Header)-1] != "Remarks" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	// Quoting survives commas and quotes in fields
	if records[1][0] != "Sunrise, Gardens" || !strings.Contains(records[1][6], `"AR"`) {
		t.Errorf("Unexpected data record: %v", records[1])
	}
}

func TestFilename(t *testing.T) {
	got := export.Filename(exportClock)
	if got != "plotvista-export-2026-03-15.csv" {
		t.Errorf("Unexpected filename: %q", got)
	}
}
