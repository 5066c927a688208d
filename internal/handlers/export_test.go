package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"retail-dashboard/internal/reports"
	"github.com/xuri/excelize/v2"
)

func TestExportHandlers_HandleExcelExport(t *testing.T) {
	h := NewExportHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/export/report.xlsx?region=East", nil)
	rec := httptest.NewRecorder()
	h.HandleExcelExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != reports.ExcelMIME {
		t.Errorf("Content-Type = %q, want %q", ct, reports.ExcelMIME)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Retail_Sales_Report.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a readable workbook: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows(reports.SheetFilteredData)
	if err != nil {
		t.Fatal(err)
	}
	// East selection: two data rows plus header.
	if len(cells) != 3 {
		t.Errorf("filtered sheet has %d rows, want 3", len(cells))
	}
}

func TestExportHandlers_HandlePDFExport(t *testing.T) {
	h := NewExportHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/export/summary.pdf", nil)
	rec := httptest.NewRecorder()
	h.HandlePDFExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != reports.PDFMIME {
		t.Errorf("Content-Type = %q, want %q", ct, reports.PDFMIME)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("response body is not a PDF")
	}
}

func TestExportHandlers_ChartEndpoints(t *testing.T) {
	h := NewExportHandlers(createTestAnalytics(), testLogger())

	endpoints := map[string]http.HandlerFunc{
		"/charts/monthly.png":     h.HandleMonthlyChart,
		"/charts/regions.png":     h.HandleRegionChart,
		"/charts/categories.png":  h.HandleCategoryChart,
		"/charts/profit-loss.png": h.HandleProfitLossChart,
	}

	for target, handler := range endpoints {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", target, rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("GET %s Content-Type = %q, want image/png", target, ct)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("GET %s returned an empty body", target)
		}
	}
}

func TestExportHandlers_ChartsWithEmptySelection(t *testing.T) {
	h := NewExportHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/charts/regions.png?region=", nil)
	rec := httptest.NewRecorder()
	h.HandleRegionChart(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("empty selection should degrade gracefully, got status %d", rec.Code)
	}
}
