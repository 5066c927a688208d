package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"retail-dashboard/internal/charts"
	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
	"retail-dashboard/internal/observability"
	"retail-dashboard/internal/reports"
	"retail-dashboard/internal/services"
)

type ExportHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewExportHandlers(analytics *services.Analytics, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *ExportHandlers) filtered(r *http.Request) []models.Record {
	return h.analytics.Filter(SelectionFromQuery(r.URL.Query()))
}

// HandleExcelExport serves the four-sheet workbook built from the
// current filtered dataset.
func (h *ExportHandlers) HandleExcelExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	rows := h.filtered(r)

	buf, err := reports.BuildWorkbook(
		rows,
		services.RegionSales(rows),
		services.CategorySales(rows),
		services.ProfitLoss(rows),
	)
	if err != nil {
		h.logger.Error("excel export failed", "error", err, "request_id", requestID)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "report generation failed"), requestID)
		return
	}

	serveAttachment(w, buf, reports.ExcelMIME, "Retail_Sales_Report.xlsx")
}

// HandlePDFExport serves the summary document with the KPIs and the
// profit/loss table.
func (h *ExportHandlers) HandlePDFExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	rows := h.filtered(r)

	buf, err := reports.BuildSummaryPDF(services.KPIs(rows), services.ProfitLoss(rows))
	if err != nil {
		h.logger.Error("pdf export failed", "error", err, "request_id", requestID)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "report generation failed"), requestID)
		return
	}

	serveAttachment(w, buf, reports.PDFMIME, "Retail_Sales_Summary.pdf")
}

func serveAttachment(w http.ResponseWriter, buf *bytes.Buffer, mime, filename string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *ExportHandlers) HandleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(rows []models.Record, buf *bytes.Buffer) error {
		return charts.MonthlyTrendLine(services.MonthlyTrend(rows), buf)
	})
}

func (h *ExportHandlers) HandleRegionChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(rows []models.Record, buf *bytes.Buffer) error {
		return charts.RegionBars(services.RegionSales(rows), buf)
	})
}

func (h *ExportHandlers) HandleCategoryChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(rows []models.Record, buf *bytes.Buffer) error {
		return charts.CategoryDonut(services.CategorySales(rows), buf)
	})
}

func (h *ExportHandlers) HandleProfitLossChart(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(rows []models.Record, buf *bytes.Buffer) error {
		return charts.ProfitLossBars(services.ProfitLoss(rows), buf)
	})
}

func (h *ExportHandlers) serveChart(w http.ResponseWriter, r *http.Request, render func([]models.Record, *bytes.Buffer) error) {
	requestID := observability.GetRequestID(r.Context())

	var buf bytes.Buffer
	if err := render(h.filtered(r), &buf); err != nil {
		h.logger.Error("chart render failed", "path", r.URL.Path, "error", err, "request_id", requestID)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
