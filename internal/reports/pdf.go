package reports

import (
	"bytes"
	"fmt"
	"strconv"

	"retail-dashboard/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// PDFMIME is the content type of the exported summary document.
const PDFMIME = "application/pdf"

// BuildSummaryPDF renders the summary report: a title, the three KPIs
// as paragraphs, and the profit/loss aggregate as a table.
func BuildSummaryPDF(kpi models.KPI, profitLoss []models.ProfitLoss) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Retail Sales Analysis Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Retail Sales Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Sales: %s", FormatAmount(kpi.TotalSales)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Profit: %s", FormatAmount(kpi.TotalProfit)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Orders: %d", kpi.TotalOrders), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Profit vs Loss Summary", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	const (
		statusWidth = 60.0
		amountWidth = 60.0
		rowHeight   = 8.0
	)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(statusWidth, rowHeight, "Profit Status", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, "Profit", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range profitLoss {
		pdf.CellFormat(statusWidth, rowHeight, row.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(amountWidth, rowHeight, strconv.FormatFloat(row.Profit, 'f', 2, 64), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &buf, nil
}
