// Package reports builds the downloadable export artifacts. Both the
// workbook and the PDF are generated fresh from the filtered dataset on
// every request and held only in memory.
package reports

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"retail-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetFilteredData  = "Filtered Data"
	SheetRegionSales   = "Region Sales"
	SheetCategorySales = "Category Sales"
	SheetProfitLoss    = "Profit Loss"
)

const dateFormat = "2006-01-02"

// ExcelMIME is the content type of the exported workbook.
const ExcelMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var filteredDataHeader = []any{
	"Order Date", "Region", "Category", "Product", "Sales", "Profit",
	"Year", "Month", "Profit Status",
}

// BuildWorkbook assembles the four-sheet report: the filtered dataset
// plus the regional, category and profit/loss aggregates.
func BuildWorkbook(
	rows []models.Record,
	regions []models.RegionSales,
	categories []models.CategorySales,
	profitLoss []models.ProfitLoss,
) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetFilteredData); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetFilteredData, "A1", &filteredDataHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			rec.OrderDate.Format(dateFormat),
			rec.Region,
			rec.Category,
			rec.Product,
			rec.Sales,
			rec.Profit,
			rec.Year,
			rec.Month,
			rec.ProfitStatus,
		}
		if err := f.SetSheetRow(SheetFilteredData, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	regionRows := make([][]any, 0, len(regions))
	for _, r := range regions {
		regionRows = append(regionRows, []any{r.Region, r.Sales})
	}
	if err := writeAggregateSheet(f, SheetRegionSales, []any{"Region", "Sales"}, regionRows); err != nil {
		return nil, err
	}

	categoryRows := make([][]any, 0, len(categories))
	for _, c := range categories {
		categoryRows = append(categoryRows, []any{c.Category, c.Sales})
	}
	if err := writeAggregateSheet(f, SheetCategorySales, []any{"Category", "Sales"}, categoryRows); err != nil {
		return nil, err
	}

	plRows := make([][]any, 0, len(profitLoss))
	for _, pl := range profitLoss {
		plRows = append(plRows, []any{pl.Status, pl.Profit})
	}
	if err := writeAggregateSheet(f, SheetProfitLoss, []any{"Profit Status", "Profit"}, plRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f.WriteToBuffer()
}

func writeAggregateSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+2, sheet, err)
		}
	}
	return nil
}

// FormatAmount renders a monetary value with thousands separators and
// no decimals, matching the dashboard's KPI display.
func FormatAmount(v float64) string {
	neg := v < 0
	whole := fmt.Sprintf("%.0f", math.Abs(v))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}
