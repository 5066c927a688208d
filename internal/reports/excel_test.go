package reports

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"retail-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

func reportRecords() []models.Record {
	mk := func(date, region, category, product string, sales, profit float64) models.Record {
		t, _ := time.Parse("2006-01-02", date)
		status := models.StatusLoss
		if profit > 0 {
			status = models.StatusProfit
		}
		return models.Record{
			OrderDate:    t,
			Region:       region,
			Category:     category,
			Product:      product,
			Sales:        sales,
			Profit:       profit,
			Year:         t.Year(),
			Month:        t.Month().String(),
			ProfitStatus: status,
		}
	}
	return []models.Record{
		mk("2023-01-15", "East", "Furniture", "Desk", 500, 50),
		mk("2023-02-05", "West", "Technology", "Phone", 800, -20),
	}
}

func TestBuildWorkbook(t *testing.T) {
	rows := reportRecords()
	regions := []models.RegionSales{{Region: "East", Sales: 500}, {Region: "West", Sales: 800}}
	categories := []models.CategorySales{{Category: "Furniture", Sales: 500}, {Category: "Technology", Sales: 800}}
	profitLoss := []models.ProfitLoss{{Status: "Loss", Profit: -20}, {Status: "Profit", Profit: 50}}

	buf, err := BuildWorkbook(rows, regions, categories, profitLoss)
	if err != nil {
		t.Fatalf("BuildWorkbook() failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("workbook does not reopen: %v", err)
	}
	defer f.Close()

	wantSheets := []string{SheetFilteredData, SheetRegionSales, SheetCategorySales, SheetProfitLoss}
	sheets := f.GetSheetList()
	if len(sheets) != len(wantSheets) {
		t.Fatalf("expected sheets %v, got %v", wantSheets, sheets)
	}
	for i, name := range wantSheets {
		if sheets[i] != name {
			t.Errorf("sheet[%d] = %q, want %q", i, sheets[i], name)
		}
	}
}

// Exporting then re-reading the filtered data sheet must reproduce the
// filtered dataset.
func TestBuildWorkbook_RoundTrip(t *testing.T) {
	rows := reportRecords()

	buf, err := BuildWorkbook(rows, nil, nil, nil)
	if err != nil {
		t.Fatalf("BuildWorkbook() failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cells, err := f.GetRows(SheetFilteredData)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != len(rows)+1 {
		t.Fatalf("expected %d rows incl. header, got %d", len(rows)+1, len(cells))
	}

	for i, rec := range rows {
		row := cells[i+1]
		if row[0] != rec.OrderDate.Format("2006-01-02") {
			t.Errorf("row %d date = %q, want %q", i, row[0], rec.OrderDate.Format("2006-01-02"))
		}
		if row[1] != rec.Region || row[2] != rec.Category || row[3] != rec.Product {
			t.Errorf("row %d categorical fields = %v, want %v/%v/%v", i, row[1:4], rec.Region, rec.Category, rec.Product)
		}
		sales, err := strconv.ParseFloat(row[4], 64)
		if err != nil || sales != rec.Sales {
			t.Errorf("row %d sales = %q, want %v", i, row[4], rec.Sales)
		}
		profit, err := strconv.ParseFloat(row[5], 64)
		if err != nil || profit != rec.Profit {
			t.Errorf("row %d profit = %q, want %v", i, row[5], rec.Profit)
		}
		if row[8] != rec.ProfitStatus {
			t.Errorf("row %d status = %q, want %q", i, row[8], rec.ProfitStatus)
		}
	}
}

func TestBuildWorkbook_AggregateSheets(t *testing.T) {
	profitLoss := []models.ProfitLoss{{Status: "Loss", Profit: -75}, {Status: "Profit", Profit: 200}}

	buf, err := BuildWorkbook(nil, nil, nil, profitLoss)
	if err != nil {
		t.Fatalf("BuildWorkbook() failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cells, err := f.GetRows(SheetProfitLoss)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(cells))
	}
	if cells[1][0] != "Loss" || cells[2][0] != "Profit" {
		t.Errorf("profit/loss rows wrong: %v", cells[1:])
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-75321, "-75,321"},
		{1234.6, "1,235"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
