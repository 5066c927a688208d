package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 5000
	maxWorkers = 8
)

const (
	colOrderDate = "Order Date"
	colRegion    = "Region"
	colCategory  = "Category"
	colProduct   = "Product"
	colSales     = "Sales"
	colProfit    = "Profit"
)

var requiredColumns = []string{colOrderDate, colRegion, colCategory, colProduct, colSales, colProfit}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"02-01-2006",
}

// columnIndex maps each required column name to its position in the
// header row. Column order in the uploaded file is free.
type columnIndex map[string]int

func resolveColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(requiredColumns))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Parse(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	return idx, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseRecord converts one data row into a Record, deriving Year, Month
// and ProfitStatus. rowNum is 1-based and includes the header row so
// error messages point at the spreadsheet line the user sees.
func parseRecord(rowNum int, row []string, cols columnIndex) (models.Record, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	orderDate, err := parseDate(field(colOrderDate))
	if err != nil {
		return models.Record{}, fmt.Errorf("row %d: %w", rowNum, err)
	}

	sales, err := strconv.ParseFloat(field(colSales), 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("row %d: invalid Sales %q", rowNum, field(colSales))
	}

	profit, err := strconv.ParseFloat(field(colProfit), 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("row %d: invalid Profit %q", rowNum, field(colProfit))
	}

	rec := models.Record{
		OrderDate: orderDate,
		Region:    field(colRegion),
		Category:  field(colCategory),
		Product:   field(colProduct),
		Sales:     sales,
		Profit:    profit,
	}
	deriveFields(&rec)
	return rec, nil
}

func deriveFields(rec *models.Record) {
	rec.Year = rec.OrderDate.Year()
	rec.Month = rec.OrderDate.Month().String()
	if rec.Profit > 0 {
		rec.ProfitStatus = models.StatusProfit
	} else {
		rec.ProfitStatus = models.StatusLoss
	}
}

// LoadCSV reads an entire CSV dataset. Rows are parsed in batches on a
// worker pool, but the load is all-or-nothing: the first malformed row
// aborts the whole load with a parse error.
func LoadCSV(ctx context.Context, r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.ParseWrap(err, "dataset is empty or has no header row")
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	rowNum := 1 // header consumed

	batch := make([][]string, 0, batchSize)
	batchStart := rowNum + 1

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		parsed, err := parseBatch(ctx, batch, batchStart, cols)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		batchStart += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ParseWrap(err, fmt.Sprintf("malformed CSV near row %d", rowNum+1))
		}
		rowNum++

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return records, nil
}

// parseBatch parses one batch concurrently while preserving row order.
// Results land at their original index so the dataset keeps the file's
// row order, which later aggregations rely on for stable tie-breaking.
func parseBatch(ctx context.Context, batch [][]string, startRow int, cols columnIndex) ([]models.Record, error) {
	parsed := make([]models.Record, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, row := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := parseRecord(startRow+i, row, cols)
			if err != nil {
				return errors.ParseWrap(err, "invalid record in dataset")
			}
			parsed[i] = rec
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}
