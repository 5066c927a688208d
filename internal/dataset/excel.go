package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first worksheet of an Excel workbook using the
// same column mapping as the CSV loader.
func LoadXLSX(ctx context.Context, r io.Reader) ([]models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ParseWrap(err, "unable to open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Parse("workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseWrap(err, fmt.Sprintf("unable to read worksheet %q", sheets[0]))
	}
	if len(rows) == 0 {
		return nil, errors.Parse("dataset is empty or has no header row")
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isEmptyRow(row) {
			continue
		}

		rec, err := parseRecord(i+2, row, cols)
		if err != nil {
			return nil, errors.ParseWrap(err, "invalid record in dataset")
		}
		records = append(records, rec)
	}

	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Load dispatches on the uploaded file's extension. CSV and XLSX are
// the two accepted encodings.
func Load(ctx context.Context, filename string, r io.Reader) ([]models.Record, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LoadCSV(ctx, r)
	case ".xlsx":
		return LoadXLSX(ctx, r)
	default:
		return nil, errors.BadRequest(fmt.Sprintf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename)))
	}
}
