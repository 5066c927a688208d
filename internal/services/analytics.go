package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"retail-dashboard/internal/dataset"
	"retail-dashboard/internal/models"
)

const topLossLimit = 10

// Analytics owns the in-memory dataset. The dataset is replaced
// wholesale on upload; every aggregate is recomputed from the current
// filtered rows on each request, nothing derived is cached.
type Analytics struct {
	mu       sync.RWMutex
	records  []models.Record
	options  models.FilterOptions
	loadedAt time.Time
	logger   *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		logger: slog.Default(),
	}
}

// SetData installs a new dataset and recomputes the distinct filter
// values. Replaces any previously loaded dataset atomically.
func (a *Analytics) SetData(records []models.Record) {
	options := distinctValues(records)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = records
	a.options = options
	a.loadedAt = time.Now()
}

// LoadFromFile preloads a dataset from disk at startup. Uploads go
// through the same parsers via the upload handler.
func (a *Analytics) LoadFromFile(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	start := time.Now()
	records, err := dataset.Load(ctx, filename, file)
	if err != nil {
		return err
	}

	a.SetData(records)
	a.logger.Info("dataset loaded",
		"filename", filename,
		"records", len(records),
		"duration", time.Since(start),
	)
	return nil
}

func (a *Analytics) HasData() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records) > 0
}

func (a *Analytics) Options() models.FilterOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.options
}

// Filter returns the subset of rows whose Region and Category are both
// in the selection. A nil slice selects every observed value; an empty
// non-nil slice selects nothing.
func (a *Analytics) Filter(sel models.FilterSelection) []models.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	regions := toSet(sel.Regions)
	categories := toSet(sel.Categories)

	filtered := make([]models.Record, 0, len(a.records))
	for _, rec := range a.records {
		if regions != nil {
			if _, ok := regions[rec.Region]; !ok {
				continue
			}
		}
		if categories != nil {
			if _, ok := categories[rec.Category]; !ok {
				continue
			}
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

func toSet(values []string) map[string]struct{} {
	if values == nil {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func distinctValues(records []models.Record) models.FilterOptions {
	var options models.FilterOptions
	seenRegions := make(map[string]struct{})
	seenCategories := make(map[string]struct{})

	for _, rec := range records {
		if _, ok := seenRegions[rec.Region]; !ok {
			seenRegions[rec.Region] = struct{}{}
			options.Regions = append(options.Regions, rec.Region)
		}
		if _, ok := seenCategories[rec.Category]; !ok {
			seenCategories[rec.Category] = struct{}{}
			options.Categories = append(options.Categories, rec.Category)
		}
	}
	return options
}

// KPIs computes the three scalar metrics over the filtered rows.
func KPIs(rows []models.Record) models.KPI {
	var kpi models.KPI
	for _, rec := range rows {
		kpi.TotalSales += rec.Sales
		kpi.TotalProfit += rec.Profit
	}
	kpi.TotalOrders = len(rows)
	return kpi
}

// MonthlyTrend groups sales by (Year, Month), ordered by year then
// calendar month.
func MonthlyTrend(rows []models.Record) []models.MonthlySales {
	type key struct {
		year  int
		month time.Month
	}

	groups := make(map[key]float64)
	for _, rec := range rows {
		groups[key{rec.Year, rec.OrderDate.Month()}] += rec.Sales
	}

	result := make([]models.MonthlySales, 0, len(groups))
	for k, sales := range groups {
		result = append(result, models.MonthlySales{
			Year:  k.year,
			Month: k.month.String(),
			Sales: sales,
		})
	}
	slices.SortFunc(result, func(a, b models.MonthlySales) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return int(monthNumber(a.Month)) - int(monthNumber(b.Month))
	})
	return result
}

func monthNumber(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m
		}
	}
	return 0
}

// RegionSales groups sales by Region, ordered by region name.
func RegionSales(rows []models.Record) []models.RegionSales {
	groups := make(map[string]float64)
	for _, rec := range rows {
		groups[rec.Region] += rec.Sales
	}

	result := make([]models.RegionSales, 0, len(groups))
	for region, sales := range groups {
		result = append(result, models.RegionSales{Region: region, Sales: sales})
	}
	slices.SortFunc(result, func(a, b models.RegionSales) int {
		return strings.Compare(a.Region, b.Region)
	})
	return result
}

// CategorySales groups sales by Category, ordered by category name.
func CategorySales(rows []models.Record) []models.CategorySales {
	groups := make(map[string]float64)
	for _, rec := range rows {
		groups[rec.Category] += rec.Sales
	}

	result := make([]models.CategorySales, 0, len(groups))
	for category, sales := range groups {
		result = append(result, models.CategorySales{Category: category, Sales: sales})
	}
	slices.SortFunc(result, func(a, b models.CategorySales) int {
		return strings.Compare(a.Category, b.Category)
	})
	return result
}

// ProfitLoss sums Profit per status label. Zero profit counts as Loss
// since the classifier is strictly greater-than. Labels sort
// alphabetically so "Loss" precedes "Profit" when both are present.
func ProfitLoss(rows []models.Record) []models.ProfitLoss {
	groups := make(map[string]float64)
	for _, rec := range rows {
		groups[rec.ProfitStatus] += rec.Profit
	}

	result := make([]models.ProfitLoss, 0, len(groups))
	for status, profit := range groups {
		result = append(result, models.ProfitLoss{Status: status, Profit: profit})
	}
	slices.SortFunc(result, func(a, b models.ProfitLoss) int {
		return strings.Compare(a.Status, b.Status)
	})
	return result
}

// TopLossProducts sums Profit per product over loss-making rows only,
// most negative first, capped at ten. Ties keep first-appearance order.
func TopLossProducts(rows []models.Record) []models.LossProduct {
	groups := make(map[string]float64)
	firstSeen := make(map[string]int)

	for i, rec := range rows {
		if rec.Profit >= 0 {
			continue
		}
		if _, ok := groups[rec.Product]; !ok {
			firstSeen[rec.Product] = i
		}
		groups[rec.Product] += rec.Profit
	}

	result := make([]models.LossProduct, 0, len(groups))
	for product, profit := range groups {
		result = append(result, models.LossProduct{Product: product, Profit: profit})
	}
	slices.SortFunc(result, func(a, b models.LossProduct) int {
		if a.Profit < b.Profit {
			return -1
		}
		if a.Profit > b.Profit {
			return 1
		}
		return firstSeen[a.Product] - firstSeen[b.Product]
	})

	if len(result) > topLossLimit {
		result = result[:topLossLimit]
	}
	return result
}

// Stats reports dataset-level counters for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count": len(a.records),
		"loaded_at":    a.loadedAt,
		"regions":      len(a.options.Regions),
		"categories":   len(a.options.Categories),
	}
}
