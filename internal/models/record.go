package models

import "time"

// Record is one sales transaction row from the uploaded dataset.
// Year, Month and ProfitStatus are derived once at load time.
type Record struct {
	OrderDate    time.Time `json:"order_date"`
	Region       string    `json:"region"`
	Category     string    `json:"category"`
	Product      string    `json:"product"`
	Sales        float64   `json:"sales"`
	Profit       float64   `json:"profit"`
	Year         int       `json:"year"`
	Month        string    `json:"month"`
	ProfitStatus string    `json:"profit_status"`
}

// FilterSelection restricts the dataset view by Region and Category.
// A nil slice means "all observed values"; an empty non-nil slice means
// nothing is selected and the filtered result is empty.
type FilterSelection struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

// FilterOptions are the distinct values available for filtering,
// in first-appearance order.
type FilterOptions struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

type KPI struct {
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
	TotalOrders int     `json:"total_orders"`
}

type MonthlySales struct {
	Year  int     `json:"year"`
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

type RegionSales struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

type ProfitLoss struct {
	Status string  `json:"status"`
	Profit float64 `json:"profit"`
}

type LossProduct struct {
	Product string  `json:"product"`
	Profit  float64 `json:"profit"`
}

const (
	StatusProfit = "Profit"
	StatusLoss   = "Loss"
)
