// Package charts renders the dashboard visualizations as PNG images.
// Empty aggregates degrade to a blank image rather than an error so the
// dashboard stays usable when a filter selection matches nothing.
package charts

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"time"

	"retail-dashboard/internal/models"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 720
	chartHeight = 360
)

// MonthlyTrendLine draws one line series per year over a month axis.
func MonthlyTrendLine(trend []models.MonthlySales, w io.Writer) error {
	if len(trend) < 2 {
		return writeBlankPNG(w)
	}

	type point struct {
		month time.Month
		sales float64
	}
	years := make(map[int][]point)
	monthsSeen := make(map[time.Month]struct{})
	var yearOrder []int

	for _, row := range trend {
		m := monthIndex(row.Month)
		if _, ok := years[row.Year]; !ok {
			yearOrder = append(yearOrder, row.Year)
		}
		years[row.Year] = append(years[row.Year], point{month: m, sales: row.Sales})
		monthsSeen[m] = struct{}{}
	}

	var series []chart.Series
	for _, year := range yearOrder {
		points := years[year]
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = float64(p.month)
			ys[i] = p.sales
		}
		if len(xs) == 1 {
			// A one-month year still needs a drawable segment.
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    strconv.Itoa(year),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: 2.5, DotWidth: 3},
		})
	}

	var ticks []chart.Tick
	for m := time.January; m <= time.December; m++ {
		if _, ok := monthsSeen[m]; ok {
			ticks = append(ticks, chart.Tick{Value: float64(m), Label: m.String()[:3]})
		}
	}

	ch := chart.Chart{
		Title:      "Monthly Sales Trend",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 12}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis:      chart.YAxis{Name: "Sales"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

// RegionBars draws total sales per region.
func RegionBars(data []models.RegionSales, w io.Writer) error {
	if len(data) == 0 {
		return writeBlankPNG(w)
	}

	bars := make([]chart.Value, 0, len(data))
	for _, row := range data {
		bars = append(bars, chart.Value{Label: row.Region, Value: row.Sales})
	}

	ch := chart.BarChart{
		Title:      "Sales by Region",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   48,
		Background: chart.Style{Padding: chart.Box{Top: 30}},
		Bars:       bars,
	}
	return ch.Render(chart.PNG, w)
}

// CategoryDonut draws the category share of sales. Non-positive slices
// are skipped since a donut segment has no meaningful negative extent.
func CategoryDonut(data []models.CategorySales, w io.Writer) error {
	values := make([]chart.Value, 0, len(data))
	for _, row := range data {
		if row.Sales <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: row.Category, Value: row.Sales})
	}
	if len(values) == 0 {
		return writeBlankPNG(w)
	}

	ch := chart.DonutChart{
		Title:      "Category-wise Sales",
		Width:      chartHeight,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 30}},
		Values:     values,
	}
	return ch.Render(chart.PNG, w)
}

// ProfitLossBars draws the summed profit per status label. The loss bar
// is negative, so the axis range is stretched to keep zero visible.
func ProfitLossBars(data []models.ProfitLoss, w io.Writer) error {
	if len(data) == 0 {
		return writeBlankPNG(w)
	}

	bars := make([]chart.Value, 0, len(data))
	minV, maxV := 0.0, 0.0
	for _, row := range data {
		bars = append(bars, chart.Value{Label: row.Status, Value: row.Profit})
		if row.Profit < minV {
			minV = row.Profit
		}
		if row.Profit > maxV {
			maxV = row.Profit
		}
	}

	ch := chart.BarChart{
		Title:      "Profit vs Loss",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   64,
		Background: chart.Style{Padding: chart.Box{Top: 30}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: minV * 1.1, Max: maxV*1.1 + 1},
		},
		Bars: bars,
	}
	return ch.Render(chart.PNG, w)
}

func monthIndex(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m
		}
	}
	return time.January
}

func writeBlankPNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return png.Encode(w, img)
}
