package reports

import (
	"sort"
	"time"

	"olist-insights/pkg/models"
)

// CategoryRow is the performance of one product category.
type CategoryRow struct {
	Category string  `json:"category"`
	Orders   int     `json:"orders"`
	Items    int     `json:"items"`
	Revenue  float64 `json:"revenue"`
	AvgPrice float64 `json:"avg_price"`
}

// CategoryPerformance aggregates order lines per category: distinct
// orders, item count, revenue (price plus freight) and average item
// price, highest revenue first.
func CategoryPerformance(items []models.ItemRecord) []CategoryRow {
	type acc struct {
		orders  map[string]bool
		items   int
		revenue float64
		price   float64
	}
	byCategory := map[string]*acc{}

	for _, it := range items {
		a, ok := byCategory[it.Category]
		if !ok {
			a = &acc{orders: map[string]bool{}}
			byCategory[it.Category] = a
		}
		a.orders[it.OrderID] = true
		a.items++
		a.revenue += it.Price + it.Freight
		a.price += it.Price
	}

	out := make([]CategoryRow, 0, len(byCategory))
	for name, a := range byCategory {
		out = append(out, CategoryRow{
			Category: name,
			Orders:   len(a.orders),
			Items:    a.items,
			Revenue:  a.revenue,
			AvgPrice: a.price / float64(a.items),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrendRow is one category-week with its trailing moving average.
type TrendRow struct {
	Category  string    `json:"category"`
	WeekStart time.Time `json:"week_start"`
	Revenue   float64   `json:"revenue"`
	MovingAvg float64   `json:"moving_avg"`
}

// DefaultTrendWindow is the moving-average span in weeks, current week
// included.
const DefaultTrendWindow = 4

// WeeklyCategoryTrend sums revenue per (category, week) and smooths it
// with a trailing moving average over the last window reported weeks of
// that category (ROWS BETWEEN window-1 PRECEDING AND CURRENT ROW).
func WeeklyCategoryTrend(items []models.ItemRecord, window int) []TrendRow {
	if window <= 0 {
		window = DefaultTrendWindow
	}

	type key struct {
		category string
		week     time.Time
	}
	revenue := map[key]float64{}
	weeksByCategory := map[string][]time.Time{}

	for _, it := range items {
		k := key{it.Category, weekStart(it.PurchasedAt)}
		if _, seen := revenue[k]; !seen {
			weeksByCategory[k.category] = append(weeksByCategory[k.category], k.week)
		}
		revenue[k] += it.Price + it.Freight
	}

	categories := make([]string, 0, len(weeksByCategory))
	for c := range weeksByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var out []TrendRow
	for _, c := range categories {
		weeks := weeksByCategory[c]
		sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

		for i, w := range weeks {
			lo := i - window + 1
			if lo < 0 {
				lo = 0
			}
			sum := 0.0
			for _, prev := range weeks[lo : i+1] {
				sum += revenue[key{c, prev}]
			}
			out = append(out, TrendRow{
				Category:  c,
				WeekStart: w,
				Revenue:   revenue[key{c, w}],
				MovingAvg: sum / float64(i+1-lo),
			})
		}
	}
	return out
}
