package reports

import (
	"database/sql"
	"sort"
	"time"

	"olist-insights/pkg/models"
)

const hoursPerDay = 24

// DeliveryRow is delivery performance for one purchase month.
type DeliveryRow struct {
	Month            string          `json:"month"`
	Delivered        int             `json:"delivered_orders"`
	AvgActualDays    sql.NullFloat64 `json:"avg_actual_days"`
	AvgEstimatedDays sql.NullFloat64 `json:"avg_estimated_days"`
	LatePct          sql.NullFloat64 `json:"late_pct"`
}

// DeliveryPerformance compares actual against estimated delivery time
// per purchase month, over orders that actually reached the customer.
// Rates are invalid, not zero, when a month has no measurable orders.
func DeliveryPerformance(orders []models.OrderRecord) []DeliveryRow {
	type acc struct {
		delivered     int
		actualDays    float64
		estimated     int
		estimatedDays float64
		late          int
	}
	byMonth := map[string]*acc{}

	for _, o := range orders {
		if o.Status != "delivered" || !o.DeliveredAt.Valid {
			continue
		}
		month := o.PurchasedAt.Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
		}
		a.delivered++
		a.actualDays += o.DeliveredAt.Time.Sub(o.PurchasedAt).Hours() / hoursPerDay

		if o.EstimatedAt.Valid {
			a.estimated++
			a.estimatedDays += o.EstimatedAt.Time.Sub(o.PurchasedAt).Hours() / hoursPerDay
			if o.DeliveredAt.Time.After(o.EstimatedAt.Time) {
				a.late++
			}
		}
	}

	out := make([]DeliveryRow, 0, len(byMonth))
	for month, a := range byMonth {
		out = append(out, DeliveryRow{
			Month:            month,
			Delivered:        a.delivered,
			AvgActualDays:    ratio(a.actualDays, float64(a.delivered)),
			AvgEstimatedDays: ratio(a.estimatedDays, float64(a.estimated)),
			LatePct:          ratio(float64(a.late)*100, float64(a.estimated)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ratio divides and reports an invalid value on a zero denominator
// instead of crashing or faking a zero.
func ratio(num, den float64) sql.NullFloat64 {
	if den == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: num / den, Valid: true}
}

// weekStart truncates to the Monday of the timestamp's week, UTC date
// boundary.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}
