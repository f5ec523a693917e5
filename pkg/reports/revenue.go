package reports

import (
	"database/sql"
	"sort"

	"olist-insights/pkg/models"
)

// MonthlyRevenueRow is one month of revenue with the change against the
// previous reported month (LAG semantics: the prior row, not the prior
// calendar month).
type MonthlyRevenueRow struct {
	Month       string          `json:"month"`
	Orders      int             `json:"orders"`
	Revenue     float64         `json:"revenue"`
	PrevRevenue sql.NullFloat64 `json:"prev_revenue"`
	ChangePct   sql.NullFloat64 `json:"change_pct"`
}

// MonthlyRevenue sums qualifying order totals per purchase month and
// compares each month to the one before it. The change is undefined for
// the first month and for a zero-revenue predecessor.
func MonthlyRevenue(facts []models.OrderFact) []MonthlyRevenueRow {
	type acc struct {
		orders  int
		revenue float64
	}
	byMonth := map[string]*acc{}
	for _, f := range facts {
		month := f.PurchasedAt.Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &acc{}
			byMonth[month] = a
		}
		a.orders++
		a.revenue += f.Monetary
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthlyRevenueRow, 0, len(months))
	for i, m := range months {
		row := MonthlyRevenueRow{
			Month:   m,
			Orders:  byMonth[m].orders,
			Revenue: byMonth[m].revenue,
		}
		if i > 0 {
			prev := byMonth[months[i-1]].revenue
			row.PrevRevenue = sql.NullFloat64{Float64: prev, Valid: true}
			row.ChangePct = ratio((row.Revenue-prev)*100, prev)
		}
		out = append(out, row)
	}
	return out
}

// PaymentTypeRow summarizes one payment method.
type PaymentTypeRow struct {
	Type            string          `json:"payment_type"`
	Payments        int             `json:"payments"`
	Orders          int             `json:"orders"`
	TotalValue      float64         `json:"total_value"`
	AvgInstallments float64         `json:"avg_installments"`
	SharePct        sql.NullFloat64 `json:"share_pct"`
}

// PaymentSummary aggregates payment legs per method, highest total
// value first. Share is each method's slice of the grand total.
func PaymentSummary(payments []models.PaymentRecord) []PaymentTypeRow {
	type acc struct {
		payments     int
		orders       map[string]bool
		total        float64
		installments int
	}
	byType := map[string]*acc{}
	grandTotal := 0.0

	for _, p := range payments {
		a, ok := byType[p.Type]
		if !ok {
			a = &acc{orders: map[string]bool{}}
			byType[p.Type] = a
		}
		a.payments++
		a.orders[p.OrderID] = true
		a.total += p.Value
		a.installments += p.Installments
		grandTotal += p.Value
	}

	out := make([]PaymentTypeRow, 0, len(byType))
	for name, a := range byType {
		out = append(out, PaymentTypeRow{
			Type:            name,
			Payments:        a.payments,
			Orders:          len(a.orders),
			TotalValue:      a.total,
			AvgInstallments: float64(a.installments) / float64(a.payments),
			SharePct:        ratio(a.total*100, grandTotal),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalValue != out[j].TotalValue {
			return out[i].TotalValue > out[j].TotalValue
		}
		return out[i].Type < out[j].Type
	})
	return out
}
