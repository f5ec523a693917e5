package reports

import (
	"database/sql"
	"sort"

	"olist-insights/pkg/models"
)

// FunnelStage is one step of the order lifecycle with its conversion
// against the previous step.
type FunnelStage struct {
	Stage         string          `json:"stage"`
	Orders        int             `json:"orders"`
	ConversionPct sql.NullFloat64 `json:"conversion_pct"`
}

// Funnel counts how many orders reached each lifecycle milestone. A
// milestone is "reached" when its timestamp is present, so cancelled
// orders drop out at whatever point they stalled. Conversion of the
// first stage is undefined.
func Funnel(orders []models.OrderRecord) []FunnelStage {
	created, approved, shipped, delivered := len(orders), 0, 0, 0
	for _, o := range orders {
		if o.ApprovedAt.Valid {
			approved++
		}
		if o.ShippedAt.Valid {
			shipped++
		}
		if o.DeliveredAt.Valid {
			delivered++
		}
	}

	counts := []struct {
		stage string
		n     int
	}{
		{"created", created},
		{"approved", approved},
		{"shipped", shipped},
		{"delivered", delivered},
	}

	out := make([]FunnelStage, len(counts))
	for i, c := range counts {
		row := FunnelStage{Stage: c.stage, Orders: c.n}
		if i > 0 {
			row.ConversionPct = ratio(float64(c.n)*100, float64(counts[i-1].n))
		}
		out[i] = row
	}
	return out
}

// PairRow is one co-purchased product pair.
type PairRow struct {
	ProductA string `json:"product_a"`
	ProductB string `json:"product_b"`
	Orders   int    `json:"orders"`
}

// CoPurchasePairs counts unordered product pairs appearing in the same
// order, once per order however many units each line carries. Pairs are
// canonicalized lexicographically, most frequent first; topK <= 0 means
// no cap.
func CoPurchasePairs(items []models.ItemRecord, topK int) []PairRow {
	productsByOrder := map[string]map[string]bool{}
	for _, it := range items {
		set, ok := productsByOrder[it.OrderID]
		if !ok {
			set = map[string]bool{}
			productsByOrder[it.OrderID] = set
		}
		set[it.ProductID] = true
	}

	type pair struct{ a, b string }
	counts := map[pair]int{}
	for _, set := range productsByOrder {
		if len(set) < 2 {
			continue
		}
		products := make([]string, 0, len(set))
		for p := range set {
			products = append(products, p)
		}
		sort.Strings(products)
		for i := 0; i < len(products); i++ {
			for j := i + 1; j < len(products); j++ {
				counts[pair{products[i], products[j]}]++
			}
		}
	}

	out := make([]PairRow, 0, len(counts))
	for p, n := range counts {
		out = append(out, PairRow{ProductA: p.a, ProductB: p.b, Orders: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		if out[i].ProductA != out[j].ProductA {
			return out[i].ProductA < out[j].ProductA
		}
		return out[i].ProductB < out[j].ProductB
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
