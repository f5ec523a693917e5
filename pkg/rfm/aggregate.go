package rfm

import (
	"sort"

	"olist-insights/pkg/models"
)

// Aggregate collapses order facts into exactly one aggregate per
// distinct customer id present in the input. An order id seen twice for
// the same customer is counted once, so frequency and monetary stay
// order-level even if the fact feed repeats rows. Customers without
// qualifying orders simply never appear; there is no zero-fill.
func Aggregate(facts []models.OrderFact) []models.CustomerAggregate {
	byCustomer := map[string]*models.CustomerAggregate{}
	seenOrders := map[string]map[string]bool{}

	for _, f := range facts {
		agg, ok := byCustomer[f.CustomerID]
		if !ok {
			agg = &models.CustomerAggregate{CustomerID: f.CustomerID}
			byCustomer[f.CustomerID] = agg
			seenOrders[f.CustomerID] = map[string]bool{}
		}

		if f.PurchasedAt.After(agg.LastPurchaseAt) {
			agg.LastPurchaseAt = f.PurchasedAt
		}

		if seenOrders[f.CustomerID][f.OrderID] {
			continue
		}
		seenOrders[f.CustomerID][f.OrderID] = true

		agg.Frequency++
		agg.Monetary += f.Monetary
	}

	out := make([]models.CustomerAggregate, 0, len(byCustomer))
	for _, agg := range byCustomer {
		out = append(out, *agg)
	}
	// Stable output order regardless of map iteration.
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out
}
