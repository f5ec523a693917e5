package reports

import (
	"math"
	"sort"

	"olist-insights/pkg/models"
)

// GeoCellRow is order density for one grid cell.
type GeoCellRow struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	City   string  `json:"city"`
	State  string  `json:"state"`
	Orders int     `json:"orders"`
}

// OrderDensity buckets orders onto a lat/lng grid rounded to one
// decimal (roughly an 11 km cell) and counts orders per cell, densest
// first. The representative city/state is the lexicographically
// smallest (city, state) pair seen in the cell, which keeps reruns
// identical. topK <= 0 means no cap.
func OrderDensity(orders []models.GeoOrder, topK int) []GeoCellRow {
	type cell struct{ lat, lng float64 }
	type acc struct {
		orders int
		city   string
		state  string
	}
	byCell := map[cell]*acc{}

	for _, o := range orders {
		c := cell{gridRound(o.Lat), gridRound(o.Lng)}
		a, ok := byCell[c]
		if !ok {
			a = &acc{city: o.City, state: o.State}
			byCell[c] = a
		}
		a.orders++
		// One representative row per cell: city and state must come
		// from the same order, never mixed across orders.
		if o.City < a.city || (o.City == a.city && o.State < a.state) {
			a.city, a.state = o.City, o.State
		}
	}

	out := make([]GeoCellRow, 0, len(byCell))
	for c, a := range byCell {
		out = append(out, GeoCellRow{Lat: c.lat, Lng: c.lng, City: a.city, State: a.state, Orders: a.orders})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		if out[i].Lat != out[j].Lat {
			return out[i].Lat < out[j].Lat
		}
		return out[i].Lng < out[j].Lng
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

func gridRound(v float64) float64 {
	return math.Round(v*10) / 10
}
