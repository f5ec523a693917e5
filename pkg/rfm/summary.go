package rfm

import (
	"sort"

	"olist-insights/pkg/models"
)

// Summarize groups labeled customers by segment and reports count plus
// the per-dimension averages, largest segments first (name breaks
// ties so the ordering is total).
func Summarize(segments []models.CustomerSegment) []models.SegmentSummary {
	type acc struct {
		count    int
		recency  int
		freq     int
		monetary float64
	}
	bySegment := map[string]*acc{}

	for _, s := range segments {
		a, ok := bySegment[s.Segment]
		if !ok {
			a = &acc{}
			bySegment[s.Segment] = a
		}
		a.count++
		a.recency += s.RecencyDays
		a.freq += s.Frequency
		a.monetary += s.Monetary
	}

	out := make([]models.SegmentSummary, 0, len(bySegment))
	for name, a := range bySegment {
		n := float64(a.count)
		out = append(out, models.SegmentSummary{
			Segment:        name,
			CustomerCount:  a.count,
			AvgRecencyDays: float64(a.recency) / n,
			AvgFrequency:   float64(a.freq) / n,
			AvgMonetary:    a.monetary / n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CustomerCount != out[j].CustomerCount {
			return out[i].CustomerCount > out[j].CustomerCount
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
