package rfm

import "olist-insights/pkg/models"

// Segment labels produced by the rule table.
const (
	SegmentChampions     = "Champions"
	SegmentLoyal         = "Loyal Customers"
	SegmentRecent        = "Recent Customers"
	SegmentHighFrequency = "High Frequency Shoppers"
	SegmentHighValue     = "High Value Shoppers"
	SegmentHibernating   = "Hibernating"
	SegmentAtRisk        = "At-Risk Customers"
	SegmentStandard      = "Standard"
)

// segmentRule pairs one predicate with its label. Predicates overlap,
// so the table is evaluated top to bottom and the first match wins; the
// order is part of the contract, not an implementation detail.
type segmentRule struct {
	label string
	match func(c models.CustomerScored) bool
}

var segmentRules = []segmentRule{
	{SegmentChampions, func(c models.CustomerScored) bool { return c.RScore >= 4 && c.FScore >= 4 }},
	{SegmentLoyal, func(c models.CustomerScored) bool { return c.RScore >= 3 && c.FScore >= 3 }},
	{SegmentRecent, func(c models.CustomerScored) bool { return c.RScore >= 4 }},
	{SegmentHighFrequency, func(c models.CustomerScored) bool { return c.FScore >= 4 }},
	{SegmentHighValue, func(c models.CustomerScored) bool { return c.MScore >= 4 }},
	{SegmentHibernating, func(c models.CustomerScored) bool { return c.RScore <= 2 && c.FScore <= 2 }},
	{SegmentAtRisk, func(c models.CustomerScored) bool { return c.RScore <= 2 && c.FScore >= 3 }},
	{SegmentStandard, func(c models.CustomerScored) bool { return true }},
}

// Classify returns the label of the first rule the scored customer
// satisfies. The trailing catch-all makes this a total function.
func Classify(c models.CustomerScored) string {
	for _, rule := range segmentRules {
		if rule.match(c) {
			return rule.label
		}
	}
	return SegmentStandard
}

// ClassifyAll labels every scored customer. Rows are independent; no
// cross-row state is consulted.
func ClassifyAll(scored []models.CustomerScored) []models.CustomerSegment {
	out := make([]models.CustomerSegment, len(scored))
	for i, c := range scored {
		out[i] = models.CustomerSegment{CustomerScored: c, Segment: Classify(c)}
	}
	return out
}
