package rfm

import (
	"time"

	"olist-insights/pkg/models"
)

// Config carries the run parameters of the segmentation pipeline.
// The reference date is injected so recency never depends on the wall
// clock; rerunning over an unchanged snapshot reproduces the output.
type Config struct {
	ReferenceDate time.Time
	BucketCount   int
}

func (c Config) buckets() int {
	if c.BucketCount <= 0 {
		return 5
	}
	return c.BucketCount
}

// Result is the full pipeline output: per-customer segments plus the
// per-segment summary rows.
type Result struct {
	Segments []models.CustomerSegment
	Summary  []models.SegmentSummary
}

// Run executes Aggregator → Scorer → Classifier → Summary over a
// snapshot of qualifying order facts. An empty input yields an empty
// result, not an error.
func Run(facts []models.OrderFact, cfg Config) Result {
	aggregates := Aggregate(facts)
	scored := Score(aggregates, cfg.ReferenceDate, cfg.buckets())
	segments := ClassifyAll(scored)
	return Result{
		Segments: segments,
		Summary:  Summarize(segments),
	}
}
