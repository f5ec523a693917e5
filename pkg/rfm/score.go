package rfm

import (
	"sort"
	"time"

	"olist-insights/pkg/models"
)

// Score ranks the full population along each RFM dimension into
// NTILE-style quantile buckets. Scoring is population-relative, so it
// must see every aggregate before any bucket is final. Bucket 1 holds
// the most favorable rank positions (most recent purchase, highest
// frequency, highest spend); the classifier score inverts that to the
// conventional scale where bucketCount is best.
//
// Ties on the ranking key are broken by customer id, which makes bucket
// placement deterministic across runs; tied values can still straddle a
// bucket boundary, a known property of quantile bucketing.
func Score(aggs []models.CustomerAggregate, reference time.Time, bucketCount int) []models.CustomerScored {
	scored := make([]models.CustomerScored, len(aggs))
	for i, agg := range aggs {
		scored[i] = models.CustomerScored{
			CustomerAggregate: agg,
			RecencyDays:       wholeDays(reference, agg.LastPurchaseAt),
		}
	}

	rBuckets := bucketize(scored, bucketCount, func(a, b models.CustomerScored) bool {
		return a.LastPurchaseAt.After(b.LastPurchaseAt)
	})
	fBuckets := bucketize(scored, bucketCount, func(a, b models.CustomerScored) bool {
		return a.Frequency > b.Frequency
	})
	mBuckets := bucketize(scored, bucketCount, func(a, b models.CustomerScored) bool {
		return a.Monetary > b.Monetary
	})

	for i := range scored {
		scored[i].RBucket = rBuckets[i]
		scored[i].FBucket = fBuckets[i]
		scored[i].MBucket = mBuckets[i]
		scored[i].RScore = bucketCount + 1 - rBuckets[i]
		scored[i].FScore = bucketCount + 1 - fBuckets[i]
		scored[i].MScore = bucketCount + 1 - mBuckets[i]
	}
	return scored
}

func wholeDays(reference, at time.Time) int {
	return int(reference.Sub(at) / (24 * time.Hour))
}

// bucketize sorts the population by the given strict ordering (customer
// id as secondary key) and splits it into bucketCount contiguous groups
// whose sizes differ by at most one, exactly like SQL NTILE.
func bucketize(pop []models.CustomerScored, bucketCount int, better func(a, b models.CustomerScored) bool) []int {
	n := len(pop)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool {
		a, b := pop[order[x]], pop[order[y]]
		if better(a, b) {
			return true
		}
		if better(b, a) {
			return false
		}
		return a.CustomerID < b.CustomerID
	})

	buckets := make([]int, n)
	for rank, idx := range order {
		buckets[idx] = ntile(rank, n, bucketCount)
	}
	return buckets
}

// ntile maps a zero-based rank to its 1-based bucket: the first n%count
// buckets take one extra member when the population does not divide
// evenly.
func ntile(rank, n, count int) int {
	size := n / count
	rem := n % count
	if size == 0 {
		return rank + 1
	}
	wide := rem * (size + 1)
	if rank < wide {
		return rank/(size+1) + 1
	}
	return rem + (rank-wide)/size + 1
}
