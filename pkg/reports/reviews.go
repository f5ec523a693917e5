package reports

import (
	"sort"
	"strings"
	"time"

	"olist-insights/pkg/models"
)

// Reasons a review can be flagged for.
const (
	ReasonDuplicateComment = "duplicate_comment"
	ReasonReviewBurst      = "review_burst"
)

const (
	duplicateThreshold = 3
	burstThreshold     = 3
	burstWindow        = 24 * time.Hour
)

// FlaggedReview is one review caught by a spam heuristic.
type FlaggedReview struct {
	ReviewID   string `json:"review_id"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Reason     string `json:"reason"`
}

// ReviewSpamReport lists flagged reviews plus per-reason totals.
type ReviewSpamReport struct {
	Flagged []FlaggedReview `json:"flagged"`
	Totals  map[string]int  `json:"totals"`
}

// ReviewSpam applies two heuristics: identical non-empty comment bodies
// shared by at least three reviews, and one customer filing at least
// three reviews inside 24 hours. A review can carry one flag per
// reason. Heuristics, not verdicts: the output is a shortlist for
// manual review.
func ReviewSpam(reviews []models.ReviewRecord) ReviewSpamReport {
	report := ReviewSpamReport{Totals: map[string]int{}}

	// Heuristic 1: duplicated comment bodies.
	byComment := map[string][]int{}
	for i, r := range reviews {
		body := normalizeComment(r.Comment)
		if body == "" {
			continue
		}
		byComment[body] = append(byComment[body], i)
	}
	for _, idxs := range byComment {
		if len(idxs) < duplicateThreshold {
			continue
		}
		for _, i := range idxs {
			report.add(reviews[i], ReasonDuplicateComment)
		}
	}

	// Heuristic 2: review bursts per customer.
	byCustomer := map[string][]int{}
	for i, r := range reviews {
		byCustomer[r.CustomerID] = append(byCustomer[r.CustomerID], i)
	}
	for _, idxs := range byCustomer {
		if len(idxs) < burstThreshold {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			return reviews[idxs[a]].CreatedAt.Before(reviews[idxs[b]].CreatedAt)
		})
		flagged := map[int]bool{}
		lo := 0
		for hi := range idxs {
			for reviews[idxs[hi]].CreatedAt.Sub(reviews[idxs[lo]].CreatedAt) > burstWindow {
				lo++
			}
			if hi-lo+1 >= burstThreshold {
				for k := lo; k <= hi; k++ {
					flagged[idxs[k]] = true
				}
			}
		}
		for i := range flagged {
			report.add(reviews[i], ReasonReviewBurst)
		}
	}

	sort.Slice(report.Flagged, func(i, j int) bool {
		if report.Flagged[i].ReviewID != report.Flagged[j].ReviewID {
			return report.Flagged[i].ReviewID < report.Flagged[j].ReviewID
		}
		return report.Flagged[i].Reason < report.Flagged[j].Reason
	})
	return report
}

// Reasons returns the flag reasons present in the report in sorted
// order, so callers iterating the totals stay reproducible.
func (r ReviewSpamReport) Reasons() []string {
	out := make([]string, 0, len(r.Totals))
	for reason := range r.Totals {
		out = append(out, reason)
	}
	sort.Strings(out)
	return out
}

func (r *ReviewSpamReport) add(review models.ReviewRecord, reason string) {
	r.Flagged = append(r.Flagged, FlaggedReview{
		ReviewID:   review.ReviewID,
		OrderID:    review.OrderID,
		CustomerID: review.CustomerID,
		Reason:     reason,
	})
	r.Totals[reason]++
}

func normalizeComment(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
