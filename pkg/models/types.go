package models

import (
	"database/sql"
	"time"
)

/*
LOAD → plain row types for data read from the database snapshot.
*/

// OrderFact is one qualifying order as consumed by the RFM pipeline:
// delivered status, internally consistent timeline, payments summed
// to a single order total. The customer id is the deduplicated
// customer_unique_id, not the per-order customer id.
type OrderFact struct {
	OrderID     string
	CustomerID  string
	PurchasedAt time.Time
	Monetary    float64
}

// OrderRecord is one order with its full timeline, used by the delivery
// performance and funnel reports. Timestamps past purchase may be absent.
type OrderRecord struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt time.Time
	ApprovedAt  sql.NullTime
	ShippedAt   sql.NullTime
	DeliveredAt sql.NullTime
	EstimatedAt sql.NullTime
}

// ItemRecord is one order line with its product category resolved.
type ItemRecord struct {
	OrderID     string
	ProductID   string
	Category    string
	Price       float64
	Freight     float64
	PurchasedAt time.Time
}

// PaymentRecord is one payment leg of an order.
type PaymentRecord struct {
	OrderID      string
	Type         string
	Installments int
	Value        float64
}

// ReviewRecord is one customer review with its free-text comment.
type ReviewRecord struct {
	ReviewID   string
	OrderID    string
	CustomerID string
	Score      int
	Comment    string
	CreatedAt  time.Time
}

// GeoOrder is one delivered order resolved to its customer coordinates.
type GeoOrder struct {
	OrderID string
	City    string
	State   string
	Lat     float64
	Lng     float64
}

/*
COMPUTE → derived RFM entities, one per pipeline stage.
*/

// CustomerAggregate collapses all of a customer's qualifying orders
// into one Recency/Frequency/Monetary tuple.
type CustomerAggregate struct {
	CustomerID     string
	LastPurchaseAt time.Time
	Frequency      int
	Monetary       float64
}

// CustomerScored carries, per dimension, both the quantile bucket
// (1 = most favorable rank positions) and the classifier score
// (bucketCount+1-bucket, so the highest score is the best).
type CustomerScored struct {
	CustomerAggregate
	RecencyDays int
	RBucket     int
	FBucket     int
	MBucket     int
	RScore      int
	FScore      int
	MScore      int
}

// CustomerSegment is a scored customer with its segment label.
type CustomerSegment struct {
	CustomerScored
	Segment string
}

// SegmentSummary is one output row of the RFM report.
type SegmentSummary struct {
	Segment        string  `json:"segment_name"`
	CustomerCount  int     `json:"customer_count"`
	AvgRecencyDays float64 `json:"avg_recency_days"`
	AvgFrequency   float64 `json:"avg_frequency"`
	AvgMonetary    float64 `json:"avg_monetary"`
}
