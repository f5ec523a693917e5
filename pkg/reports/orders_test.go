package reports

import (
	"database/sql"
	"testing"
	"time"

	"olist-insights/pkg/models"
)

func nullAt(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestFunnel_StageCountsAndConversion(t *testing.T) {
	base := at(2018, 3, 1)
	orders := []models.OrderRecord{
		{OrderID: "o1", Status: "delivered", PurchasedAt: base,
			ApprovedAt: nullAt(base), ShippedAt: nullAt(base), DeliveredAt: nullAt(base)},
		{OrderID: "o2", Status: "shipped", PurchasedAt: base,
			ApprovedAt: nullAt(base), ShippedAt: nullAt(base)},
		{OrderID: "o3", Status: "approved", PurchasedAt: base, ApprovedAt: nullAt(base)},
		{OrderID: "o4", Status: "created", PurchasedAt: base},
	}
	stages := Funnel(orders)
	wantCounts := []int{4, 3, 2, 1}
	for i, want := range wantCounts {
		if stages[i].Orders != want {
			t.Fatalf("stage %s = %d orders, want %d", stages[i].Stage, stages[i].Orders, want)
		}
	}
	if stages[0].ConversionPct.Valid {
		t.Fatalf("first stage conversion must be undefined")
	}
	if got := stages[1].ConversionPct; !got.Valid || got.Float64 != 75 {
		t.Fatalf("approved conversion = %+v, want 75%%", got)
	}
	if got := stages[3].ConversionPct; !got.Valid || got.Float64 != 50 {
		t.Fatalf("delivered conversion = %+v, want 50%%", got)
	}
}

func TestFunnel_EmptyDenominatorUndefined(t *testing.T) {
	stages := Funnel(nil)
	for i, s := range stages {
		if s.Orders != 0 {
			t.Fatalf("stage %d: %d orders, want 0", i, s.Orders)
		}
		if s.ConversionPct.Valid {
			t.Fatalf("stage %d: conversion over zero must be undefined", i)
		}
	}
}

func TestCoPurchasePairs(t *testing.T) {
	purchase := at(2018, 3, 1)
	items := []models.ItemRecord{
		{OrderID: "o1", ProductID: "pB", PurchasedAt: purchase},
		{OrderID: "o1", ProductID: "pA", PurchasedAt: purchase},
		{OrderID: "o2", ProductID: "pA", PurchasedAt: purchase},
		{OrderID: "o2", ProductID: "pB", PurchasedAt: purchase},
		{OrderID: "o2", ProductID: "pC", PurchasedAt: purchase},
		// single-product order contributes no pair
		{OrderID: "o3", ProductID: "pA", PurchasedAt: purchase},
		// duplicate lines of one product count once per order
		{OrderID: "o3", ProductID: "pA", PurchasedAt: purchase},
	}
	rows := CoPurchasePairs(items, 0)
	if len(rows) != 3 {
		t.Fatalf("got %d pairs, want 3: %v", len(rows), rows)
	}
	top := rows[0]
	if top.ProductA != "pA" || top.ProductB != "pB" || top.Orders != 2 {
		t.Fatalf("top pair = %+v, want pA/pB x2", top)
	}
	for _, r := range rows {
		if r.ProductA >= r.ProductB {
			t.Fatalf("pair not canonicalized: %+v", r)
		}
	}
}

func TestCoPurchasePairs_TopKCap(t *testing.T) {
	purchase := at(2018, 3, 1)
	items := []models.ItemRecord{
		{OrderID: "o1", ProductID: "a", PurchasedAt: purchase},
		{OrderID: "o1", ProductID: "b", PurchasedAt: purchase},
		{OrderID: "o1", ProductID: "c", PurchasedAt: purchase},
	}
	if rows := CoPurchasePairs(items, 2); len(rows) != 2 {
		t.Fatalf("topK not applied: %v", rows)
	}
}
