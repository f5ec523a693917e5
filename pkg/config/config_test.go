package config

import (
	"testing"
	"time"
)

func TestReference_Default(t *testing.T) {
	got, err := RFMConfig{}.Reference()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReference_Explicit(t *testing.T) {
	got, err := RFMConfig{ReferenceDate: "2017-12-31"}.Reference()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2017 || got.Month() != time.December || got.Day() != 31 {
		t.Fatalf("got %v", got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("reference date must be a UTC day boundary, got %v", got.Location())
	}
}

func TestReference_Invalid(t *testing.T) {
	if _, err := (RFMConfig{ReferenceDate: "31/12/2017"}).Reference(); err == nil {
		t.Fatal("expected error for invalid date format, got nil")
	}
}

func TestBuckets_Fallback(t *testing.T) {
	if got := (RFMConfig{}).Buckets(); got != 5 {
		t.Fatalf("default buckets = %d, want 5", got)
	}
	if got := (RFMConfig{BucketCount: -1}).Buckets(); got != 5 {
		t.Fatalf("negative buckets = %d, want 5", got)
	}
	if got := (RFMConfig{BucketCount: 4}).Buckets(); got != 4 {
		t.Fatalf("explicit buckets = %d, want 4", got)
	}
}
