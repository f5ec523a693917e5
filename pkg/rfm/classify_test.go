package rfm

import (
	"testing"

	"olist-insights/pkg/models"
)

func scoredWith(r, f, m int) models.CustomerScored {
	return models.CustomerScored{RScore: r, FScore: f, MScore: m}
}

func TestClassify_TotalFunction(t *testing.T) {
	known := map[string]bool{
		SegmentChampions: true, SegmentLoyal: true, SegmentRecent: true,
		SegmentHighFrequency: true, SegmentHighValue: true,
		SegmentHibernating: true, SegmentAtRisk: true, SegmentStandard: true,
	}
	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			for m := 1; m <= 5; m++ {
				got := Classify(scoredWith(r, f, m))
				if !known[got] {
					t.Fatalf("(%d,%d,%d) -> unknown segment %q", r, f, m, got)
				}
			}
		}
	}
}

func TestClassify_ChampionsTakesPrecedence(t *testing.T) {
	// Whenever rule 1 holds the later overlapping rules must lose.
	for r := 4; r <= 5; r++ {
		for f := 4; f <= 5; f++ {
			for m := 1; m <= 5; m++ {
				if got := Classify(scoredWith(r, f, m)); got != SegmentChampions {
					t.Fatalf("(%d,%d,%d) = %q, want %q", r, f, m, got, SegmentChampions)
				}
			}
		}
	}
}

func TestClassify_LadderOrder(t *testing.T) {
	cases := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 1, SegmentChampions},
		{4, 4, 5, SegmentChampions},
		{3, 3, 1, SegmentLoyal},
		{4, 3, 1, SegmentLoyal},     // rule 2 beats rule 3
		{5, 2, 1, SegmentRecent},    // r>=4, f too low for rules 1-2
		{3, 5, 1, SegmentLoyal},     // rule 2 beats rule 4
		{2, 5, 1, SegmentHighFrequency}, // rule 4 beats rule 7
		{1, 2, 5, SegmentHighValue},
		{2, 1, 1, SegmentHibernating},
		{1, 2, 2, SegmentHibernating},
		{2, 3, 1, SegmentAtRisk},
		{3, 2, 3, SegmentStandard},
		{3, 1, 2, SegmentStandard},
	}
	for _, c := range cases {
		if got := Classify(scoredWith(c.r, c.f, c.m)); got != c.want {
			t.Fatalf("(%d,%d,%d) = %q, want %q", c.r, c.f, c.m, got, c.want)
		}
	}
}

func TestClassifyAll_NoRowsDroppedOrAdded(t *testing.T) {
	scored := Score(makePopulation(17), day(1001), 5)
	segments := ClassifyAll(scored)
	if len(segments) != len(scored) {
		t.Fatalf("got %d segments for %d scored rows", len(segments), len(scored))
	}
	for i, s := range segments {
		if s.CustomerID != scored[i].CustomerID {
			t.Fatalf("row %d reordered", i)
		}
	}
}
