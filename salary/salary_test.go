package salary

import (
	"math"
	"testing"
)

func TestToEUR(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     float64
	}{
		{"czk conversion", 100000, "CZK", 4100},
		{"eur passthrough", 2500, "eur", 2500},
		{"unknown currency falls back to 1.0", 3000, "xyz", 3000},
		{"empty currency falls back to 1.0", 3000, "", 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToEUR(tt.amount, tt.currency); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToEUR = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	n := &Normalizer{}

	t.Run("upper bound preferred over lower", func(t *testing.T) {
		low := n.Normalize(40000, 0, "czk", BaselineKey{Region: "cs:praha"})
		high := n.Normalize(40000, 80000, "czk", BaselineKey{Region: "cs:praha"})
		if high <= low {
			t.Errorf("upper-bound score %v should exceed lower-bound score %v", high, low)
		}
	})

	t.Run("score is clamped to 1", func(t *testing.T) {
		if got := n.Normalize(0, 1000000, "eur", BaselineKey{}); got != 1 {
			t.Errorf("score = %v, want 1", got)
		}
	})

	t.Run("missing salary yields zero", func(t *testing.T) {
		if got := n.Normalize(0, 0, "czk", BaselineKey{Region: "cs"}); got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
	})

	t.Run("unknown lookups fall back to default baseline", func(t *testing.T) {
		want := 2200 * 1.4
		got := n.Normalize(0, want, "eur", BaselineKey{Role: "nonexistent", Region: "zz"})
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("score = %v, want 1.0 at 1.4x default baseline", got)
		}
	})

	t.Run("most specific baseline wins", func(t *testing.T) {
		custom := &Normalizer{Baselines: &Baselines{
			ByRole:   map[string]float64{"developer": 4000},
			ByRegion: map[string]float64{"cs": 1000},
		}}
		// role 基线更具体，应优先于 region
		got := custom.Normalize(0, 4000, "eur", BaselineKey{Role: "developer", Region: "cs"})
		want := 4000.0 / 4000.0 / 1.4
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("score = %v, want %v", got, want)
		}
	})
}
