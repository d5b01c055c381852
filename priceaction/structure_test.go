package priceaction

import (
	"testing"

	"github.com/dnldd/wmauto/shared"
)

func TestDetectStructureBreak(t *testing.T) {
	flatHighs := func(size int, level float64) []float64 {
		set := make([]float64, size)
		for idx := range set {
			set[idx] = level
		}
		return set
	}

	tests := []struct {
		name  string
		highs []float64
		lows  []float64
		want  StructureBreak
	}{
		{
			name: "bullish break",
			//                              prior swing --  -- recent swing
			highs: []float64{100, 100, 100, 101, 101, 100, 102, 103, 100},
			lows:  []float64{95, 95, 95, 95, 95, 95, 95, 95, 95},
			want:  BullishBreak,
		},
		{
			name:  "bearish break",
			highs: flatHighs(9, 100),
			lows:  []float64{95, 95, 95, 94, 94, 95, 93, 92, 95},
			want:  BearishBreak,
		},
		{
			name:  "no break",
			highs: flatHighs(9, 100),
			lows:  []float64{95, 95, 95, 95, 95, 95, 95, 95, 95},
			want:  NoBreak,
		},
		{
			name: "bullish break takes priority over a simultaneous bearish break",
			//                              prior swing --  -- recent swing
			highs: []float64{100, 100, 100, 101, 101, 100, 102, 103, 100},
			lows:  []float64{95, 95, 95, 94, 94, 95, 93, 92, 95},
			want:  BullishBreak,
		},
		{
			name:  "short series yields no break",
			highs: []float64{100, 100, 100, 101, 102, 103, 100},
			lows:  []float64{95, 95, 95, 94, 93, 92, 95},
			want:  NoBreak,
		},
	}

	for _, test := range tests {
		series := newSeries(shared.OneHour, test.highs, test.lows)
		structureBreak := DetectStructureBreak(series)
		if structureBreak != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, structureBreak)
		}
	}
}

func TestStructureBreakString(t *testing.T) {
	tests := []struct {
		name           string
		structureBreak StructureBreak
		want           string
	}{
		{
			name:           "no structure break",
			structureBreak: NoBreak,
			want:           "no structure break",
		},
		{
			name:           "bullish structure break",
			structureBreak: BullishBreak,
			want:           "bullish structure break",
		},
		{
			name:           "bearish structure break",
			structureBreak: BearishBreak,
			want:           "bearish structure break",
		},
		{
			name:           "unknown",
			structureBreak: StructureBreak(999),
			want:           "unknown",
		},
	}

	for _, test := range tests {
		str := test.structureBreak.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}
