package priceaction

import (
	"github.com/dnldd/wmauto/market"
)

const (
	// minStructureSize is the minimum number of candles required to detect a
	// structure break.
	minStructureSize = 8
)

// StructureBreak represents a break of market structure.
type StructureBreak int

const (
	NoBreak StructureBreak = iota
	BullishBreak
	BearishBreak
)

// String stringifies the provided structure break.
func (b StructureBreak) String() string {
	switch b {
	case NoBreak:
		return "no structure break"
	case BullishBreak:
		return "bullish structure break"
	case BearishBreak:
		return "bearish structure break"
	default:
		return "unknown"
	}
}

// maxHigh returns the highest high of the candles at negative offsets
// [start, end) from the end of the provided series.
func maxHigh(series *market.Series, start int, end int) float64 {
	var max float64
	for offset := start; offset < end; offset++ {
		candle, err := series.At(offset)
		if err != nil {
			continue
		}
		if candle.High > max {
			max = candle.High
		}
	}

	return max
}

// minLow returns the lowest low of the candles at negative offsets
// [start, end) from the end of the provided series.
func minLow(series *market.Series, start int, end int) float64 {
	var min float64
	for offset := start; offset < end; offset++ {
		candle, err := series.At(offset)
		if err != nil {
			continue
		}
		if min == 0 || candle.Low < min {
			min = candle.Low
		}
	}

	return min
}

// DetectStructureBreak detects a break of structure on the provided series by
// comparing the recent swing extremes against the prior ones. A bullish break
// takes priority when both conditions hold. Series shorter than the minimum
// yield no break.
func DetectStructureBreak(series *market.Series) StructureBreak {
	if series.Size() < minStructureSize {
		return NoBreak
	}

	recentHigh := maxHigh(series, -3, -1)
	priorHigh := maxHigh(series, -6, -4)
	recentLow := minLow(series, -3, -1)
	priorLow := minLow(series, -6, -4)

	switch {
	case recentHigh > priorHigh:
		return BullishBreak
	case recentLow < priorLow:
		return BearishBreak
	default:
		return NoBreak
	}
}
