package priceaction

import (
	"github.com/dnldd/wmauto/market"
)

const (
	// patternWindowSize is the number of candles examined for a reversal pattern.
	patternWindowSize = 12
)

// Pattern represents a two point reversal pattern.
type Pattern int

const (
	NoPattern Pattern = iota
	DoubleBottom
	DoubleTop
)

// String stringifies the provided pattern.
func (p Pattern) String() string {
	switch p {
	case NoPattern:
		return "no pattern"
	case DoubleBottom:
		return "double bottom"
	case DoubleTop:
		return "double top"
	default:
		return "unknown"
	}
}

// DetectPattern detects a double bottom ("W") or double top ("M") formation
// on the last candles of the provided series. The checks are mutually
// exclusive with the double bottom tested first. Series shorter than the
// pattern window yield no pattern.
//
// This is a fixed four point local shape heuristic, not a general peak finder.
func DetectPattern(series *market.Series) Pattern {
	if series.Size() < patternWindowSize {
		return NoPattern
	}

	window := series.LastN(patternWindowSize)
	lows := make([]float64, len(window))
	highs := make([]float64, len(window))
	for idx := range window {
		lows[idx] = window[idx].Low
		highs[idx] = window[idx].High
	}

	size := len(window)

	// A double bottom has its middle trough below the flanking troughs.
	if lows[size-3] < lows[size-4] && lows[size-3] < lows[size-2] && lows[size-2] > lows[size-1] {
		return DoubleBottom
	}

	if highs[size-3] > highs[size-4] && highs[size-3] > highs[size-2] && highs[size-2] < highs[size-1] {
		return DoubleTop
	}

	return NoPattern
}
