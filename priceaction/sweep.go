package priceaction

import (
	"github.com/dnldd/wmauto/market"
	"github.com/dnldd/wmauto/shared"
)

const (
	// sweepWindowSize is the number of recent candles examined for a sweep wick.
	sweepWindowSize = 6
	// sweepLookbackStart is the negative offset starting the lookback range.
	sweepLookbackStart = -20
	// sweepLookbackEnd is the negative offset ending the lookback range.
	sweepLookbackEnd = -5
	// minSweepSize is the minimum number of candles required to detect a sweep.
	minSweepSize = 20
)

// Sweep represents a liquidity sweep event.
type Sweep int

const (
	NoSweep Sweep = iota
	BuySweep
	SellSweep
)

// String stringifies the provided sweep.
func (s Sweep) String() string {
	switch s {
	case NoSweep:
		return "no sweep"
	case BuySweep:
		return "buy side sweep"
	case SellSweep:
		return "sell side sweep"
	default:
		return "unknown"
	}
}

// DetectSweep detects a liquidity sweep on the provided series, a wick
// piercing the extremes of the lookback range followed by a rejection close on
// the most recent candle. It returns the sweep and the triggering wick level,
// or no sweep with a zero level. Series shorter than the minimum cannot form
// valid comparison ranges and yield no sweep.
func DetectSweep(series *market.Series) (Sweep, float64) {
	if series.Size() < minSweepSize {
		return NoSweep, 0
	}

	recent := series.LastN(sweepWindowSize)
	wickHigh := recent[0].High
	wickLow := recent[0].Low
	for idx := range recent {
		if recent[idx].High > wickHigh {
			wickHigh = recent[idx].High
		}
		if recent[idx].Low < wickLow {
			wickLow = recent[idx].Low
		}
	}

	lookbackHigh := maxHigh(series, sweepLookbackStart, sweepLookbackEnd)
	lookbackLow := minLow(series, sweepLookbackStart, sweepLookbackEnd)

	last := recent[len(recent)-1]
	switch {
	case wickLow < lookbackLow && last.FetchSentiment() == shared.Bullish:
		return BuySweep, wickLow
	case wickHigh > lookbackHigh && last.FetchSentiment() == shared.Bearish:
		return SellSweep, wickHigh
	default:
		return NoSweep, 0
	}
}
