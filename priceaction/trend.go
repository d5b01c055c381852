package priceaction

import (
	"fmt"

	"github.com/dnldd/wmauto/market"
	"github.com/dnldd/wmauto/shared"
)

const (
	// minTrendSize is the minimum number of candles required to classify a trend.
	minTrendSize = 5
)

// CalcTrend classifies the trend of the provided series by comparing the
// swings of its last two candles. Higher highs with higher lows read bullish,
// lower lows with lower highs read bearish, everything else is sideways.
//
// This is a two candle comparator rather than a full swing structure
// algorithm, it only reflects the most recent leg of the series.
func CalcTrend(series *market.Series) (shared.Trend, error) {
	if series.Size() < minTrendSize {
		return shared.SidewaysTrend, fmt.Errorf("classifying %s trend requires %d candles, got %d: %w",
			series.Timeframe.String(), minTrendSize, series.Size(), shared.ErrInsufficientData)
	}

	candles := series.LastN(minTrendSize)
	last := &candles[len(candles)-1]
	prev := &candles[len(candles)-2]

	higherHigh := last.High > prev.High
	higherLow := last.Low > prev.Low
	lowerLow := last.Low < prev.Low
	lowerHigh := last.High < prev.High

	switch {
	case higherHigh && higherLow:
		return shared.BullishTrend, nil
	case lowerLow && lowerHigh:
		return shared.BearishTrend, nil
	default:
		return shared.SidewaysTrend, nil
	}
}
