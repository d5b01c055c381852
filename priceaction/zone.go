package priceaction

import (
	"github.com/dnldd/wmauto/market"
	"github.com/dnldd/wmauto/shared"
)

const (
	// minZoneSize is the minimum number of candles required to extract a zone.
	minZoneSize = 3
	// zoneCandleOffset is the negative offset of the candle examined for a zone.
	zoneCandleOffset = -2
)

// Zone represents a supply or demand zone derived from a single prior candle.
// It is a naive single candle proxy for an order block.
type Zone struct {
	Direction shared.Direction
	Low       float64
	High      float64
}

// ExtractZone extracts a candidate supply or demand zone from the second to
// last candle of the provided series. A bearish candle marks a demand zone for
// a later long entry, a bullish one marks a supply zone. A candle with equal
// open and close, or a series shorter than the minimum, yields no zone.
func ExtractZone(series *market.Series) (*Zone, bool) {
	if series.Size() < minZoneSize {
		return nil, false
	}

	candle, err := series.At(zoneCandleOffset)
	if err != nil {
		return nil, false
	}

	switch candle.FetchSentiment() {
	case shared.Bearish:
		return &Zone{Direction: shared.Long, Low: candle.Low, High: candle.High}, true
	case shared.Bullish:
		return &Zone{Direction: shared.Short, Low: candle.Low, High: candle.High}, true
	default:
		return nil, false
	}
}
