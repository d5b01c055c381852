package market

import (
	"fmt"

	"github.com/dnldd/wmauto/shared"
)

// Series represents a time ordered candlestick sequence for a market at a
// fixed timeframe. A series is never mutated in place, resampling produces a
// new series.
type Series struct {
	Market    string
	Timeframe shared.Timeframe
	Candles   []shared.Candlestick
}

// NewSeries initializes a new series from the provided candlesticks.
func NewSeries(market string, timeframe shared.Timeframe, candles []shared.Candlestick) *Series {
	return &Series{
		Market:    market,
		Timeframe: timeframe,
		Candles:   candles,
	}
}

// Size returns the number of candles in the series.
func (s *Series) Size() int {
	return len(s.Candles)
}

// Last returns the most recent candle of the series.
func (s *Series) Last() (*shared.Candlestick, error) {
	if len(s.Candles) == 0 {
		return nil, fmt.Errorf("fetching last candle: %w", shared.ErrInsufficientData)
	}

	return &s.Candles[len(s.Candles)-1], nil
}

// At returns the candle at the provided negative offset from the end of the
// series, with -1 being the most recent candle.
func (s *Series) At(offset int) (*shared.Candlestick, error) {
	idx := len(s.Candles) + offset
	if offset >= 0 || idx < 0 {
		return nil, fmt.Errorf("fetching candle at offset %d: %w", offset, shared.ErrInsufficientData)
	}

	return &s.Candles[idx], nil
}

// LastN returns the last n candles of the series. The returned set is clamped
// to the series size when n exceeds it.
func (s *Series) LastN(n int) []shared.Candlestick {
	if n <= 0 {
		return nil
	}
	if n > len(s.Candles) {
		n = len(s.Candles)
	}

	return s.Candles[len(s.Candles)-n:]
}

// Resample derives a new series at the provided target timeframe by
// aggregating candles of the receiver into calendar aligned windows. Output
// windows with no contributing candles are dropped.
func (s *Series) Resample(target shared.Timeframe) (*Series, error) {
	if len(s.Candles) == 0 {
		return nil, fmt.Errorf("resampling %s series to %s: %w", s.Timeframe.String(),
			target.String(), shared.ErrInsufficientData)
	}

	baseDuration := s.Timeframe.Duration()
	targetDuration := target.Duration()
	if baseDuration <= 0 || targetDuration <= 0 || targetDuration%baseDuration != 0 {
		return nil, fmt.Errorf("target timeframe %s is not an integer multiple of %s",
			target.String(), s.Timeframe.String())
	}

	resampled := make([]shared.Candlestick, 0, len(s.Candles)/int(targetDuration/baseDuration)+1)

	var current *shared.Candlestick
	for idx := range s.Candles {
		candle := &s.Candles[idx]
		windowStart := candle.Date.UTC().Truncate(targetDuration)

		if current == nil || !current.Date.Equal(windowStart) {
			if current != nil {
				resampled = append(resampled, *current)
			}

			current = &shared.Candlestick{
				Open:      candle.Open,
				High:      candle.High,
				Low:       candle.Low,
				Close:     candle.Close,
				Volume:    candle.Volume,
				Date:      windowStart,
				Market:    s.Market,
				Timeframe: target,
			}
			continue
		}

		if candle.High > current.High {
			current.High = candle.High
		}
		if candle.Low < current.Low {
			current.Low = candle.Low
		}
		current.Close = candle.Close
		current.Volume += candle.Volume
	}

	if current != nil {
		resampled = append(resampled, *current)
	}

	return NewSeries(s.Market, target, resampled), nil
}
