package shared

import (
	"context"
	"time"
)

// MarketFetcher defines the requirements for fetching market candlestick data.
type MarketFetcher interface {
	// FetchCandlesticks fetches the most recent count candlesticks for the
	// provided market and timeframe, ordered ascending by date.
	FetchCandlesticks(ctx context.Context, market string, timeframe Timeframe, count int) ([]Candlestick, error)
}

// AccountSource defines the requirements for fetching account details.
type AccountSource interface {
	// FetchBalance fetches the current account balance.
	FetchBalance(ctx context.Context) (float64, error)
}

// OrderSink defines the requirements for submitting orders.
type OrderSink interface {
	// SubmitOrder submits the provided order for execution.
	SubmitOrder(ctx context.Context, req *OrderRequest) (*OrderResult, error)
}

// Clock defines the requirements for fetching the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock backed by the system wall clock in UTC.
type SystemClock struct{}

// Ensure SystemClock implements the Clock interface.
var _ Clock = (*SystemClock)(nil)

// Now returns the current UTC time.
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}
