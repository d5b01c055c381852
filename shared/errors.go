package shared

import "errors"

var (
	// ErrInsufficientData indicates a candlestick series is shorter than the
	// minimum required by the requested computation.
	ErrInsufficientData = errors.New("insufficient candlestick data")
	// ErrDataUnavailable indicates a market data collaborator returned no data.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrOrderSubmission indicates the order collaborator rejected a submitted order.
	ErrOrderSubmission = errors.New("order submission rejected")
)
