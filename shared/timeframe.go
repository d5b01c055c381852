package shared

import "time"

const (
	// DateLayout is the format layout for parsing candle dates.
	DateLayout = "2006-01-02 15:04:05"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	FifteenMinute Timeframe = iota
	OneHour
	FourHour
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case FifteenMinute:
		return "15m"
	case OneHour:
		return "1H"
	case FourHour:
		return "4H"
	default:
		return "unknown"
	}
}

// Duration returns the nominal duration of the provided timeframe.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case FifteenMinute:
		return time.Minute * 15
	case OneHour:
		return time.Hour
	case FourHour:
		return time.Hour * 4
	default:
		return 0
	}
}
