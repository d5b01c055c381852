package shared

// Trend represents the market trend.
type Trend int

const (
	SidewaysTrend Trend = iota
	BullishTrend
	BearishTrend
)

// String stringifies the provided trend.
func (t Trend) String() string {
	switch t {
	case SidewaysTrend:
		return "sideways trend"
	case BullishTrend:
		return "bullish trend"
	case BearishTrend:
		return "bearish trend"
	default:
		return "unknown trend"
	}
}
