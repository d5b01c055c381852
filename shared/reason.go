package shared

// Reason represents a confluence backing an entry decision.
type Reason int

const (
	BuySideSweep Reason = iota
	SellSideSweep
	DemandZone
	SupplyZone
	BullishStructureBreak
	BearishStructureBreak
	DoubleBottomPattern
	DoubleTopPattern
	TrendAlignment
)

// String stringifies the provided reason.
func (r Reason) String() string {
	switch r {
	case BuySideSweep:
		return "buy side liquidity sweep"
	case SellSideSweep:
		return "sell side liquidity sweep"
	case DemandZone:
		return "demand zone"
	case SupplyZone:
		return "supply zone"
	case BullishStructureBreak:
		return "bullish structure break"
	case BearishStructureBreak:
		return "bearish structure break"
	case DoubleBottomPattern:
		return "double bottom pattern"
	case DoubleTopPattern:
		return "double top pattern"
	case TrendAlignment:
		return "trend alignment"
	default:
		return "unknown"
	}
}
