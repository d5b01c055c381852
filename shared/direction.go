package shared

// Direction represents the direction of a trade.
type Direction int

const (
	NoDirection Direction = iota
	Long
	Short
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case NoDirection:
		return "none"
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}
