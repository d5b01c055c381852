package shared

import "time"

// StatusCode represents a signal status code.
type StatusCode int

const (
	Processing StatusCode = iota
	Processed
)

// Decision represents the outcome of one evaluation cycle for a market.
type Decision struct {
	Market       string
	Direction    Direction
	Lots         float64
	EntryPrice   float64
	StopLoss     float64
	StopLossPips float64
	Target       float64
	Reasons      []Reason
	CreatedOn    time.Time
	Status       chan StatusCode
}

// NewDecision initializes a new directional decision.
func NewDecision(market string, direction Direction, lots float64, entry float64,
	stopLoss float64, stopLossPips float64, target float64, reasons []Reason, created time.Time) Decision {
	return Decision{
		Market:       market,
		Direction:    direction,
		Lots:         lots,
		EntryPrice:   entry,
		StopLoss:     stopLoss,
		StopLossPips: stopLossPips,
		Target:       target,
		Reasons:      reasons,
		CreatedOn:    created,
		Status:       make(chan StatusCode, 1),
	}
}

// NewNoDecision initializes a decision representing no actionable signal.
func NewNoDecision(market string, created time.Time) Decision {
	return Decision{
		Market:    market,
		Direction: NoDirection,
		CreatedOn: created,
		Status:    make(chan StatusCode, 1),
	}
}
