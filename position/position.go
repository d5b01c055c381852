package position

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dnldd/wmauto/shared"
	"github.com/google/uuid"
)

// PositionStatus represents the status of a position.
type PositionStatus int

const (
	Submitted PositionStatus = iota
	Active
	Rejected
)

// String stringifies the provided position status.
func (s PositionStatus) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Active:
		return "active"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Position represents a market position started by a directional decision.
type Position struct {
	ID           string
	OrderID      string
	Market       string
	Direction    shared.Direction
	Lots         float64
	EntryPrice   float64
	EntryReasons string
	StopLoss     float64
	Target       float64
	Simulated    bool
	Status       PositionStatus
	CreatedOn    time.Time
}

// stringifyReasons stringifies the collection of reasons provided.
func stringifyReasons(reasons []shared.Reason) string {
	buf := bytes.NewBuffer([]byte{})
	for idx := range reasons {
		buf.WriteString(reasons[idx].String())
		if idx < len(reasons)-1 {
			buf.WriteString(",")
		}
	}

	return buf.String()
}

// NewPosition initializes a new position from the provided decision.
func NewPosition(decision *shared.Decision) (*Position, error) {
	if decision == nil {
		return nil, fmt.Errorf("decision cannot be nil")
	}
	if decision.Direction == shared.NoDirection {
		return nil, fmt.Errorf("cannot create a position from a no direction decision")
	}

	position := &Position{
		ID:           uuid.New().String(),
		Market:       decision.Market,
		Direction:    decision.Direction,
		Lots:         decision.Lots,
		EntryPrice:   decision.EntryPrice,
		EntryReasons: stringifyReasons(decision.Reasons),
		StopLoss:     decision.StopLoss,
		Target:       decision.Target,
		Status:       Submitted,
		CreatedOn:    decision.CreatedOn,
	}

	return position, nil
}

// ApplyOrderResult updates the position with the provided order acknowledgement.
func (p *Position) ApplyOrderResult(result *shared.OrderResult) {
	p.OrderID = result.OrderID
	p.Simulated = result.Simulated
	p.Status = Active
	if result.FillPrice > 0 {
		p.EntryPrice = result.FillPrice
	}
}
