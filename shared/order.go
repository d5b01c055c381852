package shared

import "time"

// OrderRequest represents a market order submitted to the order collaborator.
type OrderRequest struct {
	ID        string
	Market    string
	Direction Direction
	Lots      float64
	StopLoss  float64
	Target    float64
	// Tag identifies orders placed by this service at the broker.
	Tag       uint32
	CreatedOn time.Time
}

// OrderResult represents the acknowledgement for a submitted order.
type OrderResult struct {
	OrderID    string
	Market     string
	Direction  Direction
	Lots       float64
	FillPrice  float64
	Simulated  bool
	ExecutedOn time.Time
}
