package position

import (
	"strings"
	"testing"
	"time"

	"github.com/dnldd/wmauto/shared"
	"github.com/peterldowns/testy/assert"
)

func TestPositionStatusString(t *testing.T) {
	tests := []struct {
		name   string
		status PositionStatus
		want   string
	}{
		{
			name:   "submitted",
			status: Submitted,
			want:   "submitted",
		},
		{
			name:   "active",
			status: Active,
			want:   "active",
		},
		{
			name:   "rejected",
			status: Rejected,
			want:   "rejected",
		},
		{
			name:   "unknown",
			status: PositionStatus(999),
			want:   "unknown",
		},
	}

	for _, test := range tests {
		str := test.status.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestStringifyReasons(t *testing.T) {
	reasons := []shared.Reason{shared.BuySideSweep, shared.DemandZone,
		shared.BullishStructureBreak, shared.TrendAlignment, shared.Reason(999)}

	str := stringifyReasons(reasons)
	assert.True(t, strings.Contains(str, "buy side liquidity sweep"))
	assert.True(t, strings.Contains(str, "demand zone"))
	assert.True(t, strings.Contains(str, "bullish structure break"))
	assert.True(t, strings.Contains(str, "trend alignment"))
	assert.True(t, strings.Contains(str, "unknown"))
}

func TestNewPosition(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

	// Ensure a nil decision cannot create a position.
	_, err := NewPosition(nil)
	assert.Error(t, err)

	// Ensure a no direction decision cannot create a position.
	noDecision := shared.NewNoDecision("XAUUSD", now)
	_, err = NewPosition(&noDecision)
	assert.Error(t, err)

	decision := shared.NewDecision("XAUUSD", shared.Long, 0.2, 102, 97.5, 450, 113.25,
		[]shared.Reason{shared.BuySideSweep}, now)
	pos, err := NewPosition(&decision)
	assert.NoError(t, err)
	assert.NotEqual(t, pos.ID, "")
	assert.Equal(t, pos.Market, "XAUUSD")
	assert.Equal(t, pos.Direction, shared.Long)
	assert.Equal(t, pos.Lots, 0.2)
	assert.Equal(t, pos.EntryPrice, float64(102))
	assert.Equal(t, pos.StopLoss, 97.5)
	assert.Equal(t, pos.Target, 113.25)
	assert.Equal(t, pos.Status, Submitted)

	// Ensure an order acknowledgement activates the position.
	pos.ApplyOrderResult(&shared.OrderResult{
		OrderID:    "order-1",
		Market:     "XAUUSD",
		Direction:  shared.Long,
		Lots:       0.2,
		FillPrice:  102.1,
		Simulated:  true,
		ExecutedOn: now,
	})
	assert.Equal(t, pos.Status, Active)
	assert.Equal(t, pos.OrderID, "order-1")
	assert.Equal(t, pos.EntryPrice, 102.1)
	assert.True(t, pos.Simulated)
}
