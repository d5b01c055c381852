package engine

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestCalcLotSize(t *testing.T) {
	tests := []struct {
		name         string
		balance      float64
		riskFraction float64
		stopLossPips float64
		want         float64
	}{
		{
			name:         "one percent of 10k over 50 pips",
			balance:      10000,
			riskFraction: 0.01,
			stopLossPips: 50,
			want:         0.2,
		},
		{
			name:         "computed size rounds to the lot step",
			balance:      10000,
			riskFraction: 0.01,
			stopLossPips: 45,
			want:         0.22,
		},
		{
			name:         "underflowing size clamps to the minimum lot",
			balance:      100,
			riskFraction: 0.01,
			stopLossPips: 500,
			want:         0.01,
		},
	}

	const pipValue = 10.0
	const lotStep = 0.01
	const minimumLot = 0.01

	for _, test := range tests {
		lots := CalcLotSize(test.balance, test.riskFraction, test.stopLossPips,
			pipValue, lotStep, minimumLot)
		if lots != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, lots)
		}
	}
}

func TestLotSizeDefaultFallback(t *testing.T) {
	eng := newTestEngine(t, fixedClock(10))

	// A zero balance sizes entries by the default lot.
	assert.Equal(t, eng.lotSize(0, 50), 0.05)

	// A funded account sizes entries by risk.
	assert.Equal(t, eng.lotSize(10000, 50), 0.2)
}
