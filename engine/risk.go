package engine

import "math"

// CalcLotSize converts account balance and risk parameters into a position
// size. The computed size is rounded to the provided lot step and never falls
// below the provided minimum lot.
//
// The per lot pip value is an assumed constant of the instrument rather than
// one derived from its contract size and current price, a known approximation.
func CalcLotSize(balance float64, riskFraction float64, stopLossPips float64,
	pipValue float64, lotStep float64, minimumLot float64) float64 {
	riskAmount := balance * riskFraction
	lots := riskAmount / (stopLossPips * pipValue)
	lots = math.Round(lots/lotStep) * lotStep
	if lots < minimumLot {
		lots = minimumLot
	}

	return lots
}
