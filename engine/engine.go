package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/wmauto/market"
	"github.com/dnldd/wmauto/priceaction"
	"github.com/dnldd/wmauto/shared"
	"github.com/rs/zerolog"
)

// EngineConfig represents the configuration for the signal engine.
type EngineConfig struct {
	// Market is the name of the evaluated market.
	Market string
	// SessionWindows are the allowed trading windows.
	SessionWindows []shared.SessionWindow
	// RiskFraction is the fraction of the account balance risked per trade.
	RiskFraction float64
	// PipSize is the minimum quoted price step of the market.
	PipSize float64
	// PipValue is the assumed per lot value of a one pip move.
	PipValue float64
	// MinimumLot is the minimum tradable lot size.
	MinimumLot float64
	// LotStep is the lot size increment.
	LotStep float64
	// DefaultLot is the fallback lot size used when no account balance is
	// obtainable.
	DefaultLot float64
	// StopBuffer is the price buffer applied beyond a zone when placing stops.
	StopBuffer float64
	// RewardMultiple is the ratio of target distance to stop distance.
	RewardMultiple float64
	// Clock provides the current time for the session gate.
	Clock shared.Clock
	// Logger represents the application logger.
	Logger zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *EngineConfig) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("market cannot be an empty string"))
	}
	if len(cfg.SessionWindows) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no session windows provided"))
	}
	for idx := range cfg.SessionWindows {
		if err := cfg.SessionWindows[idx].Validate(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1 {
		errs = errors.Join(errs, fmt.Errorf("risk fraction must be in (0,1], got %v", cfg.RiskFraction))
	}
	if cfg.PipSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("pip size must be positive, got %v", cfg.PipSize))
	}
	if cfg.PipValue <= 0 {
		errs = errors.Join(errs, fmt.Errorf("pip value must be positive, got %v", cfg.PipValue))
	}
	if cfg.MinimumLot <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum lot must be positive, got %v", cfg.MinimumLot))
	}
	if cfg.LotStep <= 0 {
		errs = errors.Join(errs, fmt.Errorf("lot step must be positive, got %v", cfg.LotStep))
	}
	if cfg.DefaultLot < 0 {
		errs = errors.Join(errs, fmt.Errorf("default lot cannot be negative, got %v", cfg.DefaultLot))
	}
	if cfg.StopBuffer < 0 {
		errs = errors.Join(errs, fmt.Errorf("stop buffer cannot be negative, got %v", cfg.StopBuffer))
	}
	if cfg.RewardMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("reward multiple must be positive, got %v", cfg.RewardMultiple))
	}
	if cfg.Clock == nil {
		errs = errors.Join(errs, fmt.Errorf("clock cannot be nil"))
	}

	return errs
}

// Snapshot represents the immutable candlestick views evaluated in one cycle.
type Snapshot struct {
	// Base is the base timeframe series, used for sweep detection and the
	// entry reference close.
	Base *market.Series
	// Hourly is the hourly series, used for structure, pattern and zone
	// detection.
	Hourly *market.Series
	// FourHourly is the four hourly series, used for trend classification.
	FourHourly *market.Series
}

// evaluationState represents the state of an evaluation cycle.
type evaluationState int

const (
	idle evaluationState = iota
	sessionGate
	evaluating
	decided
)

// Engine derives directional decisions from candlestick snapshots. It holds no
// state across evaluation cycles.
type Engine struct {
	cfg *EngineConfig
}

// NewEngine initializes a new signal engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating engine config: %w", err)
	}

	return &Engine{cfg: cfg}, nil
}

// Evaluate runs one evaluation cycle on the provided snapshot and account
// balance, producing exactly one decision. Outside the allowed session
// windows the cycle terminates with a no direction decision.
func (e *Engine) Evaluate(snapshot *Snapshot, balance float64) (shared.Decision, error) {
	now := e.cfg.Clock.Now()

	var decision shared.Decision
	state := idle
	for {
		switch state {
		case idle:
			state = sessionGate
		case sessionGate:
			if !shared.InAllowedSession(now, e.cfg.SessionWindows) {
				e.cfg.Logger.Info().Msgf("%s: outside allowed sessions, skipping cycle", e.cfg.Market)
				decision = shared.NewNoDecision(e.cfg.Market, now)
				state = decided
				continue
			}

			state = evaluating
		case evaluating:
			var err error
			decision, err = e.evaluate(snapshot, balance)
			if err != nil {
				return shared.NewNoDecision(e.cfg.Market, now), err
			}

			state = decided
		case decided:
			return decision, nil
		}
	}
}

// lotSize sizes a position from the provided balance and stop distance,
// falling back to the default lot when no balance is obtainable.
func (e *Engine) lotSize(balance float64, stopLossPips float64) float64 {
	if balance <= 0 {
		if e.cfg.DefaultLot >= e.cfg.MinimumLot {
			return e.cfg.DefaultLot
		}
		return e.cfg.MinimumLot
	}

	return CalcLotSize(balance, e.cfg.RiskFraction, stopLossPips, e.cfg.PipValue,
		e.cfg.LotStep, e.cfg.MinimumLot)
}

// evaluate runs the detectors on the provided snapshot and composes their
// labels into a directional decision, with the long rules checked first.
func (e *Engine) evaluate(snapshot *Snapshot, balance float64) (shared.Decision, error) {
	now := e.cfg.Clock.Now()

	trend, err := priceaction.CalcTrend(snapshot.FourHourly)
	if err != nil {
		return shared.Decision{}, fmt.Errorf("classifying trend: %w", err)
	}

	structureBreak := priceaction.DetectStructureBreak(snapshot.Hourly)
	pattern := priceaction.DetectPattern(snapshot.Hourly)
	sweep, _ := priceaction.DetectSweep(snapshot.Base)
	zone, hasZone := priceaction.ExtractZone(snapshot.Hourly)

	lastCandle, err := snapshot.Base.Last()
	if err != nil {
		return shared.Decision{}, fmt.Errorf("fetching last candle: %w", err)
	}
	lastClose := lastCandle.Close

	zoneLabel := "no zone"
	if hasZone {
		switch zone.Direction {
		case shared.Long:
			zoneLabel = "demand zone"
		case shared.Short:
			zoneLabel = "supply zone"
		}
	}

	e.cfg.Logger.Info().Msgf("%s: trend=%s structure=%s pattern=%s sweep=%s zone=%s balance=%.2f",
		e.cfg.Market, trend.String(), structureBreak.String(), pattern.String(), sweep.String(),
		zoneLabel, balance)

	longSignal := sweep == priceaction.BuySweep && hasZone && zone.Direction == shared.Long &&
		(structureBreak == priceaction.BullishBreak || pattern == priceaction.DoubleBottom) &&
		trend == shared.BullishTrend
	if longSignal {
		stopLoss := zone.Low - e.cfg.StopBuffer
		target := lastClose + (lastClose-stopLoss)*e.cfg.RewardMultiple
		stopLossPips := math.Abs(lastClose-stopLoss) / e.cfg.PipSize
		lots := e.lotSize(balance, stopLossPips)

		reasons := []shared.Reason{shared.BuySideSweep, shared.DemandZone}
		if structureBreak == priceaction.BullishBreak {
			reasons = append(reasons, shared.BullishStructureBreak)
		}
		if pattern == priceaction.DoubleBottom {
			reasons = append(reasons, shared.DoubleBottomPattern)
		}
		reasons = append(reasons, shared.TrendAlignment)

		return shared.NewDecision(e.cfg.Market, shared.Long, lots, lastClose, stopLoss,
			stopLossPips, target, reasons, now), nil
	}

	shortSignal := sweep == priceaction.SellSweep && hasZone && zone.Direction == shared.Short &&
		(structureBreak == priceaction.BearishBreak || pattern == priceaction.DoubleTop) &&
		trend == shared.BearishTrend
	if shortSignal {
		stopLoss := zone.High + e.cfg.StopBuffer
		target := lastClose - (stopLoss-lastClose)*e.cfg.RewardMultiple
		stopLossPips := math.Abs(stopLoss-lastClose) / e.cfg.PipSize
		lots := e.lotSize(balance, stopLossPips)

		reasons := []shared.Reason{shared.SellSideSweep, shared.SupplyZone}
		if structureBreak == priceaction.BearishBreak {
			reasons = append(reasons, shared.BearishStructureBreak)
		}
		if pattern == priceaction.DoubleTop {
			reasons = append(reasons, shared.DoubleTopPattern)
		}
		reasons = append(reasons, shared.TrendAlignment)

		return shared.NewDecision(e.cfg.Market, shared.Short, lots, lastClose, stopLoss,
			stopLossPips, target, reasons, now), nil
	}

	return shared.NewNoDecision(e.cfg.Market, now), nil
}
