package position

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dnldd/wmauto/shared"
	"github.com/rs/zerolog"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
	// maxWorkers is the maximum number of concurrent workers.
	maxWorkers = 8
)

// ManagerConfig represents the position manager configuration.
type ManagerConfig struct {
	// Market is the name of the traded market.
	Market string
	// OrderSink submits orders for execution.
	OrderSink shared.OrderSink
	// AccountSource fetches account details.
	AccountSource shared.AccountSource
	// MaxDailyLossPercent is the daily drawdown fraction beyond which new
	// positions are suppressed for the rest of the day.
	MaxDailyLossPercent float64
	// OrderTag identifies orders placed by this service at the broker.
	OrderTag uint32
	// Clock provides the current time.
	Clock shared.Clock
	// Logger represents the application logger.
	Logger zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("market cannot be an empty string"))
	}
	if cfg.OrderSink == nil {
		errs = errors.Join(errs, fmt.Errorf("order sink cannot be nil"))
	}
	if cfg.AccountSource == nil {
		errs = errors.Join(errs, fmt.Errorf("account source cannot be nil"))
	}
	if cfg.MaxDailyLossPercent < 0 || cfg.MaxDailyLossPercent > 1 {
		errs = errors.Join(errs, fmt.Errorf("max daily loss percent must be in [0,1], got %v",
			cfg.MaxDailyLossPercent))
	}
	if cfg.Clock == nil {
		errs = errors.Join(errs, fmt.Errorf("clock cannot be nil"))
	}

	return errs
}

// Manager manages positions created from directional decisions.
type Manager struct {
	cfg          *ManagerConfig
	positions    []*Position
	positionsMtx sync.RWMutex
	decisions    chan shared.Decision
	workers      chan struct{}

	// Daily drawdown tracking.
	dayMtx          sync.Mutex
	dayStart        string
	dayStartBalance float64
	suspended       bool
}

// NewManager initializes a new position manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating position manager config: %w", err)
	}

	return &Manager{
		cfg:       cfg,
		positions: []*Position{},
		decisions: make(chan shared.Decision, bufferSize),
		workers:   make(chan struct{}, maxWorkers),
	}, nil
}

// SendDecision relays the provided decision for processing.
func (m *Manager) SendDecision(decision shared.Decision) {
	select {
	case m.decisions <- decision:
		// do nothing.
	default:
		m.cfg.Logger.Error().Msgf("decisions channel at capacity: %d/%d",
			len(m.decisions), bufferSize)
	}
}

// FetchPositions returns the positions tracked by the manager.
func (m *Manager) FetchPositions() []*Position {
	m.positionsMtx.RLock()
	defer m.positionsMtx.RUnlock()

	set := make([]*Position, len(m.positions))
	copy(set, m.positions)

	return set
}

// breachedDailyLoss checks whether the account has breached the daily loss
// limit, suppressing new positions for the rest of the day once breached.
func (m *Manager) breachedDailyLoss(ctx context.Context) (bool, error) {
	if m.cfg.MaxDailyLossPercent == 0 {
		return false, nil
	}

	balance, err := m.cfg.AccountSource.FetchBalance(ctx)
	if err != nil {
		return false, fmt.Errorf("fetching balance: %w", err)
	}

	m.dayMtx.Lock()
	defer m.dayMtx.Unlock()

	day := m.cfg.Clock.Now().Format("2006-01-02")
	if m.dayStart != day {
		m.dayStart = day
		m.dayStartBalance = balance
		m.suspended = false
	}

	if m.suspended {
		return true, nil
	}

	if m.dayStartBalance > 0 {
		drawdown := (m.dayStartBalance - balance) / m.dayStartBalance
		if drawdown >= m.cfg.MaxDailyLossPercent {
			m.suspended = true
			m.cfg.Logger.Warn().Msgf("%s: daily loss limit breached (%.2f%%), suppressing entries until tomorrow",
				m.cfg.Market, drawdown*100)
			return true, nil
		}
	}

	return false, nil
}

// handleDecision processes the provided decision, submitting an order for
// actionable ones.
func (m *Manager) handleDecision(ctx context.Context, decision *shared.Decision) error {
	defer func() {
		decision.Status <- shared.Processed
	}()

	if decision.Direction == shared.NoDirection {
		m.cfg.Logger.Info().Msgf("%s: no actionable signal this cycle", decision.Market)
		return nil
	}

	breached, err := m.breachedDailyLoss(ctx)
	if err != nil {
		return err
	}
	if breached {
		return nil
	}

	pos, err := NewPosition(decision)
	if err != nil {
		return fmt.Errorf("creating position: %w", err)
	}

	req := &shared.OrderRequest{
		ID:        pos.ID,
		Market:    decision.Market,
		Direction: decision.Direction,
		Lots:      decision.Lots,
		StopLoss:  decision.StopLoss,
		Target:    decision.Target,
		Tag:       m.cfg.OrderTag,
		CreatedOn: decision.CreatedOn,
	}

	result, err := m.cfg.OrderSink.SubmitOrder(ctx, req)
	if err != nil {
		// Rejected positions stay tracked for inspection.
		pos.Status = Rejected
		m.positionsMtx.Lock()
		m.positions = append(m.positions, pos)
		m.positionsMtx.Unlock()

		return fmt.Errorf("submitting %s order for %s: %w", decision.Direction.String(),
			decision.Market, errors.Join(shared.ErrOrderSubmission, err))
	}

	pos.ApplyOrderResult(result)

	m.positionsMtx.Lock()
	m.positions = append(m.positions, pos)
	m.positionsMtx.Unlock()

	m.cfg.Logger.Info().Msgf("opened %s position (%s) for %s, %.2f lots @ %f, stoploss %f, target %f",
		pos.Direction.String(), pos.ID, pos.Market, pos.Lots, pos.EntryPrice, pos.StopLoss, pos.Target)

	return nil
}

// Run handles the lifecycle processes of the position manager.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case decision := <-m.decisions:
			m.workers <- struct{}{}
			go func(decision *shared.Decision) {
				err := m.handleDecision(ctx, decision)
				if err != nil {
					m.cfg.Logger.Error().Err(err).Send()
				}
				<-m.workers
			}(&decision)
		}
	}
}
