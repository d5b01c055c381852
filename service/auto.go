package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dnldd/wmauto/engine"
	"github.com/dnldd/wmauto/fetch"
	"github.com/dnldd/wmauto/market"
	"github.com/dnldd/wmauto/position"
	"github.com/dnldd/wmauto/shared"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// AutoConfig represents the configuration struct for the automation service.
type AutoConfig struct {
	// Market is the name of the traded market.
	Market string
	// BrokerAPIKey is the brokerage API key.
	BrokerAPIKey string
	// BrokerURL is the brokerage API base url.
	BrokerURL string
	// Live is the live trading flag. When unset orders are acknowledged
	// synthetically without contacting any external venue.
	Live bool
	// Lookback is the number of base timeframe candles fetched per cycle.
	Lookback int
	// RiskFraction is the fraction of the account balance risked per trade.
	RiskFraction float64
	// SessionWindows are the allowed trading windows.
	SessionWindows []shared.SessionWindow
	// PipSize is the minimum quoted price step of the market.
	PipSize float64
	// PipValue is the assumed per lot value of a one pip move.
	PipValue float64
	// MinimumLot is the minimum tradable lot size.
	MinimumLot float64
	// LotStep is the lot size increment.
	LotStep float64
	// DefaultLot is the fallback lot size used when no balance is obtainable
	// in simulation mode.
	DefaultLot float64
	// StopBuffer is the price buffer applied beyond a zone when placing stops.
	StopBuffer float64
	// RewardMultiple is the ratio of target distance to stop distance.
	RewardMultiple float64
	// MaxDailyLossPercent is the daily drawdown fraction beyond which new
	// positions are suppressed for the rest of the day.
	MaxDailyLossPercent float64
	// OrderTag identifies orders placed by this service at the broker.
	OrderTag uint32
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config has sane inputs.
func (cfg *AutoConfig) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("no market provided for automation service"))
	}
	if cfg.Live && cfg.BrokerAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("broker api key cannot be an empty string in live mode"))
	}
	if cfg.Lookback <= 0 {
		errs = errors.Join(errs, fmt.Errorf("lookback must be positive, got %d", cfg.Lookback))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Auto represents the signal automation service. It runs one evaluation cycle
// per base timeframe interval, each cycle fetching a fresh candlestick
// snapshot and handing the resulting decision to the position manager.
type Auto struct {
	cfg             *AutoConfig
	fetcher         shared.MarketFetcher
	account         shared.AccountSource
	clock           shared.Clock
	signalEngine    *engine.Engine
	positionManager *position.Manager
	jobScheduler    gocron.Scheduler
	logger          *zerolog.Logger
	wg              sync.WaitGroup
}

// NewAuto initializes a new automation service.
func NewAuto(cfg *AutoConfig) (*Auto, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating automation config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "auto").Logger()

	clock := &shared.SystemClock{}

	broker := fetch.NewBrokerClient(&fetch.BrokerConfig{
		APIKey:  cfg.BrokerAPIKey,
		BaseURL: cfg.BrokerURL,
	})

	var orderSink shared.OrderSink
	switch cfg.Live {
	case true:
		sinkLogger := logger.With().Str("component", "brokersink").Logger()
		orderSink = fetch.NewBrokerSink(broker, &sinkLogger)
	case false:
		sinkLogger := logger.With().Str("component", "simulatedsink").Logger()
		orderSink = fetch.NewSimulatedSink(clock, &sinkLogger)
	}

	engineLogger := logger.With().Str("component", "engine").Logger()
	signalEngine, err := engine.NewEngine(&engine.EngineConfig{
		Market:         cfg.Market,
		SessionWindows: cfg.SessionWindows,
		RiskFraction:   cfg.RiskFraction,
		PipSize:        cfg.PipSize,
		PipValue:       cfg.PipValue,
		MinimumLot:     cfg.MinimumLot,
		LotStep:        cfg.LotStep,
		DefaultLot:     cfg.DefaultLot,
		StopBuffer:     cfg.StopBuffer,
		RewardMultiple: cfg.RewardMultiple,
		Clock:          clock,
		Logger:         engineLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating signal engine: %w", err)
	}

	positionMgrLogger := logger.With().Str("component", "positionmanager").Logger()
	positionMgr, err := position.NewManager(&position.ManagerConfig{
		Market:              cfg.Market,
		OrderSink:           orderSink,
		AccountSource:       broker,
		MaxDailyLossPercent: cfg.MaxDailyLossPercent,
		OrderTag:            cfg.OrderTag,
		Clock:               clock,
		Logger:              positionMgrLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating position manager: %w", err)
	}

	jobScheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating job scheduler: %w", err)
	}

	service := &Auto{
		cfg:             cfg,
		fetcher:         broker,
		account:         broker,
		clock:           clock,
		signalEngine:    signalEngine,
		positionManager: positionMgr,
		jobScheduler:    jobScheduler,
		logger:          &logger,
	}

	return service, nil
}

// fetchBalance fetches the current account balance. In simulation mode an
// unreachable account degrades to a zero balance, which sizes entries by the
// default lot instead of aborting the cycle.
func (a *Auto) fetchBalance(ctx context.Context) (float64, error) {
	balance, err := a.account.FetchBalance(ctx)
	if err != nil {
		if !a.cfg.Live {
			a.logger.Warn().Msgf("fetching balance: %v, sizing by default lot", err)
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// runCycle runs one evaluation cycle, fetching a fresh snapshot and relaying
// the decision to the position manager. Failed cycles degrade to no decision
// and are retried at the next scheduled tick.
func (a *Auto) runCycle(ctx context.Context) error {
	candles, err := a.fetcher.FetchCandlesticks(ctx, a.cfg.Market, shared.FifteenMinute, a.cfg.Lookback)
	if err != nil {
		return fmt.Errorf("fetching %s candles: %w", a.cfg.Market, err)
	}

	base := market.NewSeries(a.cfg.Market, shared.FifteenMinute, candles)

	hourly, err := base.Resample(shared.OneHour)
	if err != nil {
		return fmt.Errorf("resampling to %s: %w", shared.OneHour.String(), err)
	}

	fourHourly, err := base.Resample(shared.FourHour)
	if err != nil {
		return fmt.Errorf("resampling to %s: %w", shared.FourHour.String(), err)
	}

	balance, err := a.fetchBalance(ctx)
	if err != nil {
		return fmt.Errorf("fetching balance: %w", err)
	}

	snapshot := &engine.Snapshot{
		Base:       base,
		Hourly:     hourly,
		FourHourly: fourHourly,
	}

	decision, err := a.signalEngine.Evaluate(snapshot, balance)
	if err != nil {
		a.logger.Error().Msgf("evaluating %s cycle: %v", a.cfg.Market, err)
	}

	a.positionManager.SendDecision(decision)

	return nil
}

// Run handles the lifecycle processes of the automation service.
func (a *Auto) Run(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		a.positionManager.Run(ctx)
		a.wg.Done()
	}()

	_, err := a.jobScheduler.NewJob(
		gocron.DurationJob(shared.FifteenMinute.Duration()),
		gocron.NewTask(func() {
			err := a.runCycle(ctx)
			if err != nil {
				a.logger.Error().Err(err).Send()
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		a.logger.Error().Msgf("scheduling evaluation cycles: %v", err)
		a.cfg.Cancel()
	}

	a.jobScheduler.Start()

	<-ctx.Done()

	err = a.jobScheduler.Shutdown()
	if err != nil {
		a.logger.Error().Msgf("shutting down job scheduler: %v", err)
	}

	a.wg.Wait()
}
