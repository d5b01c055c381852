package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dnldd/wmauto/service"
)

const (
	// defaultLookback is the default number of candles fetched per cycle.
	defaultLookback = 500
	// defaultRiskFraction is the default balance fraction risked per trade.
	defaultRiskFraction = 0.01
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	autoCfg := service.AutoConfig{
		Market:              cfg.Market,
		BrokerAPIKey:        cfg.BrokerAPIKey,
		BrokerURL:           cfg.BrokerURL,
		Live:                cfg.Live,
		Lookback:            cfg.Lookback,
		RiskFraction:        cfg.RiskFraction,
		SessionWindows:      cfg.Profile.Sessions,
		PipSize:             cfg.Profile.PipSize,
		PipValue:            cfg.Profile.PipValue,
		MinimumLot:          cfg.Profile.MinimumLot,
		LotStep:             cfg.Profile.LotStep,
		DefaultLot:          cfg.Profile.DefaultLot,
		StopBuffer:          cfg.Profile.StopBuffer,
		RewardMultiple:      cfg.Profile.RewardMultiple,
		MaxDailyLossPercent: cfg.Profile.MaxDailyLossPercent,
		OrderTag:            cfg.Profile.OrderTag,
		Cancel:              cancel,
	}
	auto, err := service.NewAuto(&autoCfg)
	if err != nil {
		log.Printf("creating automation service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	auto.Run(ctx)
}
