package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dnldd/wmauto/shared"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Profile captures the instrument specific settings of the traded market.
type Profile struct {
	// PipSize is the minimum quoted price step of the market.
	PipSize float64 `yaml:"pipsize"`
	// PipValue is the assumed per lot value of a one pip move.
	PipValue float64 `yaml:"pipvalue"`
	// MinimumLot is the minimum tradable lot size.
	MinimumLot float64 `yaml:"minimumlot"`
	// LotStep is the lot size increment.
	LotStep float64 `yaml:"lotstep"`
	// DefaultLot is the fallback lot size for simulation.
	DefaultLot float64 `yaml:"defaultlot"`
	// StopBuffer is the price buffer applied beyond a zone when placing stops.
	StopBuffer float64 `yaml:"stopbuffer"`
	// RewardMultiple is the ratio of target distance to stop distance.
	RewardMultiple float64 `yaml:"rewardmultiple"`
	// MaxDailyLossPercent is the daily drawdown limit.
	MaxDailyLossPercent float64 `yaml:"maxdailylosspercent"`
	// OrderTag identifies orders placed by this service at the broker.
	OrderTag uint32 `yaml:"ordertag"`
	// Sessions are the allowed trading windows.
	Sessions []shared.SessionWindow `yaml:"sessions"`
}

// defaultProfile returns the default instrument profile.
func defaultProfile() Profile {
	return Profile{
		PipSize:             0.01,
		PipValue:            10.0,
		MinimumLot:          0.01,
		LotStep:             0.01,
		DefaultLot:          0.05,
		StopBuffer:          0.5,
		RewardMultiple:      2.5,
		MaxDailyLossPercent: 0.08,
		OrderTag:            444001,
		Sessions: []shared.SessionWindow{
			{Open: 7, Close: 16},
			{Open: 12, Close: 21},
		},
	}
}

// Config is the configuration struct for the service.
type Config struct {
	// Market represents the traded market.
	Market string
	// BrokerAPIKey is the brokerage API key.
	BrokerAPIKey string
	// BrokerURL is the brokerage API base url.
	BrokerURL string
	// Live is the live trading flag.
	Live bool
	// Lookback is the number of base timeframe candles fetched per cycle.
	Lookback int
	// RiskFraction is the fraction of the account balance risked per trade.
	RiskFraction float64
	// ProfilePath is the filepath to the instrument profile.
	ProfilePath string

	// Profile holds the loaded instrument profile.
	Profile Profile

	registeredFlags map[string]bool
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("no market provided for automation service"))
	}
	if cfg.Live && cfg.BrokerAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("broker api key cannot be an empty string in live mode"))
	}
	if cfg.Lookback <= 0 {
		errs = errors.Join(errs, fmt.Errorf("lookback must be positive"))
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1 {
		errs = errors.Join(errs, fmt.Errorf("risk fraction must be in (0,1]"))
	}
	if cfg.Profile.PipSize <= 0 {
		errs = errors.Join(errs, fmt.Errorf("pip size must be positive"))
	}
	if cfg.Profile.PipValue <= 0 {
		errs = errors.Join(errs, fmt.Errorf("pip value must be positive"))
	}
	if cfg.Profile.MinimumLot <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum lot must be positive"))
	}
	if cfg.Profile.LotStep <= 0 {
		errs = errors.Join(errs, fmt.Errorf("lot step must be positive"))
	}
	if cfg.Profile.RewardMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("reward multiple must be positive"))
	}
	if len(cfg.Profile.Sessions) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no session windows provided"))
	}
	for idx := range cfg.Profile.Sessions {
		if err := cfg.Profile.Sessions[idx].Validate(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}

// loadProfile loads the instrument profile from the provided filepath,
// falling back to the default profile when no path is set.
func (cfg *Config) loadProfile() error {
	cfg.Profile = defaultProfile()

	if cfg.ProfilePath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("reading instrument profile: %w", err)
	}

	err = yaml.Unmarshal(data, &cfg.Profile)
	if err != nil {
		return fmt.Errorf("parsing instrument profile: %w", err)
	}

	return nil
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(strings.ToUpper(name))
	if defValue == "" {
		defValue = os.Getenv(name)
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Float64:
		var def float64
		if defValue != "" {
			def, _ = strconv.ParseFloat(defValue, 64)
		}
		flag.Float64Var(value.(*float64), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("market", &cfg.Market, "the traded market")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("brokerapikey", &cfg.BrokerAPIKey, "the brokerage api key")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("brokerurl", &cfg.BrokerURL, "the brokerage api base url")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("live", &cfg.Live, "the live trading flag")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("lookback", &cfg.Lookback, "the candles fetched per cycle")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("riskfraction", &cfg.RiskFraction, "the balance fraction risked per trade")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("profilepath", &cfg.ProfilePath, "the instrument profile filepath")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	if cfg.Lookback == 0 {
		cfg.Lookback = defaultLookback
	}
	if cfg.RiskFraction == 0 {
		cfg.RiskFraction = defaultRiskFraction
	}

	err = cfg.loadProfile()
	if err != nil {
		return err
	}

	return cfg.Validate()
}
