package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/wmauto/shared"
	"github.com/tidwall/gjson"
)

const (
	// candlesPath is the brokerage candle history endpoint.
	candlesPath = "/v1/candles"
	// accountPath is the brokerage account details endpoint.
	accountPath = "/v1/account"
	// ordersPath is the brokerage order submission endpoint.
	ordersPath = "/v1/orders"
)

// BrokerConfig represents the configuration for the broker client.
type BrokerConfig struct {
	// APIKey is the brokerage API key.
	APIKey string
	// BaseURL is the brokerage API base url.
	BaseURL string
}

// BrokerClient represents the brokerage API client. It provides market data
// and account details over plain http polling. The client is safe for
// concurrent use, it is shared by the evaluation cycle and the position
// manager workers.
type BrokerClient struct {
	cfg   *BrokerConfig
	httpc http.Client
}

// Ensure the BrokerClient implements the MarketFetcher and AccountSource interfaces.
var _ shared.MarketFetcher = (*BrokerClient)(nil)
var _ shared.AccountSource = (*BrokerClient)(nil)

// NewBrokerClient instantiates a new broker client.
func NewBrokerClient(cfg *BrokerConfig) *BrokerClient {
	return &BrokerClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 5},
	}
}

// formURL creates full urls including parameters for the api.
func (c *BrokerClient) formURL(path string, params string) string {
	var buf strings.Builder
	buf.Grow(len(c.cfg.BaseURL) + len(path) + len(params) + 1)
	buf.WriteString(c.cfg.BaseURL)
	buf.WriteString(path)
	buf.WriteString("?")
	buf.WriteString(params)

	return buf.String()
}

// fetchJSON fetches the provided url and parses the response body as json.
func (c *BrokerClient) fetchJSON(ctx context.Context, formedURL string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("fetching %s: %w", formedURL, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, formedURL)
	}

	return gjson.ParseBytes(body), nil
}

// ParseCandlesticks parses candlesticks from the provided json data.
func (c *BrokerClient) ParseCandlesticks(data []gjson.Result, market string, timeframe shared.Timeframe) ([]shared.Candlestick, error) {
	candles := make([]shared.Candlestick, len(data))
	for idx := range data {
		var candle shared.Candlestick

		candle.Open = data[idx].Get("open").Float()
		candle.Low = data[idx].Get("low").Float()
		candle.High = data[idx].Get("high").Float()
		candle.Close = data[idx].Get("close").Float()
		candle.Volume = data[idx].Get("volume").Float()

		candle.Market = market
		candle.Timeframe = timeframe

		dt, err := time.Parse(shared.DateLayout, data[idx].Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing candlestick date: %w", err)
		}

		candle.Date = dt
		candles[idx] = candle
	}

	return candles, nil
}

// FetchCandlesticks fetches the most recent count candlesticks for the
// provided market and timeframe, ordered ascending by date.
func (c *BrokerClient) FetchCandlesticks(ctx context.Context, market string, timeframe shared.Timeframe, count int) ([]shared.Candlestick, error) {
	params := url.Values{}
	params.Add("symbol", market)
	params.Add("interval", timeframe.String())
	params.Add("count", strconv.Itoa(count))
	params.Add("apikey", c.cfg.APIKey)

	formedURL := c.formURL(candlesPath, params.Encode())

	data, err := c.fetchJSON(ctx, formedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s candles for %s: %w", timeframe.String(), market, err)
	}

	set := data.Array()
	if len(set) == 0 {
		return nil, fmt.Errorf("no %s candles returned for %s: %w", timeframe.String(),
			market, shared.ErrDataUnavailable)
	}

	candles, err := c.ParseCandlesticks(set, market, timeframe)
	if err != nil {
		return nil, err
	}

	return candles, nil
}

// FetchBalance fetches the current account balance.
func (c *BrokerClient) FetchBalance(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Add("apikey", c.cfg.APIKey)

	formedURL := c.formURL(accountPath, params.Encode())

	data, err := c.fetchJSON(ctx, formedURL)
	if err != nil {
		return 0, fmt.Errorf("fetching account details: %w", err)
	}

	balance := data.Get("balance")
	if !balance.Exists() {
		return 0, fmt.Errorf("no balance in account details: %w", shared.ErrDataUnavailable)
	}

	return balance.Float(), nil
}
