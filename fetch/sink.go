package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/wmauto/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// BrokerSink submits orders to the brokerage API.
type BrokerSink struct {
	client *BrokerClient
	logger *zerolog.Logger
}

// Ensure the BrokerSink implements the OrderSink interface.
var _ shared.OrderSink = (*BrokerSink)(nil)

// NewBrokerSink instantiates a new broker order sink.
func NewBrokerSink(client *BrokerClient, logger *zerolog.Logger) *BrokerSink {
	return &BrokerSink{
		client: client,
		logger: logger,
	}
}

// SubmitOrder submits the provided order to the brokerage for execution.
func (s *BrokerSink) SubmitOrder(ctx context.Context, req *shared.OrderRequest) (*shared.OrderResult, error) {
	params := url.Values{}
	params.Add("apikey", s.client.cfg.APIKey)

	payload, err := json.Marshal(map[string]interface{}{
		"id":        req.ID,
		"symbol":    req.Market,
		"direction": req.Direction.String(),
		"lots":      req.Lots,
		"stoploss":  req.StopLoss,
		"target":    req.Target,
		"tag":       req.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling order payload: %w", err)
	}

	formedURL := s.client.formURL(ordersPath, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, formedURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submitting order for %s: %w", req.Market, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading order response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("order for %s rejected with status %d: %s", req.Market,
			resp.StatusCode, string(body))
	}

	data := gjson.ParseBytes(body)

	executed := time.Now().UTC()
	if dt := data.Get("executedon"); dt.Exists() {
		parsed, err := time.Parse(shared.DateLayout, dt.String())
		if err == nil {
			executed = parsed
		}
	}

	result := &shared.OrderResult{
		OrderID:    data.Get("orderid").String(),
		Market:     req.Market,
		Direction:  req.Direction,
		Lots:       req.Lots,
		FillPrice:  data.Get("fillprice").Float(),
		Simulated:  false,
		ExecutedOn: executed,
	}

	return result, nil
}

// SimulatedSink acknowledges orders synthetically without contacting any
// external venue. It backs the non live mode of the service.
type SimulatedSink struct {
	clock  shared.Clock
	logger *zerolog.Logger
}

// Ensure the SimulatedSink implements the OrderSink interface.
var _ shared.OrderSink = (*SimulatedSink)(nil)

// NewSimulatedSink instantiates a new simulated order sink.
func NewSimulatedSink(clock shared.Clock, logger *zerolog.Logger) *SimulatedSink {
	return &SimulatedSink{
		clock:  clock,
		logger: logger,
	}
}

// SubmitOrder returns a synthetic acknowledgement for the provided order.
func (s *SimulatedSink) SubmitOrder(_ context.Context, req *shared.OrderRequest) (*shared.OrderResult, error) {
	if req == nil {
		return nil, fmt.Errorf("order request cannot be nil")
	}

	s.logger.Info().Msgf("simulated order request: %s", spew.Sdump(req))

	result := &shared.OrderResult{
		OrderID:    uuid.New().String(),
		Market:     req.Market,
		Direction:  req.Direction,
		Lots:       req.Lots,
		Simulated:  true,
		ExecutedOn: s.clock.Now(),
	}

	return result, nil
}
