package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dnldd/wmauto/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func newOrderRequest() *shared.OrderRequest {
	return &shared.OrderRequest{
		ID:        "id",
		Market:    "XAUUSD",
		Direction: shared.Long,
		Lots:      0.05,
		StopLoss:  97.5,
		Target:    113.25,
		Tag:       444001,
		CreatedOn: time.Now().UTC(),
	}
}

func TestBrokerSinkSubmitOrder(t *testing.T) {
	var received gjson.Result
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = gjson.ParseBytes(body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderid":"ord-1","fillprice":102.5,"executedon":"2025-02-04 15:00:00"}`))
	}))
	defer server.Close()

	client := NewBrokerClient(&BrokerConfig{APIKey: "key", BaseURL: server.URL})
	logger := zerolog.Nop()
	sink := NewBrokerSink(client, &logger)

	req := newOrderRequest()
	result, err := sink.SubmitOrder(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, result.OrderID, "ord-1")
	assert.Equal(t, result.FillPrice, 102.5)
	assert.Equal(t, result.Market, req.Market)
	assert.Equal(t, result.Direction, shared.Long)
	assert.Equal(t, result.Simulated, false)
	assert.Equal(t, result.ExecutedOn.Year(), 2025)

	// Ensure the order payload carries the expected fields.
	assert.Equal(t, received.Get("symbol").String(), "XAUUSD")
	assert.Equal(t, received.Get("direction").String(), "long")
	assert.Equal(t, received.Get("tag").Uint(), uint64(444001))
	assert.Equal(t, received.Get("lots").Float(), 0.05)
}

func TestBrokerSinkRejectedOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"insufficient margin"}`))
	}))
	defer server.Close()

	client := NewBrokerClient(&BrokerConfig{APIKey: "key", BaseURL: server.URL})
	logger := zerolog.Nop()
	sink := NewBrokerSink(client, &logger)

	_, err := sink.SubmitOrder(context.Background(), newOrderRequest())
	assert.Error(t, err)
}

func TestSimulatedSinkSubmitOrder(t *testing.T) {
	now := time.Date(2025, 2, 4, 15, 0, 0, 0, time.UTC)
	logger := zerolog.Nop()
	sink := NewSimulatedSink(&fixedClock{now: now}, &logger)

	req := newOrderRequest()
	result, err := sink.SubmitOrder(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, result.Market, req.Market)
	assert.Equal(t, result.Direction, shared.Long)
	assert.Equal(t, result.Lots, req.Lots)
	assert.Equal(t, result.Simulated, true)
	assert.Equal(t, result.ExecutedOn, now)
	assert.True(t, result.OrderID != "")

	// Ensure a nil order request fails.
	_, err = sink.SubmitOrder(context.Background(), nil)
	assert.Error(t, err)
}
