package position

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dnldd/wmauto/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

// fakeClock is a Clock fixed at a settable time.
type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.now = now
}

// fakeSink is an OrderSink recording submitted orders.
type fakeSink struct {
	mtx    sync.Mutex
	orders []*shared.OrderRequest
	fail   bool
}

func (s *fakeSink) SubmitOrder(_ context.Context, req *shared.OrderRequest) (*shared.OrderResult, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.fail {
		return nil, fmt.Errorf("venue rejected order")
	}

	s.orders = append(s.orders, req)
	return &shared.OrderResult{
		OrderID:    "order-1",
		Market:     req.Market,
		Direction:  req.Direction,
		Lots:       req.Lots,
		Simulated:  true,
		ExecutedOn: req.CreatedOn,
	}, nil
}

func (s *fakeSink) submitted() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.orders)
}

// fakeAccount is an AccountSource with a settable balance.
type fakeAccount struct {
	mtx     sync.Mutex
	balance float64
}

func (a *fakeAccount) FetchBalance(_ context.Context) (float64, error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.balance, nil
}

func (a *fakeAccount) Set(balance float64) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.balance = balance
}

func setupManager(t *testing.T, sink *fakeSink, account *fakeAccount, clock *fakeClock) *Manager {
	t.Helper()

	mgr, err := NewManager(&ManagerConfig{
		Market:              "XAUUSD",
		OrderSink:           sink,
		AccountSource:       account,
		MaxDailyLossPercent: 0.08,
		OrderTag:            444001,
		Clock:               clock,
		Logger:              log.Logger,
	})
	assert.NoError(t, err)

	return mgr
}

func TestManagerConfigValidate(t *testing.T) {
	_, err := NewManager(&ManagerConfig{})
	assert.Error(t, err)

	_, err = NewManager(&ManagerConfig{
		Market:              "XAUUSD",
		OrderSink:           &fakeSink{},
		AccountSource:       &fakeAccount{},
		MaxDailyLossPercent: 2,
		Clock:               &fakeClock{},
		Logger:              log.Logger,
	})
	assert.Error(t, err)
}

func TestHandleDecision(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	sink := &fakeSink{}
	account := &fakeAccount{balance: 10000}
	clock := &fakeClock{now: now}
	mgr := setupManager(t, sink, account, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure a no direction decision submits no order.
	noDecision := shared.NewNoDecision("XAUUSD", now)
	err := mgr.handleDecision(ctx, &noDecision)
	assert.NoError(t, err)
	assert.Equal(t, <-noDecision.Status, shared.Processed)
	assert.Equal(t, sink.submitted(), 0)
	assert.Equal(t, len(mgr.FetchPositions()), 0)

	// Ensure an actionable decision opens a position through the order sink.
	decision := shared.NewDecision("XAUUSD", shared.Long, 0.2, 102, 97.5, 450, 113.25,
		[]shared.Reason{shared.BuySideSweep}, now)
	err = mgr.handleDecision(ctx, &decision)
	assert.NoError(t, err)
	assert.Equal(t, <-decision.Status, shared.Processed)
	assert.Equal(t, sink.submitted(), 1)
	assert.Equal(t, sink.orders[0].Tag, uint32(444001))

	positions := mgr.FetchPositions()
	assert.Equal(t, len(positions), 1)
	assert.Equal(t, positions[0].Status, Active)
	assert.Equal(t, positions[0].OrderID, "order-1")
}

func TestHandleDecisionRejectedOrder(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	sink := &fakeSink{fail: true}
	account := &fakeAccount{balance: 10000}
	clock := &fakeClock{now: now}
	mgr := setupManager(t, sink, account, clock)

	decision := shared.NewDecision("XAUUSD", shared.Short, 0.01, 104, 112.5, 850, 82.75,
		[]shared.Reason{shared.SellSideSweep}, now)
	err := mgr.handleDecision(context.Background(), &decision)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOrderSubmission))

	// Ensure the rejected position stays tracked for inspection.
	positions := mgr.FetchPositions()
	assert.Equal(t, len(positions), 1)
	assert.Equal(t, positions[0].Status, Rejected)
	assert.Equal(t, positions[0].OrderID, "")
}

func TestDailyLossSuppression(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	sink := &fakeSink{}
	account := &fakeAccount{balance: 10000}
	clock := &fakeClock{now: now}
	mgr := setupManager(t, sink, account, clock)

	ctx := context.Background()

	newDecision := func() shared.Decision {
		return shared.NewDecision("XAUUSD", shared.Long, 0.2, 102, 97.5, 450, 113.25,
			[]shared.Reason{shared.BuySideSweep}, clock.Now())
	}

	// The first decision of the day records the day start balance.
	decision := newDecision()
	err := mgr.handleDecision(ctx, &decision)
	assert.NoError(t, err)
	assert.Equal(t, sink.submitted(), 1)

	// A drawdown beyond the daily limit suppresses subsequent entries.
	account.Set(9100)
	decision = newDecision()
	err = mgr.handleDecision(ctx, &decision)
	assert.NoError(t, err)
	assert.Equal(t, sink.submitted(), 1)

	// Recovery within the same day does not lift the suppression.
	account.Set(10000)
	decision = newDecision()
	err = mgr.handleDecision(ctx, &decision)
	assert.NoError(t, err)
	assert.Equal(t, sink.submitted(), 1)

	// A new day resets the tracking.
	clock.Set(now.AddDate(0, 0, 1))
	decision = newDecision()
	err = mgr.handleDecision(ctx, &decision)
	assert.NoError(t, err)
	assert.Equal(t, sink.submitted(), 2)
}

func TestManagerRun(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	sink := &fakeSink{}
	account := &fakeAccount{balance: 10000}
	clock := &fakeClock{now: now}
	mgr := setupManager(t, sink, account, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		mgr.Run(ctx)
		close(done)
	}()

	decision := shared.NewDecision("XAUUSD", shared.Long, 0.2, 102, 97.5, 450, 113.25,
		[]shared.Reason{shared.BuySideSweep}, now)
	mgr.SendDecision(decision)

	select {
	case status := <-decision.Status:
		assert.Equal(t, status, shared.Processed)
	case <-time.After(time.Second * 5):
		t.Fatal("timed out waiting for decision to be processed")
	}

	assert.Equal(t, sink.submitted(), 1)

	cancel()
	<-done
}
