package eventbus

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/v4ll3l1/Nimbus/internal/clock"
	"github.com/v4ll3l1/Nimbus/internal/model"
	"github.com/v4ll3l1/Nimbus/internal/nerrors"
)

func newTestEvent(t *testing.T, eventType string, data any) *model.Message {
	t.Helper()
	return model.CreateEvent(model.Input{
		Source: "test-suite",
		Type:   eventType,
		Data:   data,
	}, "test-subject")
}

func TestPutEventRejectsOversizedPayload(t *testing.T) {
	b := New("oversize", WithClock(clock.NewFake(time.Unix(0, 0))))

	huge := strings.Repeat("x", MaxEventSizeBytes)
	evt := newTestEvent(t, "payload.oversized", map[string]any{"blob": huge})

	err := b.PutEvent(context.Background(), evt)
	if err == nil {
		t.Fatal("expected an error for an oversized event")
	}

	nerr, ok := err.(*nerrors.Error)
	if !ok {
		t.Fatalf("expected *nerrors.Error, got %T", err)
	}
	if nerr.Kind != nerrors.KindGeneric {
		t.Fatalf("expected KindGeneric, got %v", nerr.Kind)
	}
	if nerr.Message != "Event size exceeds the limit of 64KB" {
		t.Fatalf("unexpected message: %q", nerr.Message)
	}
	if nerr.Details["eventType"] != "payload.oversized" {
		t.Fatalf("unexpected details: %+v", nerr.Details)
	}
	if nerr.Details["maxSizeBytes"] != MaxEventSizeBytes {
		t.Fatalf("unexpected max size in details: %+v", nerr.Details)
	}
}

func TestPutEventFansOutToEverySubscriber(t *testing.T) {
	b := New("fanout", WithClock(clock.NewFake(time.Unix(0, 0))))

	var calls int32
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		b.Subscribe("order.created", func(ctx context.Context, evt *model.Message) error {
			defer wg.Done()
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}

	evt := newTestEvent(t, "order.created", map[string]any{"orderId": "1"})
	if err := b.PutEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b.wg.Wait()
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected all 3 subscribers to be invoked, got %d", got)
	}
}

func TestPutEventNoSubscribersStillSucceeds(t *testing.T) {
	b := New("no-subs", WithClock(clock.NewFake(time.Unix(0, 0))))
	evt := newTestEvent(t, "nobody.listens", nil)

	if err := b.PutEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.wg.Wait()
}

func TestDeliveryRetriesThenSucceeds(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	b := New("retry-success", WithClock(fake), WithDefaultRetryPolicy(RetryPolicy{
		MaxRetries: 2, BaseDelayMs: 10, MaxDelayMs: 100, UseJitter: false,
	}))

	var attempts int32
	done := make(chan struct{})
	b.Subscribe("payment.failed-twice", func(ctx context.Context, evt *model.Message) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return nerrors.Generic("transient failure")
		}
		close(done)
		return nil
	})

	evt := newTestEvent(t, "payment.failed-twice", nil)
	if err := b.PutEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never succeeded")
	}
	b.wg.Wait()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
	if len(fake.Sleeps()) != 2 {
		t.Fatalf("expected 2 retry sleeps, got %d", len(fake.Sleeps()))
	}
}

func TestDeliveryExhaustsRetriesAndDispatchesError(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	b := New("retry-exhaust", WithClock(fake))

	var attempts int32
	var sinkErr error
	var sinkEvt *model.Message
	sinkCalled := make(chan struct{})

	evt := newTestEvent(t, "payment.always-fails", nil)
	b.Subscribe("payment.always-fails", func(ctx context.Context, evt *model.Message) error {
		atomic.AddInt32(&attempts, 1)
		return nerrors.Generic("permanent failure")
	}, WithRetryPolicy(RetryPolicy{MaxRetries: 2, BaseDelayMs: 1, MaxDelayMs: 10, UseJitter: false}),
		WithErrorSink(func(err error, e *model.Message) {
			sinkErr = err
			sinkEvt = e
			close(sinkCalled)
		}))

	if err := b.PutEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-sinkCalled:
	case <-time.After(2 * time.Second):
		t.Fatal("error sink was never invoked")
	}
	b.wg.Wait()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected handler invoked r+1=3 times, got %d", got)
	}
	if sinkErr == nil {
		t.Fatal("expected sink to receive an error")
	}
	if sinkEvt.Type != "payment.always-fails" {
		t.Fatalf("unexpected event passed to sink: %+v", sinkEvt)
	}
}

func TestSubscriberFailureIsIsolatedFromOtherSubscribers(t *testing.T) {
	b := New("isolation", WithClock(clock.NewFake(time.Unix(0, 0))))

	var okCalled int32
	done := make(chan struct{})

	b.Subscribe("shared.type", func(ctx context.Context, evt *model.Message) error {
		return nerrors.Generic("boom")
	}, WithRetryPolicy(RetryPolicy{MaxRetries: 0}), WithErrorSink(func(err error, e *model.Message) {}))

	b.Subscribe("shared.type", func(ctx context.Context, evt *model.Message) error {
		atomic.AddInt32(&okCalled, 1)
		close(done)
		return nil
	})

	evt := newTestEvent(t, "shared.type", nil)
	if err := b.PutEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("the healthy subscriber was never invoked")
	}
	b.wg.Wait()

	if atomic.LoadInt32(&okCalled) != 1 {
		t.Fatal("expected the healthy subscriber to run despite the other failing")
	}
}

func TestCloseCancelsShutdownContext(t *testing.T) {
	b := New("close", WithClock(clock.NewFake(time.Unix(0, 0))))
	b.Close()

	select {
	case <-b.shutdownCtx.Done():
	default:
		t.Fatal("expected shutdownCtx to be cancelled after Close")
	}
}
