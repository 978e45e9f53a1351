package eventbus

import (
	"context"

	"github.com/v4ll3l1/Nimbus/internal/model"
)

// Handler processes one delivery of an event to a subscription.
type Handler func(ctx context.Context, evt *model.Message) error

// ErrorSink receives a delivery's final error once its retry budget is
// exhausted. If a subscription has none, the error is logged instead.
type ErrorSink func(err error, evt *model.Message)

type subscription struct {
	handler Handler
	onError ErrorSink
	retry   RetryPolicy
}

type subscribeOptions struct {
	retry   *RetryPolicy
	onError ErrorSink
}

// SubscribeOption configures a single Subscribe call.
type SubscribeOption func(*subscribeOptions)

// WithRetryPolicy overrides the bus-level default retry policy for this
// subscription only.
func WithRetryPolicy(policy RetryPolicy) SubscribeOption {
	return func(o *subscribeOptions) { o.retry = &policy }
}

// WithErrorSink installs the onError callback invoked once this
// subscription's retries are exhausted.
func WithErrorSink(sink ErrorSink) SubscribeOption {
	return func(o *subscribeOptions) { o.onError = sink }
}
