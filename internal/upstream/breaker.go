// Package upstream guards collaborator fetches with a timeout and a circuit breaker.
package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
)

// Settings configure a Breaker.
type Settings struct {
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
	// OnTransition is called with the collaborator name and the new state.
	OnTransition func(name, to string)
}

// Breaker runs fetches for one named collaborator.
type Breaker[T any] struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[T]
}

// NewBreaker builds a breaker that opens after MaxFailures consecutive upstream failures.
func NewBreaker[T any](name string, settings Settings) *Breaker[T] {
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, _ gobreaker.State, to gobreaker.State) {
			if settings.OnTransition != nil {
				settings.OnTransition(name, to.String())
			}
		},
	})
	return &Breaker[T]{name: name, timeout: settings.Timeout, cb: cb}
}

// Name returns the collaborator name.
func (b *Breaker[T]) Name() string {
	return b.name
}

// Do runs fn under the breaker. Open-circuit rejections, timeouts and untyped
// failures surface as UPSTREAM_UNAVAILABLE; typed domain errors pass through.
func (b *Breaker[T]) Do(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	result, err := b.cb.Execute(func() (T, error) {
		return fn(callCtx)
	})
	if err == nil {
		return result, nil
	}

	var zero T
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, pkgerrors.UpstreamUnavailable(b.name, err)
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeInternal {
		return zero, err
	}
	return zero, pkgerrors.UpstreamUnavailable(b.name, err)
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}

// countsAsSuccess keeps caller mistakes such as NOT_FOUND from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	switch typed.Code() {
	case pkgerrors.CodeInternal, pkgerrors.CodeDependency, pkgerrors.CodeUpstreamUnavailable:
		return false
	default:
		return true
	}
}
