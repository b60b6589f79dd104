package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
)

func TestBreakerPassesResultsThrough(t *testing.T) {
	t.Parallel()

	b := NewBreaker[int]("menu", Settings{})
	got, err := b.Do(context.Background(), func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, "menu", b.Name())
}

func TestBreakerWrapsUntypedFailures(t *testing.T) {
	t.Parallel()

	b := NewBreaker[int]("discounts", Settings{})
	_, err := b.Do(context.Background(), func(context.Context) (int, error) { return 0, errors.New("connection refused") })
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamUnavailable))
	assert.True(t, pkgerrors.As(err).Retryable())
}

func TestBreakerKeepsTypedDomainErrors(t *testing.T) {
	t.Parallel()

	var transitions []string
	b := NewBreaker[int]("restaurants", Settings{
		MaxFailures:  1,
		OnTransition: func(_, to string) { transitions = append(transitions, to) },
	})
	for i := 0; i < 3; i++ {
		_, err := b.Do(context.Background(), func(context.Context) (int, error) {
			return 0, pkgerrors.NotFound("restaurant", "r-1")
		})
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	}
	assert.Equal(t, "closed", b.State())
	assert.Empty(t, transitions)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	var transitions []string
	b := NewBreaker[int]("menu", Settings{
		MaxFailures:  2,
		OpenTimeout:  time.Minute,
		OnTransition: func(_, to string) { transitions = append(transitions, to) },
	})
	fail := func(context.Context) (int, error) { return 0, errors.New("boom") }

	_, _ = b.Do(context.Background(), fail)
	_, _ = b.Do(context.Background(), fail)
	require.Equal(t, "open", b.State())
	assert.Equal(t, []string{"open"}, transitions)

	calls := 0
	_, err := b.Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 1, nil
	})
	assert.Zero(t, calls)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamUnavailable))
}

func TestBreakerAppliesTimeout(t *testing.T) {
	t.Parallel()

	b := NewBreaker[int]("menu", Settings{Timeout: 10 * time.Millisecond})
	_, err := b.Do(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamUnavailable))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
