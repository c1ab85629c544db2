package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testScheduler(maxRetries int) *Scheduler {
	return New(Options{
		Spec:       "*/15 * * * *",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	}, zerolog.Nop())
}

func TestExecuteRetriesUntilExhausted(t *testing.T) {
	calls := 0
	run := func(ctx context.Context) bool {
		calls++
		return false
	}

	testScheduler(2).execute(context.Background(), run)
	require.Equal(t, 3, calls)
}

func TestExecuteStopsOnSuccess(t *testing.T) {
	calls := 0
	run := func(ctx context.Context) bool {
		calls++
		return calls >= 2
	}

	testScheduler(2).execute(context.Background(), run)
	require.Equal(t, 2, calls)
}

func TestExecuteNoRetriesWhenSuccessful(t *testing.T) {
	calls := 0
	run := func(ctx context.Context) bool {
		calls++
		return true
	}

	testScheduler(2).execute(context.Background(), run)
	require.Equal(t, 1, calls)
}

func TestExecuteHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	run := func(ctx context.Context) bool {
		calls++
		cancel()
		return false
	}

	testScheduler(5).execute(ctx, run)
	require.Equal(t, 1, calls)
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testScheduler(0).Run(ctx, func(ctx context.Context) bool { return true })
	require.ErrorIs(t, err, context.Canceled)
}
