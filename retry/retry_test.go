package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

func testProfile() config.ChainProfile {
	return config.ChainProfile{
		Chain:     "ganache1",
		ChainType: "account_based",
		Timeouts: config.TimeoutProfile{
			RetryAttempts:    3,
			RetryBaseDelayMs: 1,
			RetryMaxDelayMs:  4,
		},
	}
}

func testEngine() *Engine {
	return NewEngine(testProfile(), classify.NewClassifier())
}

func TestPolicy_DelaySequence(t *testing.T) {
	p := Policy{MaxRetries: 10, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	var prev time.Duration
	for k := 0; k < 10; k++ {
		d := p.Delay(k)
		require.True(t, d >= prev, "delay must be non-decreasing")
		require.True(t, d <= p.MaxDelay, "delay must be bounded by MaxDelay")
		prev = d
	}

	require.Equal(t, 100*time.Millisecond, p.Delay(0))
	require.Equal(t, 200*time.Millisecond, p.Delay(1))
	require.Equal(t, 400*time.Millisecond, p.Delay(2))
	require.Equal(t, time.Second, p.Delay(5))
}

func TestExecute_SucceedsAfterTransientFailures(t *testing.T) {
	engine := testEngine()

	calls := 0
	err := engine.Execute(context.Background(), PolicyFromProfile(testProfile()),
		func(ctx context.Context) error {
			calls++
			if calls <= 2 {
				return fmt.Errorf("network error: connection refused")
			}
			return nil
		}, nil)

	require.Nil(t, err)
	require.Equal(t, 3, calls)
}

func TestExecute_AttemptsBounded(t *testing.T) {
	engine := testEngine()

	calls := 0
	err := engine.Execute(context.Background(), Policy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context) error {
			calls++
			return fmt.Errorf("connection refused")
		}, nil)

	require.NotNil(t, err)
	require.Equal(t, 4, calls, "n retries means at most n+1 attempts")

	ce, ok := err.(*types.ClassifiedError)
	require.True(t, ok, "errors must propagate classified")
	require.Equal(t, types.ErrKindNetwork, ce.Kind)
}

func TestExecute_StopsOnNonRetryable(t *testing.T) {
	engine := testEngine()

	calls := 0
	err := engine.Execute(context.Background(), PolicyFromProfile(testProfile()),
		func(ctx context.Context) error {
			calls++
			return fmt.Errorf("user rejected the request")
		}, nil)

	require.NotNil(t, err)
	require.Equal(t, 1, calls)

	ce := err.(*types.ClassifiedError)
	require.Equal(t, types.ErrKindUserRejected, ce.Kind)
}

func TestExecute_CustomPredicate(t *testing.T) {
	engine := testEngine()

	calls := 0
	err := engine.Execute(context.Background(), Policy{MaxRetries: 5, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context) error {
			calls++
			return fmt.Errorf("connection refused")
		}, func(err error) bool {
			return false
		})

	require.NotNil(t, err)
	require.Equal(t, 1, calls)
}

func TestExecuteWithTimeout_TimerWins(t *testing.T) {
	engine := testEngine()

	release := make(chan struct{})
	defer close(release)

	err := engine.ExecuteWithTimeout(context.Background(), 20*time.Millisecond,
		Policy{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context) error {
			<-release
			return nil
		}, nil)

	require.NotNil(t, err)
	ce := err.(*types.ClassifiedError)
	require.Equal(t, types.ErrKindTimeout, ce.Kind)
}

func TestExecuteWithTimeout_OperationWins(t *testing.T) {
	engine := testEngine()

	err := engine.ExecuteWithTimeout(context.Background(), time.Second,
		Policy{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context) error {
			return nil
		}, nil)

	require.Nil(t, err)
}
