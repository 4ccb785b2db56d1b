package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
)

// Policy bounds one retrying operation. The backoff multiplier is fixed at 2.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// PolicyFromProfile derives the retry policy for a chain from its timeout
// profile.
func PolicyFromProfile(profile config.ChainProfile) Policy {
	return Policy{
		MaxRetries: profile.Timeouts.RetryAttempts,
		BaseDelay:  time.Duration(profile.Timeouts.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(profile.Timeouts.RetryMaxDelayMs) * time.Millisecond,
	}
}

// Delay returns the backoff before retry attempt n (0-indexed):
// min(base * 2^n, max). The sequence is non-decreasing and bounded.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}

	if delay > p.MaxDelay {
		return p.MaxDelay
	}

	return delay
}

// Operation is a single attempt of some asynchronous action. Results are
// captured by the closure.
type Operation func(ctx context.Context) error

// Engine executes operations with bounded exponential backoff for one chain.
// Whether an error is worth another attempt is decided by the classifier
// unless the caller supplies its own predicate.
type Engine struct {
	profile    config.ChainProfile
	classifier *classify.Classifier
}

func NewEngine(profile config.ChainProfile, classifier *classify.Classifier) *Engine {
	return &Engine{
		profile:    profile,
		classifier: classifier,
	}
}

// Execute runs op until it succeeds, the error is not retryable, or
// policy.MaxRetries retries are exhausted. The returned error is always a
// *types.ClassifiedError.
func (e *Engine) Execute(ctx context.Context, policy Policy, op Operation,
	shouldRetry func(error) bool) error {
	if shouldRetry == nil {
		shouldRetry = func(err error) bool {
			return e.classifier.Retryable(err, e.profile)
		}
	}

	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := policy.Delay(attempt - 1)
			log.Verbosef("Retrying on chain %s, attempt = %d, delay = %s", e.profile.Chain,
				attempt, delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return e.classifier.Classify(ctx.Err(), e.profile)
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !shouldRetry(lastErr) {
			break
		}
	}

	return e.classifier.Classify(lastErr, e.profile)
}

// ExecuteWithTimeout races Execute against an absolute wall-clock deadline.
// When the timer wins, the returned error has kind Timeout; the in-flight
// attempt is left to finish on its own since this engine does not own it.
func (e *Engine) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, policy Policy,
	op Operation, shouldRetry func(error) bool) error {
	done := make(chan error, 1)
	go func() {
		done <- e.Execute(ctx, policy, op, shouldRetry)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return e.classifier.Classify(
			fmt.Errorf("operation timed out after %s on chain %s", timeout, e.profile.Chain),
			e.profile)
	}
}
