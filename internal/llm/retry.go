package llm

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"anchorwriter/internal/logger"
)

const (
	// DefaultBaseDelay is the first wait after a quota failure.
	DefaultBaseDelay = 2 * time.Second
	// DefaultMaxDelay caps any single wait.
	DefaultMaxDelay = 120 * time.Second
	jitterFraction  = 0.2
)

// Retrier wraps a Generator and retries retryable failures with exponential
// backoff. There is no attempt ceiling; only ctx ends the loop.
type Retrier struct {
	next      Generator
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Sleep and Jitter are replaceable in tests.
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func(d time.Duration) time.Duration

	log zerolog.Logger
}

// NewRetrier wraps next with the default backoff.
func NewRetrier(next Generator) *Retrier {
	return &Retrier{
		next:      next,
		BaseDelay: DefaultBaseDelay,
		MaxDelay:  DefaultMaxDelay,
		Sleep:     SleepContext,
		Jitter:    jitter,
		log:       logger.Component("llm.retry"),
	}
}

// Generate calls the wrapped Generator until it succeeds, fails with a
// non-retryable error, or ctx is done.
func (r *Retrier) Generate(ctx context.Context, prompt string, p SamplingParams) (string, error) {
	delay := r.BaseDelay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := r.next.Generate(ctx, prompt, p)
		if err == nil {
			return out, nil
		}

		err = Classify(err)
		var re *RetryableError
		if !errors.As(err, &re) {
			return "", err
		}

		wait := max(r.Jitter(delay), re.SuggestedDelay)
		wait = min(wait, r.MaxDelay)
		r.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("quota exceeded, backing off")

		if err := r.Sleep(ctx, wait); err != nil {
			return "", err
		}
		delay = min(delay*2, r.MaxDelay)
	}
}

// SleepContext waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jitter spreads d uniformly over ±20%.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	delta := d.Seconds() * jitterFraction
	low := max(d.Seconds()-delta, 0)
	high := d.Seconds() + delta
	return time.Duration((low + rand.Float64()*(high-low)) * float64(time.Second))
}
