package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/pkg/ai"
)

// FallbackFunc produces deterministic text locally when every provider in the
// chain has failed. It must be a pure function of its input.
type FallbackFunc func(input string) string

// Result carries the generated text along with where it came from.
type Result struct {
	Text         string
	Provider     string
	UsedFallback bool
}

// Chain walks an ordered list of text generators until one succeeds.
// Throttled candidates are retried in place with exponential backoff; every
// other failure advances to the next candidate immediately.
type Chain struct {
	candidates  []ai.TextGenerator
	fallback    FallbackFunc
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *zap.Logger
}

// Option configures a Chain
type Option func(*Chain)

// WithFallback installs a local fallback used when all candidates fail
func WithFallback(fn FallbackFunc) Option {
	return func(c *Chain) {
		c.fallback = fn
	}
}

// WithMaxAttempts sets per-candidate attempts for throttled errors
func WithMaxAttempts(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the base backoff delay between throttled retries
func WithBaseDelay(d time.Duration) Option {
	return func(c *Chain) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithSleep replaces the sleep function, used by tests to avoid real waits
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Chain) {
		c.sleep = fn
	}
}

// NewChain creates a provider fallback chain
func NewChain(candidates []ai.TextGenerator, logger *zap.Logger, opts ...Option) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{
		candidates:  candidates,
		maxAttempts: 2,
		baseDelay:   time.Second,
		sleep:       sleepContext,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Generate runs the prompt through the chain. When every candidate fails and a
// fallback is installed, the fallback output is returned with UsedFallback set.
// Without a fallback the last provider error is returned.
func (c *Chain) Generate(ctx context.Context, prompt string) (*Result, error) {
	var lastErr error

	for _, candidate := range c.candidates {
		text, err := c.tryCandidate(ctx, candidate, prompt)
		if err == nil {
			return &Result{Text: text, Provider: candidate.ProviderID()}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Warn("text generation candidate failed, advancing",
			zap.String("provider", candidate.ProviderID()),
			zap.String("kind", ai.KindOf(err).String()),
			zap.Error(err))
	}

	if c.fallback != nil {
		c.logger.Warn("all text generation candidates failed, using local fallback",
			zap.Int("candidates", len(c.candidates)),
			zap.Error(lastErr))
		return &Result{Text: c.fallback(prompt), Provider: "fallback", UsedFallback: true}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no generation candidates configured")
	}
	return nil, lastErr
}

// tryCandidate calls one provider, retrying in place only when throttled.
// Attempt n sleeps baseDelay*2^n before retrying.
func (c *Chain) tryCandidate(ctx context.Context, candidate ai.TextGenerator, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		text, err := candidate.GenerateText(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ai.KindOf(err) != ai.ErrorKindThrottled {
			return "", err
		}
		if attempt == c.maxAttempts-1 {
			break
		}

		delay := c.baseDelay * (1 << attempt)
		c.logger.Info("provider throttled, backing off",
			zap.String("provider", candidate.ProviderID()),
			zap.Duration("delay", delay),
			zap.Int("attempt", attempt+1))
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}
