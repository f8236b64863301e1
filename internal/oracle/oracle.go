// Package oracle asks a text-generation model for a game prediction.
package oracle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Oracle turns a prompt into free-form text.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to Oracle.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Gate allows at most one call per interval.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate returns a gate with the given spacing between calls. A non-positive interval never blocks.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call may go out or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Reserve claims the next slot as of now and returns how long the caller must wait before using it.
func (g *Gate) Reserve(now time.Time) time.Duration {
	return g.limiter.ReserveN(now, 1).DelayFrom(now)
}

// WaitError is returned by a gated oracle when the gate could not admit the call before ctx ended.
// The wrapped oracle was not called.
type WaitError struct {
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("waiting for oracle gate: %v", e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

// Gated wraps an oracle so every call first waits on the gate.
func Gated(o Oracle, g *Gate) Oracle {
	return Func(func(ctx context.Context, prompt string) (string, error) {
		if err := g.Wait(ctx); err != nil {
			return "", &WaitError{Err: err}
		}
		return o.Generate(ctx, prompt)
	})
}
