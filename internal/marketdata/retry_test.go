package marketdata

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("still broken")
	err := WithRetry(context.Background(), fastPolicy(), func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryNoDataIsTerminal(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(), func() error {
		calls++
		return fmt.Errorf("%w: FAKE", ErrNoData)
	})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("no-data must not be retried, got %d calls", calls)
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, RetryPolicy{Attempts: 5, BaseDelay: 50 * time.Millisecond}, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("second acquire should have waited for a refill")
	}
}

func TestRateLimiterContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSampleProviderDeterministic(t *testing.T) {
	p := NewSampleProvider()
	ctx := context.Background()

	a, err := p.Profile(ctx, "aapl")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Profile(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if a.CurrentPrice != b.CurrentPrice || *a.Beta != *b.Beta {
		t.Error("profile must be deterministic per symbol, case-insensitive")
	}

	h1, err := p.History(ctx, "AAPL", 120)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := p.History(ctx, "AAPL", 120)
	if len(h1) != 120 {
		t.Fatalf("expected 120 candles, got %d", len(h1))
	}
	if h1[50].Close != h2[50].Close {
		t.Error("history must be deterministic per symbol")
	}
	for _, c := range h1 {
		if c.Low > c.High || c.Close <= 0 {
			t.Fatalf("malformed candle: %+v", c)
		}
	}
}
