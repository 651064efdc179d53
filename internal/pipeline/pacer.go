package pipeline

import (
	"context"
	"time"
)

// Pacer inserts a fixed pause between consecutive targets.
type Pacer struct {
	Delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{Delay: delay, sleep: sleepContext}
}

// Wait pauses after target index of total. It returns immediately for a
// single target, after the last target, or when Delay is zero.
func (p *Pacer) Wait(ctx context.Context, index, total int) error {
	if total <= 1 || index >= total-1 || p.Delay <= 0 {
		return nil
	}
	return p.sleep(ctx, p.Delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
