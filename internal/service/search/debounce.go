package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a call that a newer call replaced before its
// result could be used.
var ErrSuperseded = errors.New("superseded by a newer search")

// DefaultDebounce is the quiet period before a keystroke search is sent.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer lets only the newest call run. Each call waits for the quiet
// period; starting a new call cancels the previous one, and a result that
// arrives after being superseded is discarded.
type Debouncer[T any] struct {
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay}
}

func (d *Debouncer[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()
	defer d.release(gen, cancel)

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		if d.stale(gen) {
			return zero, ErrSuperseded
		}
		return zero, ctx.Err()
	case <-timer.C:
	}

	v, err := fn(ctx)
	if d.stale(gen) {
		return zero, ErrSuperseded
	}
	return v, err
}

func (d *Debouncer[T]) stale(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen != gen
}

func (d *Debouncer[T]) release(gen uint64, cancel context.CancelFunc) {
	cancel()
	d.mu.Lock()
	if d.gen == gen {
		d.cancel = nil
	}
	d.mu.Unlock()
}
