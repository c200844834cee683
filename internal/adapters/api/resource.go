package api

import (
	"context"
	"sync"
)

type LoadState int

const (
	Loading LoadState = iota
	Ready
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Resource is a remote value with an explicit load state.
type Resource[T any] struct {
	mu    sync.RWMutex
	state LoadState
	value *T
	err   error
	done  chan struct{}
}

// Load starts fetch in the background and returns the pending resource.
func Load[T any](ctx context.Context, fetch func(context.Context) (*T, error)) *Resource[T] {
	r := &Resource[T]{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		v, err := fetch(ctx)
		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.state, r.err = Failed, err
			return
		}
		r.state, r.value = Ready, v
	}()
	return r
}

func (r *Resource[T]) State() LoadState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Resource[T]) Done() <-chan struct{} { return r.done }

// Wait blocks until the load settles or ctx ends.
func (r *Resource[T]) Wait(ctx context.Context) (*T, error) {
	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value, r.err
}
