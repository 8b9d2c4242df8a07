// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRepository is an in-memory [option.Repository].
type memoryRepository struct {
	mu      sync.Mutex
	options map[option.ResourceKey][]*option.Option
	nextID  int

	// hooks let a test fail or block individual calls.
	listErr   error
	createErr error
	deleteErr map[string]error
	block     chan struct{}

	// echoID=false mimics a backend that does not return the created id.
	echoID bool

	lists   int
	creates int
	deletes int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		options:   make(map[option.ResourceKey][]*option.Option),
		deleteErr: make(map[string]error),
		echoID:    true,
	}
}

func (r *memoryRepository) seed(key option.ResourceKey, options ...*option.Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[key] = append(r.options[key], options...)
}

func (r *memoryRepository) wait(ctx context.Context) error {
	if r.block == nil {
		return nil
	}
	select {
	case <-r.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *memoryRepository) List(ctx context.Context, key option.ResourceKey) ([]*option.Option, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++

	if r.listErr != nil {
		return nil, r.listErr
	}

	out := make([]*option.Option, 0, len(r.options[key]))
	for _, o := range r.options[key] {
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryRepository) Create(ctx context.Context, key option.ResourceKey, draft *option.Draft) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++

	if r.createErr != nil {
		return "", r.createErr
	}

	r.nextID++
	id := fmt.Sprintf("opt-%d", r.nextID)
	r.options[key] = append(r.options[key], &option.Option{
		ID:           id,
		Name:         draft.Name,
		Detail:       draft.Detail,
		Notes:        draft.Notes,
		Extra:        draft.Extra,
		Availability: draft.Availability,
	})

	if !r.echoID {
		return "", nil
	}
	return id, nil
}

func (r *memoryRepository) Delete(ctx context.Context, key option.ResourceKey, optionID string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++

	if err := r.deleteErr[optionID]; err != nil {
		return err
	}

	list := r.options[key]
	for i, o := range list {
		if o.ID == optionID {
			r.options[key] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Option")
}

func (r *memoryRepository) counts() (lists, creates, deletes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists, r.creates, r.deletes
}

// recordingLocks is a minimal [option.Locks] holding one lock per resource.
type recordingLocks struct {
	mu       sync.Mutex
	locked   map[option.ResourceKey]string
	released []string
	hydrated int
}

func newRecordingLocks() *recordingLocks {
	return &recordingLocks{locked: make(map[option.ResourceKey]string)}
}

func (l *recordingLocks) Hydrate(context.Context, option.ResourceKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hydrated++
	return nil
}

func (l *recordingLocks) LockedOption(key option.ResourceKey) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.locked[key]
	return id, ok
}

func (l *recordingLocks) Release(_ context.Context, key option.ResourceKey, optionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked[key] == optionID {
		delete(l.locked, key)
		l.released = append(l.released, optionID)
	}
	return nil
}
