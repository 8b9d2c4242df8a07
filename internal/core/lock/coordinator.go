// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/constants"
	"github.com/taibuivan/slate/internal/platform/validate"
	"github.com/taibuivan/slate/pkg/keymutex"
)

// # Service Layer

// Coordinator enforces at most one locked option per resource.
//
// It satisfies [option.Locks], so the registry can release locks of removed options.
type Coordinator struct {
	catalog Catalog
	store   Store
	logger  *slog.Logger
	timeout time.Duration

	gates keymutex.Map[option.ResourceKey]

	mu       sync.RWMutex
	locked   map[option.ResourceKey]string
	hydrated map[option.ResourceKey]struct{}
}

var _ option.Locks = (*Coordinator)(nil)

/*
NewCoordinator constructs a lock [Coordinator].

Parameters:
  - catalog: Catalog used to check membership; nil skips the check
  - store: Store; nil keeps state in memory only
  - logger: *slog.Logger
  - timeout: bound on each store call; non-positive uses the registry default
*/
func NewCoordinator(catalog Catalog, store Store, logger *slog.Logger, timeout time.Duration) *Coordinator {
	if store == nil {
		store = NopStore{}
	}
	if timeout <= 0 {
		timeout = constants.DefaultRegistryTimeout
	}
	return &Coordinator{
		catalog:  catalog,
		store:    store,
		logger:   logger,
		timeout:  timeout,
		locked:   make(map[option.ResourceKey]string),
		hydrated: make(map[option.ResourceKey]struct{}),
	}
}

// # Operations

/*
Toggle flips the lock of optionID.

Description: Toggling the locked option unlocks the resource; toggling any
other option moves the lock onto it. The option must belong to the resource.

Returns:
  - State: The resource's state after the toggle, or the unchanged state on failure
  - error: VALIDATION_ERROR, NOT_FOUND, or the store's error
*/
func (coordinator *Coordinator) Toggle(context context.Context, key option.ResourceKey, optionID string) (State, error) {
	optionID = strings.TrimSpace(optionID)
	if err := validateTarget(key, optionID); err != nil {
		return coordinator.Current(key), err
	}

	if coordinator.catalog == nil {
		return coordinator.toggle(context, key, optionID)
	}

	var state State
	err := coordinator.catalog.Exclusive(context, key, func(ids []string) error {
		if !slices.Contains(ids, optionID) {
			return apperr.NotFound("Option")
		}
		var err error
		state, err = coordinator.toggle(context, key, optionID)
		return err
	})
	if err != nil && state.Resource != key {
		state = coordinator.Current(key)
	}
	return state, err
}

// IsLocked reports whether optionID is the locked option of the resource.
func (coordinator *Coordinator) IsLocked(key option.ResourceKey, optionID string) bool {
	locked, ok := coordinator.LockedOption(key)
	return ok && locked == optionID
}

// LockedOption returns the locked option of the resource, if any.
func (coordinator *Coordinator) LockedOption(key option.ResourceKey) (string, bool) {
	coordinator.mu.RLock()
	defer coordinator.mu.RUnlock()
	optionID, ok := coordinator.locked[key]
	return optionID, ok
}

// Current returns the resource's state as a [State].
func (coordinator *Coordinator) Current(key option.ResourceKey) State {
	optionID, ok := coordinator.LockedOption(key)
	return State{Resource: key, OptionID: optionID, Locked: ok}
}

/*
Release clears the resource's lock if it points at optionID.

Release is called after the option is gone, so the in-memory lock is cleared
even when the store rejects the change. The store error is still returned.
*/
func (coordinator *Coordinator) Release(context context.Context, key option.ResourceKey, optionID string) error {
	unlock := coordinator.gates.Lock(key)
	defer unlock()

	if err := coordinator.hydrate(context, key); err != nil {
		return err
	}

	if current, ok := coordinator.LockedOption(key); !ok || current != optionID {
		return nil
	}

	saveErr := coordinator.save(context, key, optionID, false)

	coordinator.mu.Lock()
	delete(coordinator.locked, key)
	coordinator.mu.Unlock()

	if saveErr != nil {
		coordinator.logger.WarnContext(context, "lock_release_unpersisted",
			slog.String("resource", key.String()),
			slog.String("option_id", optionID),
			slog.Any("error", saveErr),
		)
		return saveErr
	}

	coordinator.logger.InfoContext(context, "lock_released",
		slog.String("resource", key.String()),
		slog.String("option_id", optionID),
	)
	return nil
}

// Hydrate loads the persisted state of a resource once. Later calls are no-ops.
func (coordinator *Coordinator) Hydrate(context context.Context, key option.ResourceKey) error {
	unlock := coordinator.gates.Lock(key)
	defer unlock()

	return coordinator.hydrate(context, key)
}

// # Internals

// toggle applies one transition. The store is written before memory.
func (coordinator *Coordinator) toggle(ctx context.Context, key option.ResourceKey, optionID string) (State, error) {
	unlock := coordinator.gates.Lock(key)
	defer unlock()

	if err := coordinator.hydrate(ctx, key); err != nil {
		return coordinator.Current(key), err
	}

	current, locked := coordinator.LockedOption(key)
	lock := !locked || current != optionID

	if err := coordinator.save(ctx, key, optionID, lock); err != nil {
		coordinator.logger.WarnContext(ctx, "lock_toggle_rolled_back",
			slog.String("resource", key.String()),
			slog.String("option_id", optionID),
			slog.Any("error", err),
		)
		return coordinator.Current(key), err
	}

	coordinator.mu.Lock()
	if lock {
		coordinator.locked[key] = optionID
	} else {
		delete(coordinator.locked, key)
	}
	coordinator.mu.Unlock()

	coordinator.logger.InfoContext(ctx, "lock_toggled",
		slog.String("resource", key.String()),
		slog.String("option_id", optionID),
		slog.Bool("locked", lock),
	)

	return coordinator.Current(key), nil
}

// hydrate loads persisted state. The caller holds the resource gate.
func (coordinator *Coordinator) hydrate(ctx context.Context, key option.ResourceKey) error {
	coordinator.mu.RLock()
	_, done := coordinator.hydrated[key]
	coordinator.mu.RUnlock()
	if done {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, coordinator.timeout)
	defer cancel()

	optionID, ok, err := coordinator.store.Load(callCtx, key)
	if err != nil {
		return apperr.FromTransport(err)
	}

	coordinator.mu.Lock()
	if ok {
		coordinator.locked[key] = optionID
	}
	coordinator.hydrated[key] = struct{}{}
	coordinator.mu.Unlock()

	return nil
}

func (coordinator *Coordinator) save(ctx context.Context, key option.ResourceKey, optionID string, locked bool) error {
	callCtx, cancel := context.WithTimeout(ctx, coordinator.timeout)
	defer cancel()

	if err := coordinator.store.Save(callCtx, key, optionID, locked); err != nil {
		return apperr.FromTransport(err)
	}
	return nil
}

func validateTarget(key option.ResourceKey, optionID string) error {
	validator := &validate.Validator{}
	validator.
		OneOf(option.FieldKind, string(key.Kind), string(option.KindCharacter), string(option.KindLocation)).
		Required(option.FieldResourceID, key.ID).
		Required(option.FieldOptionID, optionID)
	return validator.Err()
}
