// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/constants"
	"github.com/taibuivan/slate/internal/platform/validate"
	"github.com/taibuivan/slate/pkg/keymutex"
	"github.com/taibuivan/slate/pkg/slice"
)

// Locks is the part of the lock coordinator the registry drives.
//
// The registry reads the locked option to decorate listings and releases a
// lock whenever its option disappears.
type Locks interface {
	Hydrate(context context.Context, key ResourceKey) error
	LockedOption(key ResourceKey) (string, bool)
	Release(context context.Context, key ResourceKey, optionID string) error
}

// # Service Layer

/*
Registry holds the option lists of every resource the process has touched.

# Consistency

The cached list of a resource is only ever replaced wholesale by a fresh
[Repository.List], never patched locally. Mutations and their follow-up refresh
run under the resource's mutex, so two refresh responses can never land out of
order. Different resources proceed in parallel.
*/
type Registry struct {
	repo    Repository
	logger  *slog.Logger
	timeout time.Duration

	gates keymutex.Map[ResourceKey]

	mu    sync.RWMutex
	cache map[ResourceKey][]*Option
	locks Locks
}

// NewRegistry constructs a new option [Registry].
//
// A non-positive timeout falls back to [constants.DefaultRegistryTimeout].
func NewRegistry(repo Repository, logger *slog.Logger, timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = constants.DefaultRegistryTimeout
	}
	return &Registry{
		repo:    repo,
		logger:  logger,
		timeout: timeout,
		cache:   make(map[ResourceKey][]*Option),
	}
}

// AttachLocks connects the lock coordinator. It must be called before serving.
func (service *Registry) AttachLocks(locks Locks) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.locks = locks
}

// # Queries

/*
ListOptions fetches the current options of a resource and replaces the cache.

Parameters:
  - context: context.Context
  - key: ResourceKey

Returns:
  - []*Option: Options in backend order, with Locked filled in
  - error: VALIDATION_ERROR for a bad key, or an upstream/storage error
*/
func (service *Registry) ListOptions(context context.Context, key ResourceKey) ([]*Option, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	unlock := service.gates.Lock(key)
	defer unlock()

	if locks := service.lockCoordinator(); locks != nil {
		if err := locks.Hydrate(context, key); err != nil {
			service.logger.WarnContext(context, "lock_hydrate_failed",
				slog.String("resource", key.String()),
				slog.Any("error", err),
			)
		}
	}

	options, err := service.refresh(context, key)
	if err != nil {
		return nil, err
	}
	return service.decorate(key, options), nil
}

// Cached returns the last refreshed list of a resource without any I/O.
func (service *Registry) Cached(key ResourceKey) ([]*Option, bool) {
	service.mu.RLock()
	options, ok := service.cache[key]
	service.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return service.decorate(key, options), true
}

// Find returns one option of a resource, refreshing the cache on a miss.
func (service *Registry) Find(context context.Context, key ResourceKey, optionID string) (*Option, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	options, ok := service.Cached(key)
	if !ok || indexOf(options, optionID) < 0 {
		refreshed, err := service.ListOptions(context, key)
		if err != nil {
			return nil, err
		}
		options = refreshed
	}

	if index := indexOf(options, optionID); index >= 0 {
		return options[index], nil
	}
	return nil, apperr.NotFound("Option")
}

// Contains reports whether optionID belongs to the resource.
func (service *Registry) Contains(context context.Context, key ResourceKey, optionID string) (bool, error) {
	_, err := service.Find(context, key, optionID)
	switch {
	case err == nil:
		return true, nil
	case apperr.HasCode(err, apperr.CodeNotFound):
		return false, nil
	default:
		return false, err
	}
}

/*
Exclusive runs fn while holding the resource's mutex, with the option ids the
backend lists right now.

Lock toggles go through here so that no removal or refresh can slip between
the membership check and the state change. The list is re-read on every call,
so an option deleted by another client cannot be locked from a stale cache.
*/
func (service *Registry) Exclusive(context context.Context, key ResourceKey, fn func(ids []string) error) error {
	if err := validateKey(key); err != nil {
		return err
	}

	unlock := service.gates.Lock(key)
	defer unlock()

	options, err := service.refresh(context, key)
	if err != nil {
		return err
	}

	return fn(slice.Map(options, func(o *Option) string { return o.ID }))
}

// # Mutations

/*
AddOption validates and creates an option, then refreshes the resource.

Description: Validation happens before any backend call. The returned option
is taken from the refreshed list, matched on the id the backend reported; when
the backend does not echo one, the last listed option is returned.

Parameters:
  - context: context.Context
  - key: ResourceKey
  - draft: *Draft

Returns:
  - *Option: The created option as the backend now lists it
  - error: VALIDATION_ERROR, or an upstream/storage error
*/
func (service *Registry) AddOption(context context.Context, key ResourceKey, draft *Draft) (*Option, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	unlock := service.gates.Lock(key)
	defer unlock()

	id, err := service.create(context, key, draft)
	if err != nil {
		return nil, err
	}

	options, err := service.refresh(context, key)
	if err != nil {
		return nil, err
	}
	options = service.decorate(key, options)

	service.logger.InfoContext(context, "option_created",
		slog.String("resource", key.String()),
		slog.String("option_id", id),
	)

	if id == "" {
		if len(options) == 0 {
			return nil, apperr.Server(http.StatusOK, "Scheduling backend did not list the created option")
		}
		return options[len(options)-1], nil
	}

	if index := indexOf(options, id); index >= 0 {
		return options[index], nil
	}
	return nil, apperr.Server(http.StatusOK, "Scheduling backend did not list the created option")
}

/*
RemoveOption deletes an option, releases its lock and refreshes the resource.

Description: The result reflects the deletion. When the backend accepted the
delete but the follow-up refresh fails, the failure is logged, the cached list
is evicted and nil is returned; the next ListOptions re-reads the backend.

Returns:
  - error: NOT_FOUND if the backend does not know the option, or an upstream/storage error from the delete
*/
func (service *Registry) RemoveOption(context context.Context, key ResourceKey, optionID string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	optionID = strings.TrimSpace(optionID)
	if optionID == "" {
		return validate.RequiredError(FieldOptionID, "This field is required")
	}

	unlock := service.gates.Lock(key)
	defer unlock()

	if err := service.remove(context, key, optionID); err != nil {
		return err
	}

	_, _ = service.refresh(context, key)
	return nil
}

/*
BulkRemove deletes every listed option, continuing past failures.

Description: Ids are trimmed and de-duplicated. Each deletion is attempted
independently; one full refresh follows the batch. A failed refresh does not
hide the deletions: it is reported in BulkResult.Refresh.

Returns:
  - *BulkResult: Which ids were removed and which failed, with reasons
  - error: VALIDATION_ERROR for an empty or oversized batch
*/
func (service *Registry) BulkRemove(context context.Context, key ResourceKey, ids []string) (*BulkResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	cleaned = slice.Dedupe(cleaned)

	validator := &validate.Validator{}
	validator.NotEmpty(FieldIDs, len(cleaned)).MaxItems(FieldIDs, len(cleaned), constants.MaxBulkDelete)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	unlock := service.gates.Lock(key)
	defer unlock()

	result := &BulkResult{Removed: []string{}, Failed: []BulkFailure{}}
	for _, id := range cleaned {
		if err := service.remove(context, key, id); err != nil {
			result.Failed = append(result.Failed, failureOf(id, err))
			continue
		}
		result.Removed = append(result.Removed, id)
	}

	service.logger.InfoContext(context, "options_bulk_removed",
		slog.String("resource", key.String()),
		slog.Int("removed", len(result.Removed)),
		slog.Int("failed", len(result.Failed)),
	)

	if _, err := service.refresh(context, key); err != nil {
		failure := failureOf("", err)
		result.Refresh = &RefreshFailure{Code: failure.Code, Error: failure.Error}
	}
	return result, nil
}

// # Internals

// create runs the backend create under the registry timeout.
func (service *Registry) create(ctx context.Context, key ResourceKey, draft *Draft) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	id, err := service.repo.Create(callCtx, key, draft)
	if err != nil {
		return "", classify(err)
	}
	return id, nil
}

// remove deletes one option and releases its lock. The caller holds the gate.
func (service *Registry) remove(ctx context.Context, key ResourceKey, optionID string) error {
	callCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	if err := service.repo.Delete(callCtx, key, optionID); err != nil {
		return classify(err)
	}

	service.release(ctx, key, optionID)

	service.logger.InfoContext(ctx, "option_removed",
		slog.String("resource", key.String()),
		slog.String("option_id", optionID),
	)
	return nil
}

/*
refresh replaces the cached list of a resource with the repository's.

The caller holds the resource gate. A failed refresh evicts the cached list,
so a stale view is never served as current. A lock pointing at an option the
refreshed list no longer contains is released.
*/
func (service *Registry) refresh(ctx context.Context, key ResourceKey) ([]*Option, error) {
	callCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	options, err := service.repo.List(callCtx, key)
	if err != nil {
		service.mu.Lock()
		delete(service.cache, key)
		service.mu.Unlock()

		service.logger.WarnContext(ctx, "option_refresh_failed",
			slog.String("resource", key.String()),
			slog.Any("error", err),
		)
		return nil, classify(err)
	}

	for _, o := range options {
		o.Resource = key
	}

	service.mu.Lock()
	service.cache[key] = options
	service.mu.Unlock()

	if locks := service.lockCoordinator(); locks != nil {
		if lockedID, ok := locks.LockedOption(key); ok && indexOf(options, lockedID) < 0 {
			service.release(ctx, key, lockedID)
		}
	}

	return options, nil
}

// release clears a lock on optionID. The coordinator drops the lock even when
// its store fails; the failure is only logged here.
func (service *Registry) release(ctx context.Context, key ResourceKey, optionID string) {
	locks := service.lockCoordinator()
	if locks == nil {
		return
	}
	if err := locks.Release(ctx, key, optionID); err != nil {
		service.logger.WarnContext(ctx, "lock_release_failed",
			slog.String("resource", key.String()),
			slog.String("option_id", optionID),
			slog.Any("error", err),
		)
	}
}

// decorate returns clones of options with Locked filled from the coordinator.
func (service *Registry) decorate(key ResourceKey, options []*Option) []*Option {
	lockedID, locked := "", false
	if locks := service.lockCoordinator(); locks != nil {
		lockedID, locked = locks.LockedOption(key)
	}

	out := make([]*Option, 0, len(options))
	for _, o := range options {
		copied := o.clone()
		copied.Locked = locked && o.ID == lockedID
		out = append(out, copied)
	}
	return out
}

func (service *Registry) lockCoordinator() Locks {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return service.locks
}

// # Validation

func validateKey(key ResourceKey) error {
	validator := &validate.Validator{}
	validator.
		OneOf(FieldKind, string(key.Kind), string(KindCharacter), string(KindLocation)).
		Required(FieldResourceID, key.ID)
	return validator.Err()
}

func validateDraft(draft *Draft) error {
	if draft == nil {
		return validate.ErrInvalidJSON
	}

	serialized := availability.Format(draft.Availability)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, draft.Name).
		MaxLen(FieldName, draft.Name, constants.MaxOptionNameLength).
		MaxLen(FieldDetail, draft.Detail, constants.MaxOptionTextLength).
		MaxLen(FieldNotes, draft.Notes, constants.MaxOptionTextLength).
		Custom(FieldDates, !draft.Availability.Flexible && draft.Availability.IsEmpty(),
			"Select at least one day or mark the option as flexible").
		Custom(FieldDates, !draft.Availability.Flexible && strings.EqualFold(serialized, availability.NoConstraint),
			"Reserved for flexible availability")

	for name, value := range draft.Extra {
		validator.MaxLen(name, value, constants.MaxOptionTextLength)
	}

	return validator.Err()
}

// # Helpers

func indexOf(options []*Option, id string) int {
	for i, o := range options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// classify maps repository failures onto the upstream error taxonomy.
func classify(err error) error {
	return apperr.FromTransport(err)
}

func failureOf(id string, err error) BulkFailure {
	failure := BulkFailure{ID: id, Code: apperr.CodeInternal, Error: err.Error()}
	if appErr := apperr.As(err); appErr != nil {
		failure.Code = appErr.Code
		failure.Error = appErr.Message
	}
	return failure
}
