// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"net/http"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/upstream"
)

// UpstreamStore persists locks through the scheduling backend's lock endpoint.
//
// # Endpoints
//
//   - POST {base}/{kind}s/{resourceID}/options/{optionID}/lock  {"locked": bool}
//   - GET  {base}/{kind}s/{resourceID}/options  (lock read back from each option's "locked" field)
//
// The backend is expected to unlock the resource's other options when one is locked.
type UpstreamStore struct {
	client *upstream.Client
}

// NewUpstreamStore creates a backend-backed [Store].
func NewUpstreamStore(client *upstream.Client) *UpstreamStore {
	return &UpstreamStore{client: client}
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

// Load returns the first option the backend lists as locked.
func (store *UpstreamStore) Load(context context.Context, key option.ResourceKey) (string, bool, error) {
	body, err := store.client.Do(context, http.MethodGet, store.client.Path(key.Kind.Plural(), key.ID, "options"), nil)
	if err != nil {
		return "", false, err
	}

	options, _, err := option.DecodeOptions(body, key, availability.Parser{})
	if err != nil {
		return "", false, apperr.Server(http.StatusOK, "Scheduling backend returned an unreadable option list")
	}

	for _, o := range options {
		if o.Locked {
			return o.ID, true, nil
		}
	}
	return "", false, nil
}

// Save posts the new lock flag of one option.
//
// Unlocking an option the backend no longer has (404) succeeds: a deleted
// option holds no lock.
func (store *UpstreamStore) Save(context context.Context, key option.ResourceKey, optionID string, locked bool) error {
	target := store.client.Path(key.Kind.Plural(), key.ID, "options", optionID, "lock")
	_, err := store.client.Do(context, http.MethodPost, target, lockRequest{Locked: locked})
	if !locked {
		if appErr := apperr.As(err); appErr != nil && appErr.UpstreamStatus == http.StatusNotFound {
			return nil
		}
	}
	return err
}
