// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lock marks one option per resource as the confirmed choice.

# State Machine

Each resource is either Unlocked or LockedOn(optionID):

	Unlocked      --Toggle(x)-->  LockedOn(x)
	LockedOn(x)   --Toggle(x)-->  Unlocked
	LockedOn(x)   --Toggle(y)-->  LockedOn(y)

The state is a map from [option.ResourceKey] to a single option id, so two
options of one resource can never both read as locked, and resources never
share state.

# Persistence

A [Store] makes the state durable. The coordinator saves first and commits to
memory only after the store accepted the change, so a failed save leaves the
previous state in place.
*/
package lock

import (
	"context"

	"github.com/taibuivan/slate/internal/core/option"
)

// State is the lock state of one resource.
type State struct {
	Resource option.ResourceKey `json:"resource"`
	OptionID string             `json:"option_id,omitempty"`
	Locked   bool               `json:"locked"`
}

// Store persists lock state.
//
// Save with locked=true makes optionID the only locked option of the resource.
// Save with locked=false clears the lock only if it still points at optionID.
// Load reports the locked option, if any.
type Store interface {
	Load(context context.Context, key option.ResourceKey) (string, bool, error)
	Save(context context.Context, key option.ResourceKey, optionID string, locked bool) error
}

// NopStore keeps lock state in memory only; it is lost on restart.
type NopStore struct{}

// Load always reports no lock.
func (NopStore) Load(context.Context, option.ResourceKey) (string, bool, error) {
	return "", false, nil
}

// Save accepts every change.
func (NopStore) Save(context.Context, option.ResourceKey, string, bool) error {
	return nil
}

// Catalog answers which options a resource has.
//
// Exclusive runs fn with the resource's current option ids while no option of
// that resource can be added or removed.
type Catalog interface {
	Exclusive(context context.Context, key option.ResourceKey, fn func(ids []string) error) error
}
