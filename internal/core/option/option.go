// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package option manages the candidate options of scheduling resources: the
actors considered for a character and the sites considered for a location.

# Core Responsibility

  - Entities: [Resource], [ResourceKey], [Option] and the [Draft] used to create one.
  - Registry: [Registry] lists, creates and removes options against a [Repository]
    and keeps a cached view that is only ever replaced by a full refresh.
  - Ingestion: loosely typed backend payloads are normalized once, on the way in.

Options are ordered as the backend returns them; the front-end numbers rows
("S.No.") from that order.
*/
package option

import (
	"fmt"
	"maps"
	"strings"

	"github.com/taibuivan/slate/internal/core/availability"
)

// # Resource Kinds

// Kind distinguishes the two schedulable resource types.
type Kind string

const (
	KindCharacter Kind = "character"
	KindLocation  Kind = "location"
)

// Kinds lists every supported kind, in display order.
var Kinds = []Kind{KindCharacter, KindLocation}

// ParseKind accepts singular or plural spellings ("location", "locations").
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "character", "characters", "cast":
		return KindCharacter, nil
	case "location", "locations":
		return KindLocation, nil
	default:
		return "", fmt.Errorf("option: unknown resource kind %q", value)
	}
}

// Plural returns the collection name used in URL paths ("characters").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// # Core Entities

// ResourceKey identifies a resource. Keys are compared as whole values, so a
// character "1" and a location "1" (or resources "1" and "10") never alias.
type ResourceKey struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// String renders the key as "kind/id" for logs and cache keys.
func (k ResourceKey) String() string {
	return string(k.Kind) + "/" + k.ID
}

// Valid reports whether the key names a supported kind and a non-blank id.
func (k ResourceKey) Valid() bool {
	return (k.Kind == KindCharacter || k.Kind == KindLocation) && strings.TrimSpace(k.ID) != ""
}

// Resource is a character or location as produced by the breakdown.
// Slate only reads resources; the backend creates them.
type Resource struct {
	Key        ResourceKey `json:"key"`
	Name       string      `json:"name"`
	SceneCount int         `json:"scene_count"`
}

// Option is one candidate for a resource.
type Option struct {
	// ID is unique within its resource only.
	ID       string      `json:"id"`
	Resource ResourceKey `json:"-"`

	// Name is the actor name or the location name.
	Name string `json:"name"`

	// Detail is actor details or the location address.
	Detail string `json:"detail,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Extra keeps any other display field, keyed by its canonical field key.
	Extra map[string]string `json:"extra,omitempty"`

	Availability availability.Availability `json:"dates"`

	// Locked is filled from the lock coordinator whenever options are read.
	Locked bool `json:"locked"`
}

// clone returns a copy safe to hand out while the original stays cached.
func (o *Option) clone() *Option {
	copied := *o
	copied.Extra = maps.Clone(o.Extra)
	return &copied
}

// Draft carries the fields of an option to be created.
type Draft struct {
	Name         string                    `json:"name"`
	Detail       string                    `json:"detail"`
	Notes        string                    `json:"notes"`
	Extra        map[string]string         `json:"extra,omitempty"`
	Availability availability.Availability `json:"dates"`
}

// # Bulk Results

// BulkFailure names an option that could not be removed and why.
type BulkFailure struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// RefreshFailure explains why the list could not be re-read after a mutation.
type RefreshFailure struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// BulkResult reports the outcome of a bulk removal.
//
// Removed ids can leave the front-end's selection; failed ids stay selected.
// Refresh is set when the deletions went through but the follow-up list read
// failed, so the caller should re-list before trusting its view.
type BulkResult struct {
	Removed []string        `json:"removed"`
	Failed  []BulkFailure   `json:"failed"`
	Refresh *RefreshFailure `json:"refresh_error,omitempty"`
}

// Partial reports whether some, but not all, removals succeeded.
func (r *BulkResult) Partial() bool {
	return len(r.Removed) > 0 && len(r.Failed) > 0
}

// Incomplete reports whether the caller needs more than a plain success:
// a partial batch, or a batch whose follow-up refresh failed.
func (r *BulkResult) Incomplete() bool {
	return r.Partial() || r.Refresh != nil
}

// # Field Identifiers

const (
	FieldKind       = "kind"
	FieldResourceID = "resource_id"
	FieldOptionID   = "option_id"
	FieldName       = "name"
	FieldDetail     = "detail"
	FieldNotes      = "notes"
	FieldDates      = "dates"
	FieldIDs        = "ids"
)
