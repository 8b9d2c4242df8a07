// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/pkg/fieldkey"
)

// # Field Mapping
//
// Each list holds canonical keys (see package fieldkey) in priority order.
// A payload carrying both "name" and "actor_name" resolves to the first listed.

var (
	idKeys     = []string{"id", "option_id", "actor_id", "location_id", "uid"}
	nameKeys   = []string{"name", "actor_name", "location_name", "option_name", "actor", "location"}
	detailKeys = []string{"detail", "details", "actor_details", "address", "location_address"}
	notesKeys  = []string{"notes", "note", "comments"}
	datesKeys  = []string{"dates", "availability", "available_dates", "availability_dates"}
	lockedKeys = []string{"locked", "is_locked"}

	// envelopeKeys name the fields a list may be wrapped in.
	envelopeKeys = []string{"options", "data", "items", "actors", "locations", "results"}
)

// mapped holds every canonical key consumed by a known field.
var mapped = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, keys := range [][]string{idKeys, nameKeys, detailKeys, notesKeys, datesKeys, lockedKeys} {
		for _, key := range keys {
			set[key] = struct{}{}
		}
	}
	return set
}()

// # Ingestion

// DecodeOptions maps a backend list payload onto options for key.
//
// The payload may be a bare array or an object wrapping the array under one of
// the usual envelope keys. Entries without an identifier cannot be removed or
// locked, so they are skipped and counted.
func DecodeOptions(body []byte, key ResourceKey, parser availability.Parser) ([]*Option, int, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("option: decode list: %w", err)
	}

	items, ok := unwrapList(payload)
	if !ok {
		return nil, 0, fmt.Errorf("option: decode list: no option array in payload")
	}

	options := make([]*Option, 0, len(items))
	skipped := 0
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		decoded := decodeOption(fields, key, parser)
		if decoded.ID == "" {
			skipped++
			continue
		}
		options = append(options, decoded)
	}

	return options, skipped, nil
}

// DecodeCreatedID extracts the identifier of a freshly created option.
// An empty string means the backend did not echo one.
func DecodeCreatedID(body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return ""
	}

	for _, envelope := range []string{"data", "option"} {
		if inner, ok := object[envelope].(map[string]any); ok {
			object = inner
			break
		}
	}

	return pick(canonicalize(object), idKeys)
}

// decodeOption builds one option from a canonicalized field map.
func decodeOption(fields map[string]any, key ResourceKey, parser availability.Parser) *Option {
	canonical := canonicalize(fields)

	decoded := &Option{
		ID:       pick(canonical, idKeys),
		Resource: key,
		Name:     pick(canonical, nameKeys),
		Detail:   pick(canonical, detailKeys),
		Notes:    pick(canonical, notesKeys),
		// An absent dates field reads as blank text and follows the parser's policy.
		Availability: parser.Parse(pick(canonical, datesKeys)),
	}

	if locked, err := strconv.ParseBool(pick(canonical, lockedKeys)); err == nil {
		decoded.Locked = locked
	}

	for name, value := range canonical {
		if _, known := mapped[name]; known || value == "" {
			continue
		}
		if decoded.Extra == nil {
			decoded.Extra = make(map[string]string)
		}
		decoded.Extra[name] = value
	}

	return decoded
}

// canonicalize flattens scalar values to strings under canonical keys.
// Nested objects and arrays carry no display field and are ignored.
func canonicalize(fields map[string]any) map[string]string {
	canonical := make(map[string]string, len(fields))
	for name, value := range fields {
		text, ok := scalarText(value)
		if !ok {
			continue
		}
		key := fieldkey.Canonical(name)
		if key == "" {
			continue
		}
		// Keep the first non-blank spelling when two collapse to the same key.
		if existing, seen := canonical[key]; seen && existing != "" {
			continue
		}
		canonical[key] = text
	}
	return canonical
}

// pick returns the first non-blank value among keys.
func pick(canonical map[string]string, keys []string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(canonical[key]); value != "" {
			return value
		}
	}
	return ""
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	case json.Number:
		return typed.String(), true
	default:
		return "", false
	}
}

// unwrapList finds the option array of a list payload. A null body or a
// null envelope field is an empty list.
func unwrapList(payload any) ([]any, bool) {
	switch typed := payload.(type) {
	case nil:
		return []any{}, true
	case []any:
		return typed, true
	case map[string]any:
		empty := false
		for _, key := range envelopeKeys {
			value, present := typed[key]
			if list, ok := value.([]any); ok {
				return list, true
			}
			if present && value == nil {
				empty = true
			}
		}
		if empty {
			return []any{}, true
		}
	}
	return nil, false
}

// # Outbound Encoding

// EncodeDraft renders a draft with the field names the backend's own forms
// submit for each kind: actor_name/details for cast, location_name/address
// for locations. Dates are always written in the canonical wire format.
func EncodeDraft(kind Kind, draft *Draft) map[string]any {
	body := make(map[string]any, len(draft.Extra)+4)
	for name, value := range draft.Extra {
		body[name] = value
	}

	switch kind {
	case KindLocation:
		body["location_name"] = draft.Name
		body["address"] = draft.Detail
	default:
		body["actor_name"] = draft.Name
		body["details"] = draft.Detail
	}
	body["notes"] = draft.Notes
	body["dates"] = availability.Format(draft.Availability)

	return body
}
