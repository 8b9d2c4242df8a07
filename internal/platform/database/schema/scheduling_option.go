// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns Slate's SQL is built from, so
// queries never hard-code identifiers.
package schema

// SchedulingOptionTable represents the 'scheduling.option' table.
type SchedulingOptionTable struct {
	Table        string
	ID           string
	ResourceKind string
	ResourceID   string
	Position     string
	Name         string
	Detail       string
	Notes        string
	Extra        string
	Dates        string
	CreatedAt    string
}

// SchedulingOption is the schema definition for scheduling.option.
var SchedulingOption = SchedulingOptionTable{
	Table:        "scheduling.option",
	ID:           "id",
	ResourceKind: "resourcekind",
	ResourceID:   "resourceid",
	Position:     "position",
	Name:         "name",
	Detail:       "detail",
	Notes:        "notes",
	Extra:        "extra",
	Dates:        "dates",
	CreatedAt:    "createdat",
}

// Columns lists the columns read back for an option, in scan order.
func (t SchedulingOptionTable) Columns() []string {
	return []string{t.ID, t.Name, t.Detail, t.Notes, t.Extra, t.Dates}
}
