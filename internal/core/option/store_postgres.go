// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/database/schema"
	"github.com/taibuivan/slate/internal/platform/dberr"
	"github.com/taibuivan/slate/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
//
// It serves deployments where Slate itself owns the option lists instead of
// the pre-production backend.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	parser availability.Parser
}

// NewPostgresRepository constructs a PostgreSQL backed option store.
func NewPostgresRepository(pool *pgxpool.Pool, parser availability.Parser) *PostgresRepository {
	return &PostgresRepository{pool: pool, parser: parser}
}

/*
List returns the options of a resource in insertion order.

Parameters:
  - context: context.Context
  - key: ResourceKey

Returns:
  - []*Option: Options, possibly empty
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, key ResourceKey) ([]*Option, error) {
	table := schema.SchedulingOption
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC`,
		strings.Join(table.Columns(), ", "),
		table.Table,
		table.ResourceKind, table.ResourceID,
		table.Position,
	)

	rows, err := repository.pool.Query(context, query, string(key.Kind), key.ID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_options")
	}
	defer rows.Close()

	options := []*Option{}
	for rows.Next() {
		var (
			decoded = &Option{Resource: key}
			dates   string
		)
		if err := rows.Scan(&decoded.ID, &decoded.Name, &decoded.Detail, &decoded.Notes, &decoded.Extra, &dates); err != nil {
			return nil, dberr.Wrap(err, "scan_option")
		}
		if len(decoded.Extra) == 0 {
			decoded.Extra = nil
		}
		decoded.Availability = repository.parser.Parse(dates)
		options = append(options, decoded)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_options")
	}

	return options, nil
}

/*
Create inserts a new option and returns its generated id.

Parameters:
  - context: context.Context
  - key: ResourceKey
  - draft: *Draft

Returns:
  - string: New option UUID
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, key ResourceKey, draft *Draft) (string, error) {
	table := schema.SchedulingOption
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		table.Table,
		table.ID, table.ResourceKind, table.ResourceID,
		table.Name, table.Detail, table.Notes, table.Extra, table.Dates,
	)

	extra := draft.Extra
	if extra == nil {
		extra = map[string]string{}
	}

	id := uuid.New()
	_, err := repository.pool.Exec(context, query,
		id,
		string(key.Kind),
		key.ID,
		draft.Name,
		draft.Detail,
		draft.Notes,
		extra,
		availability.Format(draft.Availability),
	)
	if err != nil {
		return "", dberr.Wrap(err, "create_option")
	}

	return id, nil
}

/*
Delete removes an option from its resource.

Returns:
  - error: apperr.NotFound when no such option exists for the resource
*/
func (repository *PostgresRepository) Delete(context context.Context, key ResourceKey, optionID string) error {
	if !uuid.Valid(optionID) {
		return apperr.NotFound("Option")
	}

	table := schema.SchedulingOption
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3`,
		table.Table,
		table.ID, table.ResourceKind, table.ResourceID,
	)

	tag, err := repository.pool.Exec(context, query, optionID, string(key.Kind), key.ID)
	if err != nil {
		return dberr.Wrap(err, "delete_option")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Option")
	}

	return nil
}
