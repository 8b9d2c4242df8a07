// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/ctxutil"
	"github.com/taibuivan/slate/internal/platform/upstream"
)

// UpstreamRepository reads and writes options through the pre-production backend.
//
// # Endpoints
//
//   - GET    {base}/{kind}s/{resourceID}/options
//   - POST   {base}/{kind}s/{resourceID}/options
//   - DELETE {base}/{kind}s/{resourceID}/options/{optionID}
type UpstreamRepository struct {
	client *upstream.Client
	parser availability.Parser
}

// NewUpstreamRepository creates a backend-backed [Repository].
func NewUpstreamRepository(client *upstream.Client, parser availability.Parser) *UpstreamRepository {
	return &UpstreamRepository{client: client, parser: parser}
}

// List fetches the option list and normalizes it.
func (repository *UpstreamRepository) List(context context.Context, key ResourceKey) ([]*Option, error) {
	body, err := repository.client.Do(context, http.MethodGet, repository.optionsURL(key), nil)
	if err != nil {
		return nil, err
	}

	options, skipped, err := DecodeOptions(body, key, repository.parser)
	if err != nil {
		return nil, apperr.Server(http.StatusOK, "Scheduling backend returned an unreadable option list")
	}

	if skipped > 0 {
		ctxutil.GetLogger(context).WarnContext(context, "upstream_options_skipped",
			slog.String("resource", key.String()),
			slog.Int("skipped", skipped),
		)
	}

	return options, nil
}

// Create submits a new option.
func (repository *UpstreamRepository) Create(context context.Context, key ResourceKey, draft *Draft) (string, error) {
	body, err := repository.client.Do(context, http.MethodPost, repository.optionsURL(key), EncodeDraft(key.Kind, draft))
	if err != nil {
		return "", err
	}
	return DecodeCreatedID(body), nil
}

// Delete removes an option. A backend 404 is reported as NOT_FOUND.
func (repository *UpstreamRepository) Delete(context context.Context, key ResourceKey, optionID string) error {
	_, err := repository.client.Do(context, http.MethodDelete, repository.client.Path(key.Kind.Plural(), key.ID, "options", optionID), nil)
	if appErr := apperr.As(err); appErr != nil && appErr.UpstreamStatus == http.StatusNotFound {
		return apperr.NotFound("Option")
	}
	return err
}

func (repository *UpstreamRepository) optionsURL(key ResourceKey) string {
	return repository.client.Path(key.Kind.Plural(), key.ID, "options")
}
