// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package option

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/platform/constants"
	requestutil "github.com/taibuivan/slate/internal/platform/request"
	"github.com/taibuivan/slate/internal/platform/respond"
	"github.com/taibuivan/slate/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for option management.
type Handler struct {
	service *Registry
	parser  availability.Parser
}

// NewHandler constructs a new option [Handler].
//
// The parser reads the dates text of create requests.
func NewHandler(service *Registry, parser availability.Parser) *Handler {
	return &Handler{service: service, parser: parser}
}

/*
RegisterRoutes binds the option endpoints of one resource kind.

Routes are registered flat on router (rather than mounted) so that the lock
endpoints can share the same "/{kind}/{resourceID}" prefix.
*/
func (handler *Handler) RegisterRoutes(router chi.Router, kind Kind) {
	base := "/" + kind.Plural() + "/{resourceID}/options"

	router.Get(base, handler.withKind(kind, handler.listOptions))
	router.Post(base, handler.withKind(kind, handler.createOption))
	router.Post(base+"/bulk-delete", handler.withKind(kind, handler.bulkDelete))
	router.Delete(base+"/{optionID}", handler.withKind(kind, handler.removeOption))
	router.Get(base+"/{optionID}/calendar", handler.withKind(kind, handler.calendar))
}

type keyedHandler func(writer http.ResponseWriter, request *http.Request, key ResourceKey)

func (handler *Handler) withKind(kind Kind, next keyedHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		next(writer, request, ResourceKey{Kind: kind, ID: requestutil.Param(request, "resourceID")})
	}
}

// # Request Payloads

type createRequest struct {
	Name   string            `json:"name"`
	Detail string            `json:"detail"`
	Notes  string            `json:"notes"`
	Extra  map[string]string `json:"extra"`
	Dates  string            `json:"dates"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// calendarResponse lists the days of a window an option is available on.
type calendarResponse struct {
	OptionID string   `json:"option_id"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Flexible bool     `json:"flexible"`
	Days     []string `json:"days"`
}

// # Option Endpoints

/*
GET /api/v1/{kind}/{resourceID}/options.

Description: Fetches the resource's options from the backend and returns them
in backend order, with the locked option flagged.

Response:
  - 200: []Option
  - 502: UPSTREAM_ERROR / UPSTREAM_UNAVAILABLE
  - 504: UPSTREAM_TIMEOUT
*/
func (handler *Handler) listOptions(writer http.ResponseWriter, request *http.Request, key ResourceKey) {
	options, err := handler.service.ListOptions(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, options)
}

/*
POST /api/v1/{kind}/{resourceID}/options.

Request (Body):
  - name: string (required)
  - detail, notes: string
  - extra: object of string fields
  - dates: availability wire text ("No constraint" or "MM/DD/YYYY, ...")

Response:
  - 201: Option: The option as the backend now lists it
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) createOption(writer http.ResponseWriter, request *http.Request, key ResourceKey) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddOption(request.Context(), key, &Draft{
		Name:         input.Name,
		Detail:       input.Detail,
		Notes:        input.Notes,
		Extra:        input.Extra,
		Availability: handler.parser.Parse(input.Dates),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/v1/{kind}/{resourceID}/options/{optionID}.

Response:
  - 204: Removed
  - 404: NOT_FOUND
*/
func (handler *Handler) removeOption(writer http.ResponseWriter, request *http.Request, key ResourceKey) {
	if err := handler.service.RemoveOption(request.Context(), key, requestutil.Param(request, "optionID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/{kind}/{resourceID}/options/bulk-delete.

Request (Body):
  - ids: []string

Response:
  - 200: BulkResult: Every id removed, or every id failed
  - 207: BulkResult: Some ids removed, some failed, or the list could not be re-read (refresh_error)
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) bulkDelete(writer http.ResponseWriter, request *http.Request, key ResourceKey) {
	var input bulkDeleteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.BulkRemove(request.Context(), key, input.IDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Incomplete() {
		respond.Status(writer, http.StatusMultiStatus, result)
		return
	}
	respond.OK(writer, result)
}

/*
GET /api/v1/{kind}/{resourceID}/options/{optionID}/calendar.

Description: Lists the days between from and to (inclusive) on which the
option is available, for highlighting a calendar view.

Request:
  - from, to: YYYY-MM-DD

Response:
  - 200: calendarResponse
  - 400: VALIDATION_ERROR for missing dates or a window over a year
  - 404: NOT_FOUND
*/
func (handler *Handler) calendar(writer http.ResponseWriter, request *http.Request, key ResourceKey) {
	from, err := requestutil.QueryDate(request, "from")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	to, err := requestutil.QueryDate(request, "to")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if from.After(to) {
		from, to = to, from
	}

	days := int(to.Sub(from)/(24*time.Hour)) + 1
	validator := &validate.Validator{}
	validator.Custom("to", days > constants.MaxHighlightDays, "Calendar window must not exceed one year")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Find(request.Context(), key, requestutil.Param(request, "optionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	highlighted := found.Availability.Highlight(from, to)
	response := calendarResponse{
		OptionID: found.ID,
		From:     from.Format(time.DateOnly),
		To:       to.Format(time.DateOnly),
		Flexible: found.Availability.Flexible,
		Days:     make([]string, 0, len(highlighted)),
	}
	for _, day := range highlighted {
		response.Days = append(response.Days, day.Format(time.DateOnly))
	}

	respond.OK(writer, response)
}
