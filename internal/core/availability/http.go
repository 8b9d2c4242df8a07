// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package availability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/slate/internal/platform/request"
	"github.com/taibuivan/slate/internal/platform/respond"
	"github.com/taibuivan/slate/internal/platform/validate"
)

// Handler exposes availability parsing so clients can preview how wire text is read.
type Handler struct {
	parser Parser
}

// NewHandler constructs a new availability [Handler].
func NewHandler(parser Parser) *Handler {
	return &Handler{parser: parser}
}

// Routes returns a [chi.Router] configured with availability endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/parse", handler.parse)
	return router
}

type parseRequest struct {
	Dates string `json:"dates"`

	// Day optionally asks whether the parsed availability covers it (YYYY-MM-DD).
	Day string `json:"day,omitempty"`
}

type parseResponse struct {
	View
	Contains *bool `json:"contains,omitempty"`
}

/*
POST /api/v1/availability/parse.

Request (Body):
  - dates: string (wire text)
  - day: string (optional, YYYY-MM-DD)

Response:
  - 200: parseResponse: Structured view, canonical text and rejected tokens
  - 400: VALIDATION_ERROR for a malformed day
*/
func (handler *Handler) parse(writer http.ResponseWriter, request *http.Request) {
	var input parseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	parsed, rejected := handler.parser.ParseDetailed(input.Dates)
	response := parseResponse{View: Describe(parsed, rejected)}

	if input.Day != "" {
		day, err := time.ParseInLocation(time.DateOnly, input.Day, time.UTC)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("day", "Must be a date in YYYY-MM-DD format"))
			return
		}
		contains := parsed.Contains(day)
		response.Contains = &contains
	}

	respond.OK(writer, response)
}
