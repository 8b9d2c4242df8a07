// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/slate/internal/core/option"
	requestutil "github.com/taibuivan/slate/internal/platform/request"
	"github.com/taibuivan/slate/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for lock toggles.
type Handler struct {
	coordinator *Coordinator
}

// NewHandler constructs a new lock [Handler].
func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// RegisterRoutes binds the lock endpoints of one resource kind.
func (handler *Handler) RegisterRoutes(router chi.Router, kind option.Kind) {
	base := "/" + kind.Plural() + "/{resourceID}"

	router.Get(base+"/lock", handler.getLock(kind))
	router.Post(base+"/options/{optionID}/lock", handler.toggleLock(kind))
}

/*
GET /api/v1/{kind}/{resourceID}/lock.

Response:
  - 200: State
*/
func (handler *Handler) getLock(kind option.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		key := option.ResourceKey{Kind: kind, ID: requestutil.Param(request, "resourceID")}

		if err := handler.coordinator.Hydrate(request.Context(), key); err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, handler.coordinator.Current(key))
	}
}

/*
POST /api/v1/{kind}/{resourceID}/options/{optionID}/lock.

Description: Locks the option, moving the lock off any other option of the
resource, or unlocks it when it is already the locked one.

Response:
  - 200: State: The new state
  - 404: NOT_FOUND: The option does not belong to the resource
  - 502/504: The lock store rejected or timed out; the state is unchanged
*/
func (handler *Handler) toggleLock(kind option.Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		key := option.ResourceKey{Kind: kind, ID: requestutil.Param(request, "resourceID")}

		state, err := handler.coordinator.Toggle(request.Context(), key, requestutil.Param(request, "optionID"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, state)
	}
}
