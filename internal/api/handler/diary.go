package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parenthaven/backend/internal/api/middleware"
	"github.com/parenthaven/backend/internal/api/response"
	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/service"
)

// DiaryHandler handles diary entry endpoints
type DiaryHandler struct {
	diaryService *service.DiaryService
}

// NewDiaryHandler creates a new diary handler
func NewDiaryHandler(diaryService *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// Create adds a diary entry for the authenticated user
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.DiaryEntryCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if messages, ok := validationMessages(err); ok {
			response.BadRequest(w, messages)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	entry, err := h.diaryService.Create(r.Context(), userID, input)
	if err != nil {
		response.InternalError(w, "failed to create diary entry")
		return
	}

	response.Created(w, entry)
}

// List returns the user's diary entries, newest date first
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entries, err := h.diaryService.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list diary entries")
		return
	}
	if entries == nil {
		entries = []domain.DiaryEntry{}
	}

	response.OK(w, entries)
}

// Get returns one diary entry
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		response.BadRequest(w, "invalid entry ID")
		return
	}

	entry, err := h.diaryService.Get(r.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, service.ErrDiaryNotFound) {
			response.NotFound(w, "diary entry not found")
			return
		}
		response.InternalError(w, "failed to get diary entry")
		return
	}

	response.OK(w, entry)
}

// Update rewrites one diary entry
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		response.BadRequest(w, "invalid entry ID")
		return
	}

	var input domain.DiaryEntryCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if messages, ok := validationMessages(err); ok {
			response.BadRequest(w, messages)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	entry, err := h.diaryService.Update(r.Context(), userID, entryID, input)
	if err != nil {
		if errors.Is(err, service.ErrDiaryNotFound) {
			response.NotFound(w, "diary entry not found")
			return
		}
		response.InternalError(w, "failed to update diary entry")
		return
	}

	response.OK(w, entry)
}

// Delete removes one diary entry
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		response.BadRequest(w, "invalid entry ID")
		return
	}

	if err := h.diaryService.Delete(r.Context(), userID, entryID); err != nil {
		if errors.Is(err, service.ErrDiaryNotFound) {
			response.NotFound(w, "diary entry not found")
			return
		}
		response.InternalError(w, "failed to delete diary entry")
		return
	}

	response.NoContent(w)
}
