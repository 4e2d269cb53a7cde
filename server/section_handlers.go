package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"photofolio/cache"
	"photofolio/logger"
	"photofolio/model"
	"photofolio/repository"

	"github.com/gorilla/mux"
)

// GetSectionsHandler returns the fixed placement catalog, optionally
// filtered with ?path= to the sections of one public page.
func (h *APIHandler) GetSectionsHandler(w http.ResponseWriter, r *http.Request) {
	pathFilter := r.URL.Query().Get("path")

	var cached []*model.SiteSection
	if cache.GetJSON(r.Context(), cache.SectionListKey(pathFilter), &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	sections, err := h.sectionRepo.List(r.Context(), pathFilter)
	if err != nil {
		internalError(w, "failed to list sections", err)
		return
	}

	cache.SetJSON(r.Context(), cache.SectionListKey(pathFilter), sections)
	writeJSON(w, http.StatusOK, sections)
}

// GetSectionHandler returns one section by id.
func (h *APIHandler) GetSectionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	section, err := h.sectionRepo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Section not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to get section", err)
		return
	}

	writeJSON(w, http.StatusOK, section)
}

// UpdateSectionRequest carries the new photo URL for a section.
type UpdateSectionRequest struct {
	PhotoURL string `json:"photoUrl"`
}

// UpdateSectionHandler handles the admin reassignment flow: point a named
// placement slot at a photo picked from the existing uploads. The URL is
// stored as an opaque string.
func (h *APIHandler) UpdateSectionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PhotoURL) == "" {
		http.Error(w, "photoUrl is required", http.StatusBadRequest)
		return
	}

	section, err := h.sectionRepo.SetPhoto(r.Context(), id, req.PhotoURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Section not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to update section", err)
		return
	}

	logger.Info("section photo reassigned",
		logger.String("sectionId", id),
		logger.String("photoUrl", req.PhotoURL))

	cache.InvalidateSections(r.Context())
	writeJSON(w, http.StatusOK, section)
}
