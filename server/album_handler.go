package server

import (
	"net/http"

	"photofolio/cache"
	"photofolio/model"
)

// GetAlbumsHandler returns the derived album groupings: one entry per
// distinct non-empty album label, plus an Uncategorized bucket when photos
// without an album exist. The public portfolio builds its filter set from
// this list.
func (h *APIHandler) GetAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	var cached []*model.AlbumSummary
	if cache.GetJSON(r.Context(), cache.AlbumListKey(), &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	albums, err := h.photoRepo.ListAlbums(r.Context())
	if err != nil {
		internalError(w, "failed to list albums", err)
		return
	}

	cache.SetJSON(r.Context(), cache.AlbumListKey(), albums)
	writeJSON(w, http.StatusOK, albums)
}
