package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"photofolio/cache"
	"photofolio/logger"
	"photofolio/model"
	"photofolio/repository"
	"photofolio/storage"

	"github.com/gorilla/mux"
)

// GetPhotosHandler returns the photo list, newest first. An optional
// ?album= query narrows the list to a case-insensitive exact label match;
// the reserved label "Uncategorized" selects photos without an album.
func (h *APIHandler) GetPhotosHandler(w http.ResponseWriter, r *http.Request) {
	album := strings.TrimSpace(r.URL.Query().Get("album"))

	var cached []*model.Photo
	if cache.GetJSON(r.Context(), cache.PhotoListKey(album), &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	var (
		photos []*model.Photo
		err    error
	)
	if album == "" {
		photos, err = h.photoRepo.List(r.Context())
	} else {
		photos, err = h.photoRepo.ListByAlbum(r.Context(), album)
	}
	if err != nil {
		internalError(w, "failed to list photos", err)
		return
	}

	cache.SetJSON(r.Context(), cache.PhotoListKey(album), photos)
	writeJSON(w, http.StatusOK, photos)
}

// GetPhotoHandler returns a single photo by id.
func (h *APIHandler) GetPhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to get photo", err)
		return
	}

	writeJSON(w, http.StatusOK, photo)
}

// UploadPhotoHandler handles the admin upload flow: validate the form,
// externalize the binary, then create the metadata record with the
// returned URL. The upload is awaited so no record ever points at a
// not-yet-durable asset.
//
// Expected multipart form fields:
// - photo: the image file (JPEG, PNG, GIF, WebP)
// - title: photo title (required)
// - description: optional text
// - album: optional album label
func (h *APIHandler) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB in memory, rest spills to disk
		http.Error(w, fmt.Sprintf("Failed to parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	description := strings.TrimSpace(r.FormValue("description"))
	album := strings.TrimSpace(r.FormValue("album"))

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing 'photo' in form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	asset, err := h.assetStore.Store(r.Context(), file, header.Size, storage.UploadInput{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Folder:       album,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUploadRejected) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, "failed to store asset", err)
		return
	}

	photo := &model.Photo{
		Title:        title,
		Description:  description,
		Album:        album,
		URL:          asset.URL,
		ThumbnailURL: asset.ThumbnailURL,
	}

	if _, err := h.photoRepo.Create(r.Context(), photo); err != nil {
		internalError(w, "failed to create photo record", err)
		return
	}

	logger.Info("photo uploaded",
		logger.Int64("photoId", photo.ID),
		logger.String("title", photo.Title),
		logger.String("objectKey", asset.ObjectKey),
		logger.Int64("size", asset.Size))

	cache.InvalidatePhotos(r.Context())
	writeJSON(w, http.StatusCreated, photo)
}

// UpdatePhotoRequest represents the editable photo fields. Omitted fields
// stay unchanged; the URL cannot be edited.
type UpdatePhotoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Album       *string `json:"album"`
}

// UpdatePhotoHandler handles the admin edit flow.
func (h *APIHandler) UpdatePhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	var req UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		http.Error(w, "Title cannot be empty", http.StatusBadRequest)
		return
	}

	photo, err := h.photoRepo.Update(r.Context(), id, model.PhotoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Album:       req.Album,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to update photo", err)
		return
	}

	cache.InvalidatePhotos(r.Context())
	writeJSON(w, http.StatusOK, photo)
}

// DeletePhotoHandler handles the admin delete flow. The metadata delete is
// authoritative; removing the remote asset is best-effort and a failure
// there is logged, not surfaced.
func (h *APIHandler) DeletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid photo id", http.StatusBadRequest)
		return
	}

	photo, err := h.photoRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to get photo for delete", err)
		return
	}

	if err := h.photoRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race with a concurrent delete; same observable outcome.
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		internalError(w, "failed to delete photo", err)
		return
	}

	if err := h.assetStore.Delete(r.Context(), photo.URL); err != nil {
		logger.Warn("failed to delete remote asset",
			logger.Int64("photoId", id),
			logger.String("url", photo.URL),
			logger.ErrorField(err))
	}

	logger.Info("photo deleted", logger.Int64("photoId", id))

	cache.InvalidatePhotos(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted successfully"})
}

func photoIDFromRequest(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}
