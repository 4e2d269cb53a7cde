package server

import (
	"encoding/json"
	"net/http"

	"photofolio/config"
	"photofolio/core/mail"
	"photofolio/logger"
	"photofolio/repository"
	"photofolio/storage"
)

// APIHandler handles all API requests.
type APIHandler struct {
	photoRepo   repository.PhotoRepository
	adminRepo   repository.AdminRepository
	sectionRepo repository.SectionRepository
	assetStore  storage.AssetStore
	mailer      mail.Sender
	cfg         *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	photoRepo repository.PhotoRepository,
	adminRepo repository.AdminRepository,
	sectionRepo repository.SectionRepository,
	assetStore storage.AssetStore,
	mailer mail.Sender,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		photoRepo:   photoRepo,
		adminRepo:   adminRepo,
		sectionRepo: sectionRepo,
		assetStore:  assetStore,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// internalError logs the cause server-side and answers with an opaque 500.
func internalError(w http.ResponseWriter, msg string, err error) {
	logger.Error(msg, logger.ErrorField(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
