package server

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"photofolio/logger"
	"photofolio/storage"

	"github.com/minio/minio-go/v7"
)

// StaticAssetHandler proxies stored images out of the object store. Photo
// URLs share this path, so the bucket never needs to be public.
func (h *APIHandler) StaticAssetHandler(w http.ResponseWriter, r *http.Request) {
	objectPath := strings.TrimPrefix(r.URL.Path, "/static/")
	if objectPath == "" || strings.Contains(objectPath, "..") {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	client := storage.GetMinioClient()
	if client == nil {
		http.Error(w, "Asset store not available", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	object, err := client.GetObject(ctx, h.cfg.MinioBucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer object.Close()

	// GetObject is lazy; Stat surfaces missing keys before we commit headers.
	stat, err := object.Stat()
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	contentType := stat.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(objectPath)); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000") // a year; keys are unique per upload

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("error serving file from object store",
			logger.String("objectPath", objectPath),
			logger.ErrorField(err))
	}
}
