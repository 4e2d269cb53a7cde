package ingest

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"photofolio/logger"
	"photofolio/model"
	"photofolio/repository"
	"photofolio/storage"

	"github.com/fsnotify/fsnotify"
)

// Watcher auto-imports images dropped into a local directory: each new
// file is externalized to the asset store, a photo record is created for
// it, and the local copy is removed. Non-image files are ignored.
type Watcher struct {
	dir       string
	album     string
	store     storage.AssetStore
	photoRepo repository.PhotoRepository

	// settleDelay gives the writer time to finish before we read the file.
	settleDelay time.Duration
}

// NewWatcher creates a drop-folder watcher. The directory is created when
// missing.
func NewWatcher(dir, album string, store storage.AssetStore, photoRepo repository.PhotoRepository) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ingest directory %s: %w", dir, err)
	}
	return &Watcher{
		dir:         dir,
		album:       album,
		store:       store,
		photoRepo:   photoRepo,
		settleDelay: 2 * time.Second,
	}, nil
}

// Run watches the directory until the context is cancelled. Import
// failures are logged and never stop the loop.
func (w *Watcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create file watcher", logger.ErrorField(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		logger.Error("failed to watch ingest directory",
			logger.String("dir", w.dir), logger.ErrorField(err))
		return
	}

	// Files present before the watcher started.
	w.importExisting(ctx)

	seen := &sync.Map{}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, loaded := seen.LoadOrStore(event.Name, struct{}{}); loaded {
				continue
			}
			go func(path string) {
				defer seen.Delete(path)
				time.Sleep(w.settleDelay)
				w.importFile(ctx, path)
			}(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("ingest watcher error", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Error("failed to read ingest directory", logger.ErrorField(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.importFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// importFile uploads one image and records it. The local file is removed
// only after both the upload and the record succeed, so a failed import
// stays in the folder for the next run.
func (w *Watcher) importFile(ctx context.Context, path string) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(contentType, "image/") {
		logger.Debug("ignoring non-image file", logger.String("path", path))
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Error("failed to open ingest file", logger.String("path", path), logger.ErrorField(err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		logger.Error("failed to stat ingest file", logger.String("path", path), logger.ErrorField(err))
		return
	}

	asset, err := w.store.Store(ctx, file, info.Size(), storage.UploadInput{
		OriginalName: filepath.Base(path),
		ContentType:  contentType,
		Folder:       w.album,
	})
	if err != nil {
		logger.Error("failed to store ingest file", logger.String("path", path), logger.ErrorField(err))
		return
	}

	photo := &model.Photo{
		Title:        TitleFromFilename(filepath.Base(path)),
		Album:        w.album,
		URL:          asset.URL,
		ThumbnailURL: asset.ThumbnailURL,
	}
	if _, err := w.photoRepo.Create(ctx, photo); err != nil {
		logger.Error("failed to create photo record for ingest file",
			logger.String("path", path), logger.ErrorField(err))
		return
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("failed to remove imported file", logger.String("path", path), logger.ErrorField(err))
	}

	logger.Info("imported photo from drop folder",
		logger.Int64("photoId", photo.ID),
		logger.String("title", photo.Title))
}

// TitleFromFilename turns "autumn_walk-02.jpg" into "Autumn Walk 02".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	words := strings.Fields(base)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}
