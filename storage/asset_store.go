package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registered for thumbnail decoding
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"photofolio/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/nfnt/resize"
)

var (
	// ErrUploadRejected signals a policy violation: empty file, file too
	// large, or a content type outside the image allow-list.
	ErrUploadRejected = errors.New("upload rejected")

	// ErrStoreUnavailable signals that the remote store could not be
	// reached. Callers report it; nothing here retries.
	ErrStoreUnavailable = errors.New("asset store unavailable")

	// ErrAssetNotFound signals a delete for an object that does not exist.
	ErrAssetNotFound = errors.New("asset not found")
)

const (
	storagePathPrefix = "/static/"
	thumbnailWidth    = 480
	requestTimeout    = 30 * time.Second
)

// allowedImageTypes is the upload allow-list.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StoredAsset describes an externalized image.
type StoredAsset struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	ObjectKey    string `json:"objectKey"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

// UploadInput carries the metadata accompanying an upload. Folder is the
// raw album label; it is slugged before becoming an object-store prefix.
type UploadInput struct {
	OriginalName string
	ContentType  string
	Folder       string
}

// AssetStore externalizes image binaries to a remote store and removes
// them again. Handlers depend on this interface so tests can fake it.
type AssetStore interface {
	Store(ctx context.Context, r io.Reader, size int64, in UploadInput) (*StoredAsset, error)
	Delete(ctx context.Context, assetURL string) error
}

// MinioAssetStore implements AssetStore on a MinIO bucket.
type MinioAssetStore struct {
	client        *minio.Client
	bucket        string
	baseURL       string
	maxBytes      int64
	defaultFolder string
}

// NewMinioAssetStore creates a MinIO-backed asset store.
func NewMinioAssetStore(client *minio.Client, bucket, baseURL string, maxBytes int64, defaultFolder string) *MinioAssetStore {
	return &MinioAssetStore{
		client:        client,
		bucket:        bucket,
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxBytes:      maxBytes,
		defaultFolder: defaultFolder,
	}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9\-]`)
)

// FolderSlug derives a deterministic object-store prefix from an album
// label: lower-cased, whitespace runs collapsed to a single dash, all other
// non-alphanumerics stripped. Repeated uploads to the same album land in
// the same prefix.
func FolderSlug(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "-")
	return slug
}

// ValidateUpload checks size and content type against the upload policy.
func (s *MinioAssetStore) ValidateUpload(size int64, contentType string) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrUploadRejected)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return fmt.Errorf("%w: file size %d exceeds limit %d", ErrUploadRejected, size, s.maxBytes)
	}
	if _, ok := allowedImageTypes[normalizeContentType(contentType)]; !ok {
		return fmt.Errorf("%w: content type %q is not an allowed image format", ErrUploadRejected, contentType)
	}
	return nil
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	return ct
}

// objectKey builds the destination key: <folder>/<base>_<suffix><ext>.
func (s *MinioAssetStore) objectKey(in UploadInput) string {
	folder := FolderSlug(in.Folder)
	if folder == "" {
		folder = s.defaultFolder
	}

	ext := strings.ToLower(path.Ext(in.OriginalName))
	if ext == "" {
		ext = allowedImageTypes[normalizeContentType(in.ContentType)]
	}

	base := FolderSlug(strings.TrimSuffix(path.Base(in.OriginalName), path.Ext(in.OriginalName)))
	if base == "" {
		base = "photo"
	}

	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s_%s%s", folder, base, suffix, ext)
}

// publicURL maps an object key to the address clients fetch it from.
func (s *MinioAssetStore) publicURL(key string) string {
	return s.baseURL + storagePathPrefix + key
}

// Store validates and uploads one image, returning its durable public URL.
// The upload is awaited: the returned URL is fetchable once Store returns.
// A JPEG thumbnail is stored next to decodable originals; thumbnail
// failures never fail the upload.
func (s *MinioAssetStore) Store(ctx context.Context, r io.Reader, size int64, in UploadInput) (*StoredAsset, error) {
	contentType := normalizeContentType(in.ContentType)
	if err := s.ValidateUpload(size, contentType); err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	read, err := io.Copy(buffer, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if read == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUploadRejected)
	}
	if s.maxBytes > 0 && read > s.maxBytes {
		return nil, fmt.Errorf("%w: file size %d exceeds limit %d", ErrUploadRejected, read, s.maxBytes)
	}

	key := s.objectKey(in)

	putCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	opts := minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	}
	if _, err := s.client.PutObject(putCtx, s.bucket, key, bytes.NewReader(buffer.Bytes()), read, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	asset := &StoredAsset{
		URL:          s.publicURL(key),
		ObjectKey:    key,
		OriginalName: in.OriginalName,
		ContentType:  contentType,
		Size:         read,
	}

	if thumbKey, err := s.storeThumbnail(ctx, key, buffer.Bytes()); err != nil {
		logger.Warn("thumbnail generation failed",
			logger.String("objectKey", key),
			logger.ErrorField(err))
	} else if thumbKey != "" {
		asset.ThumbnailURL = s.publicURL(thumbKey)
	}

	return asset, nil
}

// storeThumbnail decodes the original and uploads a width-bounded JPEG
// copy. Formats the decoder does not know (gif, webp) are skipped.
func (s *MinioAssetStore) storeThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil // not decodable, no thumbnail
	}

	if img.Bounds().Dx() > thumbnailWidth {
		img = resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	}

	out := &bytes.Buffer{}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbKey := ThumbnailKey(key)

	putCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	_, err = s.client.PutObject(putCtx, s.bucket, thumbKey,
		bytes.NewReader(out.Bytes()), int64(out.Len()),
		minio.PutObjectOptions{ContentType: "image/jpeg", DisableMultipart: true})
	if err != nil {
		return "", fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	return thumbKey, nil
}

// ThumbnailKey maps an object key to its thumbnail's key.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb.jpg"
}

// ObjectKeyFromURL maps a public asset URL back to its object key. Returns
// an empty string for URLs this store did not issue.
func (s *MinioAssetStore) ObjectKeyFromURL(assetURL string) string {
	trimmed := assetURL
	if strings.HasPrefix(trimmed, s.baseURL) {
		trimmed = strings.TrimPrefix(trimmed, s.baseURL)
	} else if u, err := url.Parse(assetURL); err == nil && u.IsAbs() {
		// Absolute URL under a different base: not ours.
		return ""
	}
	if !strings.HasPrefix(trimmed, storagePathPrefix) {
		return ""
	}
	return strings.TrimPrefix(trimmed, storagePathPrefix)
}

// Delete removes the object behind a public URL, plus its thumbnail
// best-effort. URLs outside this store (bundled defaults, foreign hosts)
// report ErrAssetNotFound.
func (s *MinioAssetStore) Delete(ctx context.Context, assetURL string) error {
	key := s.ObjectKeyFromURL(assetURL)
	if key == "" {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, assetURL)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if _, err := s.client.StatObject(reqCtx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return fmt.Errorf("%w: %s", ErrAssetNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.client.RemoveObject(reqCtx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Thumbnail cleanup is best-effort; the original is already gone.
	thumbKey := ThumbnailKey(key)
	if err := s.client.RemoveObject(reqCtx, s.bucket, thumbKey, minio.RemoveObjectOptions{}); err != nil {
		logger.Warn("failed to remove thumbnail",
			logger.String("objectKey", thumbKey),
			logger.ErrorField(err))
	}

	return nil
}
