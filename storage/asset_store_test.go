package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderSlug(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Nature", "nature"},
		{"Summer Trip 2024", "summer-trip-2024"},
		{"  Mixed   Spacing  ", "mixed-spacing"},
		{"Fête du Vin!", "fte-du-vin"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FolderSlug(tc.label), "label %q", tc.label)
	}
}

func TestFolderSlug_Deterministic(t *testing.T) {
	assert.Equal(t, FolderSlug("Summer Trip"), FolderSlug("summer trip"))
}

func TestValidateUpload(t *testing.T) {
	store := NewMinioAssetStore(nil, "photos", "http://cdn.test", 1024, "portfolio")

	require.NoError(t, store.ValidateUpload(512, "image/jpeg"))
	require.NoError(t, store.ValidateUpload(512, "image/jpg"))
	require.NoError(t, store.ValidateUpload(1024, "image/webp"))

	assert.ErrorIs(t, store.ValidateUpload(0, "image/jpeg"), ErrUploadRejected)
	assert.ErrorIs(t, store.ValidateUpload(2048, "image/jpeg"), ErrUploadRejected)
	assert.ErrorIs(t, store.ValidateUpload(512, "application/pdf"), ErrUploadRejected)
	assert.ErrorIs(t, store.ValidateUpload(512, "video/mp4"), ErrUploadRejected)
	assert.ErrorIs(t, store.ValidateUpload(512, ""), ErrUploadRejected)
}

func TestObjectKey(t *testing.T) {
	store := NewMinioAssetStore(nil, "photos", "http://cdn.test", 0, "portfolio")

	key := store.objectKey(UploadInput{
		OriginalName: "Autumn Walk.JPG",
		ContentType:  "image/jpeg",
		Folder:       "Nature",
	})
	assert.True(t, strings.HasPrefix(key, "nature/autumn-walk_"), "key %q", key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), "key %q", key)

	// No folder falls back to the configured default prefix.
	key = store.objectKey(UploadInput{OriginalName: "x.png", ContentType: "image/png"})
	assert.True(t, strings.HasPrefix(key, "portfolio/"), "key %q", key)

	// Extensionless names get one from the content type.
	key = store.objectKey(UploadInput{OriginalName: "snapshot", ContentType: "image/webp"})
	assert.True(t, strings.HasSuffix(key, ".webp"), "key %q", key)
}

func TestObjectKey_UniquePerUpload(t *testing.T) {
	store := NewMinioAssetStore(nil, "photos", "http://cdn.test", 0, "portfolio")
	in := UploadInput{OriginalName: "same.jpg", ContentType: "image/jpeg", Folder: "Nature"}
	assert.NotEqual(t, store.objectKey(in), store.objectKey(in))
}

func TestObjectKeyFromURL(t *testing.T) {
	store := NewMinioAssetStore(nil, "photos", "http://cdn.test", 0, "portfolio")

	assert.Equal(t, "nature/a_12345678.jpg",
		store.ObjectKeyFromURL("http://cdn.test/static/nature/a_12345678.jpg"))
	assert.Equal(t, "nature/a_12345678.jpg",
		store.ObjectKeyFromURL("/static/nature/a_12345678.jpg"))

	// Foreign hosts and non-store paths are not ours.
	assert.Empty(t, store.ObjectKeyFromURL("http://elsewhere.test/static/nature/a.jpg"))
	assert.Empty(t, store.ObjectKeyFromURL("/images/featured-1.jpg"))
	assert.Empty(t, store.ObjectKeyFromURL(""))
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "nature/a_12345678_thumb.jpg", ThumbnailKey("nature/a_12345678.jpg"))
	assert.Equal(t, "nature/a_thumb.jpg", ThumbnailKey("nature/a.png"))
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", normalizeContentType("image/jpg"))
	assert.Equal(t, "image/jpeg", normalizeContentType(" IMAGE/JPEG "))
	assert.Equal(t, "image/png", normalizeContentType("image/png; charset=binary"))
}
