package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"photofolio/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUploadRequest builds a multipart POST /api/photos request.
func newUploadRequest(t *testing.T, token, title, description, album string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="sunset.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("title", title))
	if description != "" {
		require.NoError(t, writer.WriteField("description", description))
	}
	if album != "" {
		require.NoError(t, writer.WriteField("album", album))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadPhoto_CreatesRecordAndListsFirst(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, newUploadRequest(t, token, "Sunset", "Golden hour", "Nature"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Photo
	require.NoError(t, decodeBody(rec, &created))
	assert.Equal(t, "Sunset", created.Title)
	assert.NotEmpty(t, created.URL)
	assert.False(t, created.UploadDate.IsZero())
	assert.Equal(t, 1, env.assets.storeCalls)

	listRec := httptest.NewRecorder()
	env.router.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
	require.Equal(t, http.StatusOK, listRec.Code)

	var photos []*model.Photo
	require.NoError(t, decodeBody(listRec, &photos))
	require.Len(t, photos, 1)
	assert.Equal(t, created.ID, photos[0].ID)
}

func TestUploadPhoto_Unauthenticated(t *testing.T) {
	env := newTestEnv()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, newUploadRequest(t, "", "Sunset", "", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.photos.photos, "unauthenticated upload must not change state")
	assert.Zero(t, env.assets.storeCalls)
}

func TestUploadPhoto_MissingTitle(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, newUploadRequest(t, token, "", "", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.assets.storeCalls, "validation must run before the asset is externalized")
}

func TestListPhotos_NewestFirst(t *testing.T) {
	env := newTestEnv()
	base := time.Now()

	for i := 0; i < 3; i++ {
		_, err := env.photos.Create(context.Background(), &model.Photo{
			Title:      fmt.Sprintf("photo-%d", i),
			URL:        fmt.Sprintf("http://cdn.test/static/p/%d.jpg", i),
			UploadDate: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	// Same timestamp as the last photo: ties resolve by insertion order.
	_, err := env.photos.Create(context.Background(), &model.Photo{
		Title:      "tie-breaker",
		URL:        "http://cdn.test/static/p/tie.jpg",
		UploadDate: base.Add(2 * time.Minute),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var photos []*model.Photo
	require.NoError(t, decodeBody(rec, &photos))
	require.Len(t, photos, 4)
	assert.Equal(t, "tie-breaker", photos[0].Title)
	assert.Equal(t, "photo-2", photos[1].Title)
	assert.Equal(t, "photo-0", photos[3].Title)
}

func TestListPhotos_AlbumFilterCaseInsensitive(t *testing.T) {
	env := newTestEnv()

	for _, album := range []string{"Weddings", "weddings", "Nature", ""} {
		_, err := env.photos.Create(context.Background(), &model.Photo{
			Title: "p", URL: "http://cdn.test/static/p.jpg", Album: album,
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos?album=WEDDINGS", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var photos []*model.Photo
	require.NoError(t, decodeBody(rec, &photos))
	assert.Len(t, photos, 2)
}

func TestListPhotos_UncategorizedBucket(t *testing.T) {
	env := newTestEnv()

	_, err := env.photos.Create(context.Background(), &model.Photo{
		Title: "labeled", URL: "http://cdn.test/static/a.jpg", Album: "Nature",
	})
	require.NoError(t, err)
	_, err = env.photos.Create(context.Background(), &model.Photo{
		Title: "unlabeled", URL: "http://cdn.test/static/b.jpg",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos?album=Uncategorized", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var photos []*model.Photo
	require.NoError(t, decodeBody(rec, &photos))
	require.Len(t, photos, 1)
	assert.Equal(t, "unlabeled", photos[0].Title)
}

func TestUpdatePhoto_DoesNotChangeURL(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")

	id, err := env.photos.Create(context.Background(), &model.Photo{
		Title: "Old", URL: "http://cdn.test/static/keep.jpg",
	})
	require.NoError(t, err)

	body := `{"title":"New title","description":"edited","url":"http://evil.test/x.jpg"}`
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/photos/%d", id), strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Photo
	require.NoError(t, decodeBody(rec, &updated))
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "edited", updated.Description)
	assert.Equal(t, "http://cdn.test/static/keep.jpg", updated.URL, "url must be immutable")
}

func TestUpdatePhoto_NotFound(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")

	req := httptest.NewRequest(http.MethodPut, "/api/photos/999", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.photos.photos, "failed update must leave the store unmodified")
}

func TestDeletePhoto_Idempotent(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")

	id, err := env.photos.Create(context.Background(), &model.Photo{
		Title: "Doomed", URL: "http://cdn.test/static/doomed.jpg",
	})
	require.NoError(t, err)

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/photos/%d", id), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	first := del()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, []string{"http://cdn.test/static/doomed.jpg"}, env.assets.deleteCalls)

	second := del()
	assert.Equal(t, http.StatusNotFound, second.Code)
}

func TestDeletePhoto_AssetCleanupFailureIsNotFatal(t *testing.T) {
	env := newTestEnv()
	token := env.seedAdmin("admin", "password")
	env.assets.deleteErr = fmt.Errorf("store down")

	id, err := env.photos.Create(context.Background(), &model.Photo{
		Title: "Doomed", URL: "http://cdn.test/static/doomed.jpg",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/photos/%d", id), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	// Metadata deletion is authoritative; remote cleanup is best-effort.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.photos.photos)
}

func TestGetAlbums_DerivedGroupings(t *testing.T) {
	env := newTestEnv()

	for _, album := range []string{"Nature", "Nature", "Weddings", ""} {
		_, err := env.photos.Create(context.Background(), &model.Photo{
			Title: "p", URL: "http://cdn.test/static/p.jpg", Album: album,
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/albums", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var albums []*model.AlbumSummary
	require.NoError(t, decodeBody(rec, &albums))
	require.Len(t, albums, 3)

	counts := map[string]int{}
	for _, a := range albums {
		counts[a.Title] = a.PhotoCount
	}
	assert.Equal(t, 2, counts["Nature"])
	assert.Equal(t, 1, counts["Weddings"])
	assert.Equal(t, 1, counts[model.UncategorizedAlbum])
}
