package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"photofolio/config"
	"photofolio/core/auth"
	"photofolio/model"
	"photofolio/repository"
	"photofolio/storage"

	"github.com/gorilla/mux"
)

// In-memory fakes standing in for the MySQL repositories and the MinIO
// asset store.

type fakePhotoRepo struct {
	photos []*model.Photo
	nextID int64
	err    error
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{nextID: 1}
}

func (r *fakePhotoRepo) Create(_ context.Context, photo *model.Photo) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if photo.UploadDate.IsZero() {
		photo.UploadDate = time.Now()
	}
	photo.ID = r.nextID
	r.nextID++
	photo.CreatedAt = time.Now()
	photo.UpdatedAt = photo.CreatedAt
	stored := *photo
	r.photos = append(r.photos, &stored)
	return photo.ID, nil
}

func (r *fakePhotoRepo) GetByID(_ context.Context, id int64) (*model.Photo, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.photos {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePhotoRepo) sorted() []*model.Photo {
	out := make([]*model.Photo, len(r.photos))
	copy(out, r.photos)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].UploadDate.After(out[j].UploadDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *fakePhotoRepo) List(_ context.Context) ([]*model.Photo, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(), nil
}

func (r *fakePhotoRepo) ListByAlbum(_ context.Context, label string) ([]*model.Photo, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*model.Photo, 0)
	for _, p := range r.sorted() {
		if label == model.UncategorizedAlbum {
			if p.Album == "" {
				out = append(out, p)
			}
		} else if strings.EqualFold(p.Album, label) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) ListAlbums(_ context.Context) ([]*model.AlbumSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	byLabel := map[string]*model.AlbumSummary{}
	for _, p := range r.sorted() {
		label := p.Album
		if label == "" {
			label = model.UncategorizedAlbum
		}
		summary, ok := byLabel[label]
		if !ok {
			summary = &model.AlbumSummary{Title: label, CoverURL: p.URL, LatestDate: p.UploadDate}
			byLabel[label] = summary
		}
		summary.PhotoCount++
	}
	out := make([]*model.AlbumSummary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakePhotoRepo) Update(_ context.Context, id int64, upd model.PhotoUpdate) (*model.Photo, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.photos {
		if p.ID == id {
			if upd.Title != nil {
				p.Title = *upd.Title
			}
			if upd.Description != nil {
				p.Description = *upd.Description
			}
			if upd.Album != nil {
				p.Album = *upd.Album
			}
			p.UpdatedAt = time.Now()
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePhotoRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	for i, p := range r.photos {
		if p.ID == id {
			r.photos = append(r.photos[:i], r.photos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAdminRepo struct {
	admins map[string]*model.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*model.Admin{}}
}

func (r *fakeAdminRepo) CreateAdmin(admin *model.Admin) (int64, error) {
	if _, exists := r.admins[admin.Username]; exists {
		return 0, repository.ErrDuplicateAdmin
	}
	admin.ID = int64(len(r.admins) + 1)
	r.admins[admin.Username] = admin
	return admin.ID, nil
}

func (r *fakeAdminRepo) GetAdminByUsername(username string) (*model.Admin, error) {
	admin, ok := r.admins[username]
	if !ok {
		return nil, nil
	}
	return admin, nil
}

type fakeSectionRepo struct {
	sections map[string]*model.SiteSection
}

func newFakeSectionRepo() *fakeSectionRepo {
	r := &fakeSectionRepo{sections: map[string]*model.SiteSection{}}
	for _, s := range model.DefaultSections() {
		section := s
		section.CurrentPhotoURL = section.DefaultPhotoURL
		r.sections[section.ID] = &section
	}
	return r
}

func (r *fakeSectionRepo) Seed(_ context.Context) error { return nil }

func (r *fakeSectionRepo) List(_ context.Context, pathFilter string) ([]*model.SiteSection, error) {
	out := make([]*model.SiteSection, 0)
	for _, s := range r.sections {
		if pathFilter != "" && s.Path != pathFilter {
			continue
		}
		copied := *s
		copied.CurrentPhotoURL = copied.EffectivePhotoURL()
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSectionRepo) Get(_ context.Context, id string) (*model.SiteSection, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	copied.CurrentPhotoURL = copied.EffectivePhotoURL()
	return &copied, nil
}

func (r *fakeSectionRepo) SetPhoto(ctx context.Context, id, photoURL string) (*model.SiteSection, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.CurrentPhotoURL = photoURL
	return r.Get(ctx, id)
}

type fakeAssetStore struct {
	storeCalls  int
	deleteCalls []string
	storeErr    error
	deleteErr   error
}

func (s *fakeAssetStore) Store(_ context.Context, r io.Reader, size int64, in storage.UploadInput) (*storage.StoredAsset, error) {
	if s.storeErr != nil {
		return nil, s.storeErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	s.storeCalls++
	folder := storage.FolderSlug(in.Folder)
	if folder == "" {
		folder = "portfolio"
	}
	key := fmt.Sprintf("%s/%s", folder, in.OriginalName)
	return &storage.StoredAsset{
		URL:          "http://cdn.test/static/" + key,
		ObjectKey:    key,
		OriginalName: in.OriginalName,
		ContentType:  in.ContentType,
		Size:         size,
	}, nil
}

func (s *fakeAssetStore) Delete(_ context.Context, assetURL string) error {
	s.deleteCalls = append(s.deleteCalls, assetURL)
	return s.deleteErr
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, fromName, replyTo, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, subject)
	return nil
}

// testEnv bundles a handler wired with fakes and a router matching the
// production route table.
type testEnv struct {
	handler  *APIHandler
	router   *mux.Router
	photos   *fakePhotoRepo
	admins   *fakeAdminRepo
	sections *fakeSectionRepo
	assets   *fakeAssetStore
	mailer   *fakeMailer
}

func newTestEnv() *testEnv {
	auth.Configure("test-secret", time.Hour)

	env := &testEnv{
		photos:   newFakePhotoRepo(),
		admins:   newFakeAdminRepo(),
		sections: newFakeSectionRepo(),
		assets:   &fakeAssetStore{},
		mailer:   &fakeMailer{},
	}

	cfg := &config.Config{
		MaxUploadBytes: 50 << 20,
		DefaultFolder:  "portfolio",
		PublicBaseURL:  "http://cdn.test",
	}
	env.handler = NewAPIHandler(env.photos, env.admins, env.sections, env.assets, env.mailer, cfg)

	router := mux.NewRouter()
	h := env.handler
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/photos", h.GetPhotosHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/photos", h.AuthMiddleware(h.UploadPhotoHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/photos/{id}", h.GetPhotoHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/photos/{id}", h.AuthMiddleware(h.UpdatePhotoHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/photos/{id}", h.AuthMiddleware(h.DeletePhotoHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/albums", h.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sections", h.GetSectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sections/{id}", h.GetSectionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sections/{id}", h.AuthMiddleware(h.UpdateSectionHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/contact", h.ContactHandler).Methods(http.MethodPost)
	env.router = router

	return env
}

func decodeBody(rec *httptest.ResponseRecorder, dest interface{}) error {
	return json.NewDecoder(rec.Body).Decode(dest)
}

// seedAdmin provisions an admin and returns a valid bearer token.
func (env *testEnv) seedAdmin(username, password string) string {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	if _, err := env.admins.CreateAdmin(&model.Admin{Username: username, PasswordHash: hash}); err != nil {
		panic(err)
	}
	token, err := auth.GenerateToken(1, username)
	if err != nil {
		panic(err)
	}
	return token
}
