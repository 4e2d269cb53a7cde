package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"photofolio/model"
)

// PhotoRepository defines the interface for photo metadata operations.
// The URL is set once at creation; Update never touches it.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Photo, error)

	// List returns all photos ordered by upload date descending, newest
	// first. Ties resolve by insertion order (higher id first).
	List(ctx context.Context) ([]*model.Photo, error)

	// ListByAlbum filters by album label, case-insensitively. The reserved
	// label model.UncategorizedAlbum selects photos without an album.
	ListByAlbum(ctx context.Context, label string) ([]*model.Photo, error)

	// ListAlbums returns the derived album groupings, newest album first,
	// including an Uncategorized bucket when unlabeled photos exist.
	ListAlbums(ctx context.Context) ([]*model.AlbumSummary, error)

	Update(ctx context.Context, id int64, upd model.PhotoUpdate) (*model.Photo, error)
	Delete(ctx context.Context, id int64) error
}

// mysqlPhotoRepository implements PhotoRepository for MySQL.
type mysqlPhotoRepository struct {
	db *sql.DB
}

// NewMySQLPhotoRepository creates a new mysqlPhotoRepository.
func NewMySQLPhotoRepository(db *sql.DB) PhotoRepository {
	return &mysqlPhotoRepository{db: db}
}

const photoColumns = "id, title, description, album, url, thumbnail_url, upload_date, created_at, updated_at"

func scanPhoto(scanner interface{ Scan(dest ...any) error }) (*model.Photo, error) {
	photo := &model.Photo{}
	var description, album, thumbnail sql.NullString
	err := scanner.Scan(&photo.ID, &photo.Title, &description, &album, &photo.URL,
		&thumbnail, &photo.UploadDate, &photo.CreatedAt, &photo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	photo.Description = description.String
	photo.Album = album.String
	photo.ThumbnailURL = thumbnail.String
	return photo, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create inserts a new photo record. The upload date defaults to now when
// the caller did not set one.
func (r *mysqlPhotoRepository) Create(ctx context.Context, photo *model.Photo) (int64, error) {
	if photo.UploadDate.IsZero() {
		photo.UploadDate = time.Now()
	}

	query := "INSERT INTO photos (title, description, album, url, thumbnail_url, upload_date) VALUES (?, ?, ?, ?, ?, ?)"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare create photo statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, photo.Title, nullable(photo.Description),
		nullable(photo.Album), photo.URL, nullable(photo.ThumbnailURL), photo.UploadDate)
	if err != nil {
		return 0, fmt.Errorf("failed to execute create photo statement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for photo: %w", err)
	}
	photo.ID = id
	return id, nil
}

// GetByID retrieves a photo by its ID.
func (r *mysqlPhotoRepository) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos WHERE id = ?"
	photo, err := scanPhoto(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan photo row for ID %d: %w", id, err)
	}
	return photo, nil
}

// List returns all photos, newest first.
func (r *mysqlPhotoRepository) List(ctx context.Context) ([]*model.Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos ORDER BY upload_date DESC, id DESC"
	return r.queryPhotos(ctx, query)
}

// ListByAlbum filters photos by album label.
func (r *mysqlPhotoRepository) ListByAlbum(ctx context.Context, label string) ([]*model.Photo, error) {
	if label == model.UncategorizedAlbum {
		query := "SELECT " + photoColumns + " FROM photos WHERE album IS NULL OR album = '' ORDER BY upload_date DESC, id DESC"
		return r.queryPhotos(ctx, query)
	}
	query := "SELECT " + photoColumns + " FROM photos WHERE LOWER(album) = LOWER(?) ORDER BY upload_date DESC, id DESC"
	return r.queryPhotos(ctx, query, label)
}

func (r *mysqlPhotoRepository) queryPhotos(ctx context.Context, query string, args ...any) ([]*model.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*model.Photo, 0)
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo rows: %w", err)
	}
	return photos, nil
}

// ListAlbums computes the derived album groupings.
func (r *mysqlPhotoRepository) ListAlbums(ctx context.Context) ([]*model.AlbumSummary, error) {
	query := `
		SELECT album, COUNT(*), MAX(upload_date)
		FROM photos
		WHERE album IS NOT NULL AND album <> ''
		GROUP BY album
		ORDER BY MAX(upload_date) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query album summaries: %w", err)
	}
	defer rows.Close()

	albums := make([]*model.AlbumSummary, 0)
	for rows.Next() {
		summary := &model.AlbumSummary{}
		if err := rows.Scan(&summary.Title, &summary.PhotoCount, &summary.LatestDate); err != nil {
			return nil, fmt.Errorf("failed to scan album summary row: %w", err)
		}
		albums = append(albums, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album summary rows: %w", err)
	}

	// Cover is the newest photo in each album.
	coverQuery := "SELECT url FROM photos WHERE album = ? ORDER BY upload_date DESC, id DESC LIMIT 1"
	for _, summary := range albums {
		var cover string
		if err := r.db.QueryRowContext(ctx, coverQuery, summary.Title).Scan(&cover); err == nil {
			summary.CoverURL = cover
		}
	}

	// Uncategorized bucket, when unlabeled photos exist.
	var uncategorized model.AlbumSummary
	bucketQuery := "SELECT COUNT(*), COALESCE(MAX(upload_date), NOW()) FROM photos WHERE album IS NULL OR album = ''"
	if err := r.db.QueryRowContext(ctx, bucketQuery).Scan(&uncategorized.PhotoCount, &uncategorized.LatestDate); err != nil {
		return nil, fmt.Errorf("failed to query uncategorized bucket: %w", err)
	}
	if uncategorized.PhotoCount > 0 {
		uncategorized.Title = model.UncategorizedAlbum
		uncoverQuery := "SELECT url FROM photos WHERE album IS NULL OR album = '' ORDER BY upload_date DESC, id DESC LIMIT 1"
		var cover string
		if err := r.db.QueryRowContext(ctx, uncoverQuery).Scan(&cover); err == nil {
			uncategorized.CoverURL = cover
		}
		albums = append(albums, &uncategorized)
	}

	return albums, nil
}

// Update modifies the editable metadata fields of a photo. The URL is not
// updatable through this operation.
func (r *mysqlPhotoRepository) Update(ctx context.Context, id int64, upd model.PhotoUpdate) (*model.Photo, error) {
	photo, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		photo.Title = *upd.Title
	}
	if upd.Description != nil {
		photo.Description = *upd.Description
	}
	if upd.Album != nil {
		photo.Album = *upd.Album
	}

	query := "UPDATE photos SET title = ?, description = ?, album = ?, updated_at = NOW() WHERE id = ?"
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update photo statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, photo.Title, nullable(photo.Description), nullable(photo.Album), id); err != nil {
		return nil, fmt.Errorf("failed to execute update photo statement: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a photo record. Deleting an unknown or already-deleted id
// reports ErrNotFound, which keeps the operation idempotent for callers.
func (r *mysqlPhotoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to execute delete photo statement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for photo delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
