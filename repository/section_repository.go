package repository

import (
	"context"
	"errors"
	"fmt"

	"photofolio/model"

	"gorm.io/gorm"
)

// SectionRepository is the site-section registry: a fixed catalog of
// placement slots whose current photo URL is the only mutable field.
type SectionRepository interface {
	// Seed inserts any catalog sections missing from the store. Existing
	// rows keep their current photo URL, so reseeding is safe.
	Seed(ctx context.Context) error

	// List returns the catalog, optionally filtered to sections whose page
	// path equals pathFilter. Every returned section has a usable photo URL.
	List(ctx context.Context, pathFilter string) ([]*model.SiteSection, error)

	Get(ctx context.Context, id string) (*model.SiteSection, error)

	// SetPhoto points a section at a new photo URL. The URL is treated as
	// opaque; the admin picks it from already-uploaded photos.
	SetPhoto(ctx context.Context, id, photoURL string) (*model.SiteSection, error)
}

// gormSectionRepository implements SectionRepository with GORM.
type gormSectionRepository struct {
	db *gorm.DB
}

// NewGormSectionRepository creates a GORM section repository.
func NewGormSectionRepository(db *gorm.DB) SectionRepository {
	return &gormSectionRepository{db: db}
}

// Seed backfills the fixed catalog. New sections start on their bundled
// default image.
func (r *gormSectionRepository) Seed(ctx context.Context) error {
	for _, section := range model.DefaultSections() {
		section.CurrentPhotoURL = section.DefaultPhotoURL
		err := r.db.WithContext(ctx).
			Where(model.SiteSection{ID: section.ID}).
			Attrs(section).
			FirstOrCreate(&model.SiteSection{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed section %s: %w", section.ID, err)
		}
	}
	return nil
}

// List returns sections, optionally filtered by page path.
func (r *gormSectionRepository) List(ctx context.Context, pathFilter string) ([]*model.SiteSection, error) {
	var sections []*model.SiteSection
	query := r.db.WithContext(ctx).Order("id")
	if pathFilter != "" {
		query = query.Where("path = ?", pathFilter)
	}
	if err := query.Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	for _, section := range sections {
		section.CurrentPhotoURL = section.EffectivePhotoURL()
	}
	return sections, nil
}

// Get returns one section by id.
func (r *gormSectionRepository) Get(ctx context.Context, id string) (*model.SiteSection, error) {
	var section model.SiteSection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get section %s: %w", id, err)
	}
	section.CurrentPhotoURL = section.EffectivePhotoURL()
	return &section, nil
}

// SetPhoto updates a section's current photo URL. Ids outside the catalog
// report ErrNotFound and mutate nothing.
func (r *gormSectionRepository) SetPhoto(ctx context.Context, id, photoURL string) (*model.SiteSection, error) {
	result := r.db.WithContext(ctx).Model(&model.SiteSection{}).
		Where("id = ?", id).
		Update("current_photo_url", photoURL)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update section %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}
