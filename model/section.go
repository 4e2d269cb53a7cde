package model

import "time"

// SiteSection is a named placement slot on one of the public pages. The
// catalog is fixed: sections are seeded at startup and only their current
// photo URL ever changes.
type SiteSection struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	Name            string    `json:"name" gorm:"size:255;not null"`
	Description     string    `json:"description" gorm:"size:512"`
	CurrentPhotoURL string    `json:"currentPhotoUrl" gorm:"size:767"`
	DefaultPhotoURL string    `json:"-" gorm:"size:767;not null"`
	Path            string    `json:"path" gorm:"size:128;index;not null"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName keeps the table name singular-free and explicit.
func (SiteSection) TableName() string {
	return "site_sections"
}

// EffectivePhotoURL returns the current photo URL, falling back to the
// section's bundled default so reads always get a usable address.
func (s *SiteSection) EffectivePhotoURL() string {
	if s.CurrentPhotoURL != "" {
		return s.CurrentPhotoURL
	}
	return s.DefaultPhotoURL
}

// DefaultSections is the fixed placement catalog. Section ids are stable
// keys the public pages look up at render time.
func DefaultSections() []SiteSection {
	return []SiteSection{
		{
			ID:              "couples",
			Name:            "Couples & Engagements",
			Description:     "Photo for the Couples & Engagements service",
			DefaultPhotoURL: "/images/service-couples.jpg",
			Path:            "/services",
		},
		{
			ID:              "weddings",
			Name:            "Weddings & Elopements",
			Description:     "Photo for the Weddings & Elopements service",
			DefaultPhotoURL: "/images/service-weddings.jpg",
			Path:            "/services",
		},
		{
			ID:              "maternity",
			Name:            "Maternity & Baby Showers",
			Description:     "Photo for the Maternity & Baby Showers service",
			DefaultPhotoURL: "/images/service-maternity.jpg",
			Path:            "/services",
		},
		{
			ID:              "events",
			Name:            "Birthday Parties & Special Events",
			Description:     "Photo for the Birthday Parties & Special Events service",
			DefaultPhotoURL: "/images/service-events.jpg",
			Path:            "/services",
		},
		{
			ID:              "graduations",
			Name:            "Graduations",
			Description:     "Photo for the Graduations service",
			DefaultPhotoURL: "/images/service-graduations.jpg",
			Path:            "/services",
		},
		{
			ID:              "family",
			Name:            "Family & Group Portraits",
			Description:     "Photo for the Family & Group Portraits service",
			DefaultPhotoURL: "/images/service-family.jpg",
			Path:            "/services",
		},
		{
			ID:              "featured1",
			Name:            "Featured Work 1",
			Description:     "First featured work on homepage",
			DefaultPhotoURL: "/images/featured-1.jpg",
			Path:            "/",
		},
		{
			ID:              "featured2",
			Name:            "Featured Work 2",
			Description:     "Second featured work on homepage",
			DefaultPhotoURL: "/images/featured-2.jpg",
			Path:            "/",
		},
		{
			ID:              "featured3",
			Name:            "Featured Work 3",
			Description:     "Third featured work on homepage",
			DefaultPhotoURL: "/images/featured-3.jpg",
			Path:            "/",
		},
		{
			ID:              "collection-nature",
			Name:            "Nature Collection",
			Description:     "Nature collection image on homepage",
			DefaultPhotoURL: "/images/collection-nature.jpg",
			Path:            "/",
		},
		{
			ID:              "collection-portrait",
			Name:            "Portrait Collection",
			Description:     "Portrait collection image on homepage",
			DefaultPhotoURL: "/images/collection-portrait.jpg",
			Path:            "/",
		},
	}
}
