package application

import (
	"context"
	"time"
)

// Application is the portfolio record owning the image assets: a gallery list
// plus a single profile-image slot. ProfileImage is a pointer so that an
// explicitly cleared slot (null) stays distinguishable from one never set.
type Application struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasGalleryImage reports whether filename is listed in the gallery.
func (a *Application) HasGalleryImage(filename string) bool {
	for _, img := range a.Images {
		if img == filename {
			return true
		}
	}
	return false
}

// RemoveGalleryImage removes exactly one entry, preserving the order of the
// rest. Returns false if filename is not listed.
func (a *Application) RemoveGalleryImage(filename string) bool {
	for i, img := range a.Images {
		if img == filename {
			a.Images = append(a.Images[:i], a.Images[i+1:]...)
			return true
		}
	}
	return false
}

type Repository interface {
	FindByID(ctx context.Context, id int64) (*Application, error)
	FindByUserID(ctx context.Context, userID int64) (*Application, error)
	Save(ctx context.Context, app *Application) error
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id int64) error
}
