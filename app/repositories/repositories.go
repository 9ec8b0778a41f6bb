// Package repositories defines the persistence interfaces the controllers
// depend on, plus their MongoDB implementations. Tests substitute in-memory
// fakes for the interfaces.
package repositories

import (
	"context"
	"errors"

	"github.com/themelissanyc/melissa/app/models"
)

// ErrNotFound covers both a missing document and a malformed ObjectID hex,
// since the API answers 404 to either.
var ErrNotFound = errors.New("repositories: not found")

// ErrIndexOutOfRange is returned when an image index does not exist on the
// unit's image list.
var ErrIndexOutOfRange = errors.New("repositories: image index out of range")

// Pagination is the envelope the contacts list returns alongside a page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByIdentifier resolves an account by email or username.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// FindByUsernameOrEmail returns an account matching either value, used
	// for uniqueness checks at registration.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

type UnitRepository interface {
	// Available lists units with available=true, newest first.
	Available(ctx context.Context) ([]models.Unit, error)
	// FindAvailableByID resolves a unit only if it is publicly visible.
	FindAvailableByID(ctx context.Context, id string) (*models.Unit, error)
	All(ctx context.Context) ([]models.Unit, error)
	FindByID(ctx context.Context, id string) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, id string) error
	// AppendImages adds urls to the end of the unit's image list, keeping
	// their order, and returns the updated unit.
	AppendImages(ctx context.Context, id string, urls []string) (*models.Unit, error)
	// RemoveImage deletes the image at index and returns the removed URL
	// and how many images remain.
	RemoveImage(ctx context.Context, id string, index int) (removed string, remaining int, err error)
}

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	// List returns a 1-indexed page of inquiries, newest first, optionally
	// filtered by status.
	List(ctx context.Context, status string, page, limit int) ([]models.Contact, Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
}

type GalleryRepository interface {
	// Active lists items with isActive=true, optionally filtered by
	// category, sorted sortOrder asc then createdAt desc.
	Active(ctx context.Context, category string) ([]models.GalleryItem, error)
	// List applies optional category and isActive filters with the same sort.
	List(ctx context.Context, category string, isActive *bool) ([]models.GalleryItem, error)
	Create(ctx context.Context, item *models.GalleryItem) error
	FindByID(ctx context.Context, id string) (*models.GalleryItem, error)
	Update(ctx context.Context, item *models.GalleryItem) error
	Delete(ctx context.Context, id string) error
}
