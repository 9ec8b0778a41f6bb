package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryCategories are the site sections a gallery image can appear in.
var GalleryCategories = []string{
	"building-exterior", "lobby", "amenities", "rooftop", "apartments", "neighborhood",
}

// DefaultGalleryCategory is used when an upload names no category.
const DefaultGalleryCategory = "building-exterior"

// GalleryItem is one image on the marketing gallery.
type GalleryItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Category    string             `bson:"category" json:"category"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate covers the category enum; the title/description length caps are
// enforced on the inputs.
func (g *GalleryItem) Validate() []string {
	var errs []string
	if !oneOf(g.Category, GalleryCategories) {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `category`.", g.Category))
	}
	return errs
}

// GalleryUploadInput is the metadata alongside a gallery image upload.
// It arrives as multipart form fields, so everything is a string.
type GalleryUploadInput struct {
	Title       string `json:"title" validate:"nullable,max=100"`
	Description string `json:"description" validate:"nullable,max=500"`
	Category    string `json:"category" validate:"nullable"`
	SortOrder   string `json:"sortOrder" validate:"nullable,integer"`
}

// GalleryUpdate is the admin edit body for a gallery item.
type GalleryUpdate struct {
	Title       *string `json:"title" validate:"nullable,max=100"`
	Description *string `json:"description" validate:"nullable,max=500"`
	Category    *string `json:"category" validate:"nullable"`
	IsActive    *bool   `json:"isActive" validate:"nullable,boolean"`
	SortOrder   *int    `json:"sortOrder" validate:"nullable,integer"`
}

// Apply overlays the present fields of an update onto the item.
func (g *GalleryItem) Apply(in *GalleryUpdate) {
	if in.Title != nil {
		g.Title = *in.Title
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		g.SortOrder = *in.SortOrder
	}
}
