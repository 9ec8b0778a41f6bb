package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/themelissanyc/melissa/app/models"
)

func init() {
	Register("units", SeedUnits)
	Register("gallery", SeedGallery)
}

// SeedUnits inserts the building's four launch listings. Skips collections
// that already hold units so reruns never duplicate.
func SeedUnits(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("units")

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	units := []interface{}{
		models.Unit{
			UnitNumber:  "3A",
			Description: "Sun-drenched studio with oversized windows and an open kitchen.",
			Price:       3500,
			Bedrooms:    0,
			Bathrooms:   1,
			ImageURL:    "https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?auto=format&fit=crop&w=800&q=80",
			Images:      []string{},
			Available:   true,
			CreatedAt:   now,
		},
		models.Unit{
			UnitNumber:  "2A",
			Description: "Corner two-bedroom with one and a half baths and city views.",
			Price:       4500,
			Bedrooms:    2,
			Bathrooms:   1.5,
			ImageURL:    "https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?auto=format&fit=crop&w=800&q=80",
			Images:      []string{},
			Available:   true,
			CreatedAt:   now,
		},
		models.Unit{
			UnitNumber:  "5A",
			Description: "Top-floor one-bedroom with a chef's kitchen and in-unit laundry.",
			Price:       6600,
			Bedrooms:    1,
			Bathrooms:   1,
			ImageURL:    "https://images.unsplash.com/photo-1512917774080-9991f1c4c750?auto=format&fit=crop&w=800&q=80",
			Images:      []string{},
			Available:   true,
			CreatedAt:   now,
		},
		models.Unit{
			UnitNumber:  "4B",
			Description: "Spacious two-bedroom, two-bath residence with private balcony.",
			Price:       6500,
			Bedrooms:    2,
			Bathrooms:   2,
			ImageURL:    "https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?auto=format&fit=crop&w=800&q=80",
			Images:      []string{},
			Available:   false,
			CreatedAt:   now,
		},
	}

	_, err = col.InsertMany(ctx, units)
	return err
}

// SeedGallery inserts a starter image per site section.
func SeedGallery(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("gallery")

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	items := []interface{}{
		models.GalleryItem{
			Title:     "The Melissa facade",
			ImageURL:  "https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?auto=format&fit=crop&w=800&q=80",
			Category:  "building-exterior",
			IsActive:  true,
			SortOrder: 0,
			CreatedAt: now,
			UpdatedAt: now,
		},
		models.GalleryItem{
			Title:     "Attended lobby",
			ImageURL:  "https://images.unsplash.com/photo-1564078516393-cf04bd966897?auto=format&fit=crop&w=800&q=80",
			Category:  "lobby",
			IsActive:  true,
			SortOrder: 1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		models.GalleryItem{
			Title:     "Rooftop terrace",
			ImageURL:  "https://images.unsplash.com/photo-1519643381401-22c77e60520e?auto=format&fit=crop&w=800&q=80",
			Category:  "rooftop",
			IsActive:  true,
			SortOrder: 2,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	_, err = col.InsertMany(ctx, items)
	return err
}
