package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGalleryItemCategoryEnum(t *testing.T) {
	for _, category := range GalleryCategories {
		item := GalleryItem{Category: category}
		assert.Empty(t, item.Validate(), "category %q", category)
	}

	item := GalleryItem{Category: "parking-garage"}
	assert.Equal(t, []string{"`parking-garage` is not a valid enum value for path `category`."}, item.Validate())
}

func TestGalleryItemApply(t *testing.T) {
	item := GalleryItem{
		Title:     "Rooftop",
		Category:  "rooftop",
		IsActive:  true,
		SortOrder: 1,
	}

	title := "Rooftop at dusk"
	inactive := false
	order := 5
	item.Apply(&GalleryUpdate{Title: &title, IsActive: &inactive, SortOrder: &order})

	assert.Equal(t, "Rooftop at dusk", item.Title)
	assert.False(t, item.IsActive)
	assert.Equal(t, 5, item.SortOrder)
	// Absent fields stay put.
	assert.Equal(t, "rooftop", item.Category)
}
