package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultUnitImage is shown for units created without a photo.
const defaultUnitImage = "https://images.unsplash.com/photo-1560518883-ce09059eeffa?auto=format&fit=crop&w=1000&q=80"

// Unit is a rentable apartment listing.
type Unit struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UnitNumber  string             `bson:"unitNumber" json:"unitNumber"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Bedrooms    float64            `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   float64            `bson:"bathrooms" json:"bathrooms"`
	ImageURL    string             `bson:"imageURL" json:"imageURL"`
	Images      []string           `bson:"images" json:"images"`
	Available   bool               `bson:"available" json:"available"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// UnitInput is the create/update body for admin unit endpoints. Fields are
// pointers so zero values (a $0 price, a studio's 0 bedrooms) survive the
// required check, and so partial updates can tell "absent" from "zeroed".
type UnitInput struct {
	UnitNumber  *string  `json:"unitNumber" validate:"required,max=5"`
	Description *string  `json:"description" validate:"required,max=500"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Bedrooms    *float64 `json:"bedrooms" validate:"required,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" validate:"required,gte=0"`
	ImageURL    *string  `json:"imageURL" validate:"nullable"`
	Available   *bool    `json:"available" validate:"nullable,boolean"`
}

// UnitUpdate carries only the fields present in an update body; tags are
// looser because absent fields keep their stored values.
type UnitUpdate struct {
	UnitNumber  *string  `json:"unitNumber" validate:"nullable,max=5"`
	Description *string  `json:"description" validate:"nullable,max=500"`
	Price       *float64 `json:"price" validate:"nullable,gte=0"`
	Bedrooms    *float64 `json:"bedrooms" validate:"nullable,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" validate:"nullable,gte=0"`
	ImageURL    *string  `json:"imageURL" validate:"nullable"`
	Available   *bool    `json:"available" validate:"nullable,boolean"`
}

// NewUnit builds a Unit from a validated create input, applying defaults.
func NewUnit(in *UnitInput) *Unit {
	u := &Unit{
		UnitNumber:  *in.UnitNumber,
		Description: *in.Description,
		Price:       *in.Price,
		Bedrooms:    *in.Bedrooms,
		Bathrooms:   *in.Bathrooms,
		ImageURL:    defaultUnitImage,
		Images:      []string{},
		Available:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if in.ImageURL != nil && *in.ImageURL != "" {
		u.ImageURL = *in.ImageURL
	}
	if in.Available != nil {
		u.Available = *in.Available
	}
	return u
}

// Apply overlays the present fields of an update onto the unit.
func (u *Unit) Apply(in *UnitUpdate) {
	if in.UnitNumber != nil {
		u.UnitNumber = *in.UnitNumber
	}
	if in.Description != nil {
		u.Description = *in.Description
	}
	if in.Price != nil {
		u.Price = *in.Price
	}
	if in.Bedrooms != nil {
		u.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		u.Bathrooms = *in.Bathrooms
	}
	if in.ImageURL != nil {
		u.ImageURL = *in.ImageURL
	}
	if in.Available != nil {
		u.Available = *in.Available
	}
}
