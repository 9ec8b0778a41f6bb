package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetRanges are the monthly-rent bands the inquiry form offers. The
// labels contain commas, so membership is checked in code rather than in a
// validate tag.
var BudgetRanges = []string{
	"Under $2,000",
	"$2,000 - $3,000",
	"$3,000 - $4,000",
	"$4,000 - $5,000",
	"$5,000 - $7,000",
	"Over $7,000",
}

// BedroomPreferences are the layout choices on the inquiry form.
var BedroomPreferences = []string{
	"Studio", "1 Bedroom", "2 Bedrooms", "3+ Bedrooms", "Flexible",
}

// ContactStatuses is the inquiry follow-up pipeline.
var ContactStatuses = []string{
	"new", "contacted", "scheduled", "completed", "declined",
}

// StatusNew is the state every fresh inquiry starts in.
const StatusNew = "new"

// Contact is a prospective tenant's inquiry.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	MoveInDate  time.Time          `bson:"moveInDate" json:"moveInDate"`
	BudgetRange string             `bson:"budgetRange" json:"budgetRange"`
	Bedrooms    string             `bson:"bedrooms" json:"bedrooms"`
	Message     string             `bson:"message" json:"message"`
	Status      string             `bson:"status" json:"status"`
	Source      string             `bson:"source" json:"source"`
	Notes       string             `bson:"notes" json:"notes"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContactInput is the public inquiry form body.
type ContactInput struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	MoveInDate  string `json:"moveInDate" validate:"required,date"`
	BudgetRange string `json:"budgetRange" validate:"required"`
	Bedrooms    string `json:"bedrooms" validate:"required"`
	Message     string `json:"message" validate:"nullable,max=1000"`
}

// Validate covers the enum memberships the tags cannot express.
func (in *ContactInput) Validate() []string {
	var errs []string
	if in.BudgetRange != "" && !oneOf(in.BudgetRange, BudgetRanges) {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `budgetRange`.", in.BudgetRange))
	}
	if in.Bedrooms != "" && !oneOf(in.Bedrooms, BedroomPreferences) {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `bedrooms`.", in.Bedrooms))
	}
	return errs
}

// ContactUpdate restricts admin edits to the follow-up fields.
type ContactUpdate struct {
	Status string `json:"status" validate:"nullable"`
	Notes  string `json:"notes" validate:"nullable"`
}

// Validate checks the status transition target is a known pipeline state.
func (in *ContactUpdate) Validate() []string {
	var errs []string
	if in.Status != "" && !oneOf(in.Status, ContactStatuses) {
		errs = append(errs, fmt.Sprintf("`%s` is not a valid enum value for path `status`.", in.Status))
	}
	return errs
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
