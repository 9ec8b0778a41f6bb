package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/themelissanyc/melissa/app/models"
)

// MongoContactRepository stores inquiries in the "contacts" collection.
type MongoContactRepository struct {
	col *mongo.Collection
}

func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{col: db.Collection("contacts")}
}

func (r *MongoContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, contact)
	if err != nil {
		return fmt.Errorf("contacts: insert: %w", err)
	}
	contact.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoContactRepository) List(ctx context.Context, status string, page, limit int) ([]models.Contact, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("contacts: count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("contacts: find: %w", err)
	}

	contacts := []models.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, Pagination{}, fmt.Errorf("contacts: decode: %w", err)
	}

	pagination := Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
	return contacts, pagination, nil
}

func (r *MongoContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var contact models.Contact
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contacts: find by id: %w", err)
	}
	return &contact, nil
}

func (r *MongoContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": contact.ID}, contact)
	if err != nil {
		return fmt.Errorf("contacts: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoContactRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("contacts: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
