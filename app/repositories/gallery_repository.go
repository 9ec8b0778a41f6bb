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
	"github.com/themelissanyc/melissa/pkg/cache"
)

// activeGalleryKey caches the public gallery listing per category ("all"
// when no filter applies).
func activeGalleryKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "gallery:active:" + category
}

// MongoGalleryRepository stores images in the "gallery" collection. The
// public Active listing is read through Redis; mutations drop every cached
// category.
type MongoGalleryRepository struct {
	col *mongo.Collection
}

func NewMongoGalleryRepository(db *mongo.Database) *MongoGalleryRepository {
	return &MongoGalleryRepository{col: db.Collection("gallery")}
}

// gallerySort orders items for display: sortOrder ascending, then newest first.
func gallerySort() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "sortOrder", Value: 1},
		{Key: "createdAt", Value: -1},
	})
}

func (r *MongoGalleryRepository) Active(ctx context.Context, category string) ([]models.GalleryItem, error) {
	key := activeGalleryKey(category)

	var items []models.GalleryItem
	if cache.Get(key, &items) {
		return items, nil
	}

	filter := bson.M{"isActive": true}
	if category != "" {
		filter["category"] = category
	}

	items, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(key, items, cacheTTL())
	return items, nil
}

func (r *MongoGalleryRepository) List(ctx context.Context, category string, isActive *bool) ([]models.GalleryItem, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if isActive != nil {
		filter["isActive"] = *isActive
	}
	return r.find(ctx, filter)
}

func (r *MongoGalleryRepository) find(ctx context.Context, filter bson.M) ([]models.GalleryItem, error) {
	cur, err := r.col.Find(ctx, filter, gallerySort())
	if err != nil {
		return nil, fmt.Errorf("gallery: find: %w", err)
	}

	items := []models.GalleryItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("gallery: decode: %w", err)
	}
	return items, nil
}

func (r *MongoGalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("gallery: insert: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)

	cache.Forget("gallery:active:*")
	return nil
}

func (r *MongoGalleryRepository) FindByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var item models.GalleryItem
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gallery: find by id: %w", err)
	}
	return &item, nil
}

func (r *MongoGalleryRepository) Update(ctx context.Context, item *models.GalleryItem) error {
	item.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("gallery: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	cache.Forget("gallery:active:*")
	return nil
}

func (r *MongoGalleryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("gallery: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	cache.Forget("gallery:active:*")
	return nil
}
