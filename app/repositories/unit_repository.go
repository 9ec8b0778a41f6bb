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
	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/cache"
)

// availableUnitsKey caches the public unit listing.
const availableUnitsKey = "units:available"

// MongoUnitRepository stores listings in the "units" collection. The public
// Available listing is read through Redis; every mutation drops the cached
// entry.
type MongoUnitRepository struct {
	col *mongo.Collection
}

func NewMongoUnitRepository(db *mongo.Database) *MongoUnitRepository {
	return &MongoUnitRepository{col: db.Collection("units")}
}

func cacheTTL() time.Duration {
	return time.Duration(config.CacheTTLSeconds()) * time.Second
}

func (r *MongoUnitRepository) Available(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if cache.Get(availableUnitsKey, &units) {
		return units, nil
	}

	units, err := r.find(ctx, bson.M{"available": true})
	if err != nil {
		return nil, err
	}

	_ = cache.Set(availableUnitsKey, units, cacheTTL())
	return units, nil
}

func (r *MongoUnitRepository) All(ctx context.Context) ([]models.Unit, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoUnitRepository) find(ctx context.Context, filter bson.M) ([]models.Unit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("units: find: %w", err)
	}

	units := []models.Unit{}
	if err := cur.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("units: decode: %w", err)
	}
	return units, nil
}

func (r *MongoUnitRepository) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUnitRepository) FindAvailableByID(ctx context.Context, id string) (*models.Unit, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "available": true})
}

func (r *MongoUnitRepository) findOne(ctx context.Context, filter bson.M) (*models.Unit, error) {
	var unit models.Unit
	err := r.col.FindOne(ctx, filter).Decode(&unit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("units: find one: %w", err)
	}
	return &unit, nil
}

func (r *MongoUnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = time.Now().UTC()
	}
	if unit.Images == nil {
		unit.Images = []string{}
	}

	res, err := r.col.InsertOne(ctx, unit)
	if err != nil {
		return fmt.Errorf("units: insert: %w", err)
	}
	unit.ID = res.InsertedID.(primitive.ObjectID)

	cache.Forget(availableUnitsKey)
	return nil
}

func (r *MongoUnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": unit.ID}, unit)
	if err != nil {
		return fmt.Errorf("units: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	cache.Forget(availableUnitsKey)
	return nil
}

func (r *MongoUnitRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("units: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	cache.Forget(availableUnitsKey)
	return nil
}

func (r *MongoUnitRepository) AppendImages(ctx context.Context, id string, urls []string) (*models.Unit, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	// $push/$each keeps the supplied order and appends atomically.
	update := bson.M{"$push": bson.M{"images": bson.M{"$each": urls}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var unit models.Unit
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&unit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("units: append images: %w", err)
	}

	cache.Forget(availableUnitsKey)
	return &unit, nil
}

func (r *MongoUnitRepository) RemoveImage(ctx context.Context, id string, index int) (string, int, error) {
	unit, err := r.FindByID(ctx, id)
	if err != nil {
		return "", 0, err
	}

	if index < 0 || index >= len(unit.Images) {
		return "", 0, ErrIndexOutOfRange
	}

	removed := unit.Images[index]
	unit.Images = append(unit.Images[:index], unit.Images[index+1:]...)

	update := bson.M{"$set": bson.M{"images": unit.Images}}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": unit.ID}, update); err != nil {
		return "", 0, fmt.Errorf("units: remove image: %w", err)
	}

	cache.Forget(availableUnitsKey)
	return removed, len(unit.Images), nil
}
