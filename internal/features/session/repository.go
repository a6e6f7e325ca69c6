package session

import (
	"context"
	"errors"
	"time"

	"coin-admin/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepository persists console sessions across restarts.
type SessionRepository interface {
	Save(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteOtherVersions(ctx context.Context, version int) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(mongodb *database.MongodbDB) SessionRepository {
	return &MongoRepository{
		Collection: mongodb.DB.Collection("console_sessions"),
	}
}

func (r *MongoRepository) Save(ctx context.Context, rec *Record) error {
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Record, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) DeleteOtherVersions(ctx context.Context, version int) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"schema_version": bson.M{"$ne": version}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes lets Mongo expire sessions on its own as well.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	return err
}
