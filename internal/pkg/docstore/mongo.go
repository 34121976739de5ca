package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	Path      string    `bson:"_id"`
	JSON      string    `bson:"json"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps each document as one record whose _id is the path.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) load(ctx context.Context, path string) (*mongoDocument, error) {
	var doc mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("mongo find %q: %w", path, err)
	}
	return &doc, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, path string, dst interface{}) error {
	doc, err := s.load(ctx, path)
	if err != nil {
		return err
	}
	return decode([]byte(doc.JSON), dst)
}

// Set implements Store.
func (s *MongoStore) Set(ctx context.Context, path string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": path},
		bson.M{
			"$set": bson.M{"json": string(data), "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set %q: %w", path, err)
	}
	return nil
}

// Update implements Store with a version check on each write.
func (s *MongoStore) Update(ctx context.Context, path string, patch map[string]interface{}) error {
	for i := 0; i < maxOptimisticRetries; i++ {
		doc, err := s.load(ctx, path)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		var current []byte
		if doc != nil {
			current = []byte(doc.JSON)
		}
		merged, err := mergePatch(current, patch)
		if err != nil {
			return err
		}

		if doc == nil {
			_, err = s.collection.InsertOne(ctx, mongoDocument{
				Path:      path,
				JSON:      string(merged),
				Version:   1,
				UpdatedAt: time.Now().UTC(),
			})
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("mongo insert %q: %w", path, err)
			}
			return nil
		}

		res, err := s.collection.UpdateOne(ctx,
			bson.M{"_id": path, "version": doc.Version},
			bson.M{
				"$set": bson.M{"json": string(merged), "updated_at": time.Now().UTC()},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return fmt.Errorf("mongo update %q: %w", path, err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return fmt.Errorf("mongo update %q: too many concurrent writers", path)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
