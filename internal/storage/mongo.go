package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists watermarks in a MongoDB collection, one document per
// wiki host with the host as its _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ WatermarkStore = (*MongoStore)(nil)

type watermarkDoc struct {
	Wiki      string `bson:"_id"`
	ChangeID  int64  `bson:"change_id"`
	LogID     int64  `bson:"log_id"`
	UpdatedAt int64  `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, wiki string) (Watermark, error) {
	var doc watermarkDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": wiki}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Watermark{}, ErrNotFound
		}
		return Watermark{}, fmt.Errorf("loading watermark for %s: %w", wiki, err)
	}
	return Watermark{ChangeID: doc.ChangeID, LogID: doc.LogID}, nil
}

func (s *MongoStore) Store(ctx context.Context, wiki string, mark Watermark) error {
	doc := watermarkDoc{
		Wiki:      wiki,
		ChangeID:  mark.ChangeID,
		LogID:     mark.LogID,
		UpdatedAt: time.Now().UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": wiki}, doc, opts); err != nil {
		return fmt.Errorf("storing watermark for %s: %w", wiki, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
