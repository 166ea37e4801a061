package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection holds the cache documents.
const DefaultMongoCollection = "artifacts"

// MongoOptions configures [NewMongoCache].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string // defaults to DefaultMongoCollection
}

// MongoCache stores one document per key:
//
//	{_id: <key>, data: <binary>, size: <int>, created_at: <date>, expires_at: <date>}
//
// A TTL index on expires_at lets the server purge expired documents; Get
// also checks expiry itself because the TTL monitor only runs once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	Size      int        `bson:"size"`
	CreatedAt time.Time  `bson:"created_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

func newMongoEntry(key string, data []byte, ttl time.Duration, now time.Time) mongoEntry {
	e := mongoEntry{Key: key, Data: data, Size: len(data), CreatedAt: now.UTC()}
	if ttl > 0 {
		exp := now.Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	return e
}

func (e mongoEntry) expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// NewMongoCache connects to MongoDB, verifies the connection and makes sure
// the TTL index exists.
func NewMongoCache(ctx context.Context, opts MongoOptions) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: mongo connect: %v", ErrUnavailable, err)
	}
	err = RetryWithBackoff(ctx, func() error {
		return Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo ping: %v", ErrUnavailable, err)
	}

	name := opts.Collection
	if name == "" {
		name = DefaultMongoCollection
	}
	c := &MongoCache{
		client: client,
		coll:   client.Database(opts.Database).Collection(name),
		now:    time.Now,
	}

	_, err = c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ttl index: %w", err)
	}
	return c, nil
}

func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	if e.expired(c.now()) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := newMongoEntry(key, data, ttl, c.now())
	_, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Clear deletes every document in the cache collection.
func (c *MongoCache) Clear(ctx context.Context) error {
	if _, err := c.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var (
	_ Cache   = (*MongoCache)(nil)
	_ Clearer = (*MongoCache)(nil)
)
