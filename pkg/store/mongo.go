package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase   = "curnav"
	DefaultMongoCollection = "datasets"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string        `koanf:"uri" yaml:"uri"`
	Database   string        `koanf:"database" yaml:"database,omitempty"`
	Collection string        `koanf:"collection" yaml:"collection,omitempty"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout,omitempty"`
}

func (c *MongoConfig) setDefaults() {
	if c.Database == "" {
		c.Database = DefaultMongoDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultMongoCollection
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultMongoTimeout
	}
}

// MongoStore stores one document per dataset, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: empty URI")
	}
	cfg.setDefaults()

	cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := NewMongoStoreFromCollection(client.Database(cfg.Database).Collection(cfg.Collection))
	s.client = client
	s.owned = true
	return s, nil
}

// NewMongoStoreFromCollection wraps an existing collection. Close does not
// disconnect the underlying client.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, client: coll.Database().Client()}
}

// mongoEntry adds the denormalized module count used by List.
type mongoEntry struct {
	Entry       `bson:",inline"`
	ModuleCount int `bson:"module_count"`
}

func (s *MongoStore) Save(ctx context.Context, e Entry) error {
	e, err := prepare(e)
	if err != nil {
		return err
	}
	doc := mongoEntry{Entry: e, ModuleCount: len(e.Modules)}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": e.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save dataset %q: %w", e.Name, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*Entry, error) {
	var doc mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	return &doc.Entry, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"modules": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	out := []Info{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	return nil
}

// Collection returns the underlying collection.
func (s *MongoStore) Collection() *mongo.Collection { return s.coll }

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
