//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func mongoStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("CURNAV_MONGO_URI")
	if uri == "" {
		t.Skip("CURNAV_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Collection: "test_" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Collection().Drop(ctx)
		_ = s.Close()
	})
	return s
}

func TestMongoStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := mongoStore(t)

	if err := s.Save(ctx, Entry{Name: "bsc", Source: "module.csv", Modules: modules()}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	e, err := s.Load(ctx, "bsc")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(e.Modules) != 2 || e.Modules[1].HardPrereqs[0] != "A" {
		t.Errorf("Load() modules = %+v", e.Modules)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Modules != 2 || list[0].Source != "module.csv" {
		t.Errorf("List() = %+v", list)
	}

	if err := s.Delete(ctx, "bsc"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "bsc"); err == nil {
		t.Error("Load() after Delete succeeded")
	}
}
