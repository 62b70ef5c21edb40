package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const testMongoURI = "mongodb://localhost:27017"

func setupMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, MongoConfig{
		URI:            testMongoURI,
		Database:       "wikipatrol_test",
		Collection:     "watermarks",
		ConnectTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	_, err = store.coll.DeleteMany(ctx, bson.M{})
	require.NoError(t, err)
	return store
}

func TestMongoStore_RoundTrip(t *testing.T) {
	store := setupMongoStore(t)
	defer store.Close(context.Background())
	ctx := context.Background()

	_, err := store.Load(ctx, "en.wikipedia.org")
	assert.ErrorIs(t, err, ErrNotFound)

	mark := Watermark{ChangeID: 77, LogID: 5}
	require.NoError(t, store.Store(ctx, "en.wikipedia.org", mark))

	got, err := store.Load(ctx, "en.wikipedia.org")
	require.NoError(t, err)
	assert.Equal(t, mark, got)

	// Upsert replaces in place.
	require.NoError(t, store.Store(ctx, "en.wikipedia.org", Watermark{ChangeID: 80, LogID: 5}))
	got, err = store.Load(ctx, "en.wikipedia.org")
	require.NoError(t, err)
	assert.Equal(t, int64(80), got.ChangeID)
}
