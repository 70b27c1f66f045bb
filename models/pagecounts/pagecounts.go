package pagecounts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/supakorn-kn/go-sketchpatch/cache"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "page_counts"

// Store is where counters survive cache evictions.
type Store interface {
	Get(ctx context.Context, name string) (int64, error)
	// Add increments the counter, creating it when missing, and returns the new value.
	Add(ctx context.Context, name string, delta int64) (int64, error)
	// Set raises the counter to value. A stored value that is already higher is kept.
	Set(ctx context.Context, name string, value int64) error
}

type PageCountsModel struct {
	models.BaseModel[objects.PageCountShard]
}

func NewPageCountsModel(ctx context.Context, conn *mongodb.MongoDBConn) (*PageCountsModel, error) {

	coll, err := models.EnsureCollection(ctx, conn.GetDatabase(), collectionName, nil)
	if err != nil {
		return nil, err
	}

	var model = new(PageCountsModel)
	if err := model.Inject(coll, 10, "_id"); err != nil {
		return nil, err
	}

	return model, nil
}

func (PageCountsModel) GetCollectionName() string {
	return collectionName
}

func (m PageCountsModel) Get(ctx context.Context, name string) (int64, error) {

	shard, err := m.FindOne(ctx, bson.D{{Key: "_id", Value: name}})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}

	return shard.Count, err
}

func (m PageCountsModel) Add(ctx context.Context, name string, delta int64) (int64, error) {

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "count", Value: delta}}}}

	var shard objects.PageCountShard
	if err := m.Coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: name}}, update, opts).Decode(&shard); err != nil {
		return 0, err
	}

	return shard.Count, nil
}

func (m PageCountsModel) Set(ctx context.Context, name string, value int64) error {

	update := bson.D{{Key: "$max", Value: bson.D{{Key: "count", Value: value}}}}
	_, err := m.Coll.UpdateByID(ctx, name, update, options.Update().SetUpsert(true))
	return err
}

// Counter counts page views in the cache and writes them back to the store every
// writebackEvery increments. A cold counter is loaded from the store.
type Counter struct {
	store          Store
	cache          cache.Cache
	ttl            time.Duration
	writebackEvery int64
}

type CounterOption func(*Counter)

// WithWriteback sets how many increments may stay in the cache only.
func WithWriteback(every int64) CounterOption {
	return func(c *Counter) {
		if every > 0 {
			c.writebackEvery = every
		}
	}
}

func NewCounter(store Store, c cache.Cache, ttl time.Duration, opts ...CounterOption) *Counter {

	counter := &Counter{store: store, cache: c, ttl: ttl, writebackEvery: 1}
	for _, opt := range opts {
		opt(counter)
	}

	return counter
}

// Get returns the number of views of page.
func (c *Counter) Get(ctx context.Context, page string) (int64, error) {

	key := cache.PageCountKey(page)

	var count int64
	found, err := c.cache.GetJSON(ctx, key, &count)
	if err != nil {
		slog.Warn("Reading page count from cache failed", slog.String("page", page), slog.Any("error", err))
	}

	if found {
		return count, nil
	}

	count, err = c.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	if err := c.cache.SetInt(ctx, key, count, c.ttl); err != nil {
		slog.Warn("Caching page count failed", slog.String("page", page), slog.Any("error", err))
	}

	return count, nil
}

// Incr counts one more view of page and returns the new total.
func (c *Counter) Incr(ctx context.Context, page string) (int64, error) {

	key := cache.PageCountKey(page)

	count, cached, err := c.cache.Incr(ctx, key, 1)
	if err != nil {
		slog.Warn("Incrementing cached page count failed", slog.String("page", page), slog.Any("error", err))
		cached = false
	}

	if !cached {

		count, err = c.store.Add(ctx, key, 1)
		if err != nil {
			return 0, err
		}

		if err := c.cache.SetInt(ctx, key, count, c.ttl); err != nil {
			slog.Warn("Caching page count failed", slog.String("page", page), slog.Any("error", err))
		}

		return count, nil
	}

	if count%c.writebackEvery == 0 {

		if err := c.store.Set(ctx, key, count); err != nil {
			return 0, err
		}
	}

	return count, nil
}
