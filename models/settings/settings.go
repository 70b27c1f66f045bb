package settings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/supakorn-kn/go-sketchpatch/cache"
	"github.com/supakorn-kn/go-sketchpatch/env"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName = "settings"
	documentID     = "blog"
)

// Store persists the blog settings. Load reports false when nothing was saved yet.
type Store interface {
	Load(ctx context.Context) (env.BlogSettings, bool, error)
	Save(ctx context.Context, settings env.BlogSettings) error
}

// SettingsModel keeps the blog settings in a single document.
type SettingsModel struct {
	Coll *mongo.Collection
}

func NewSettingsModel(ctx context.Context, conn *mongodb.MongoDBConn) (*SettingsModel, error) {

	coll, err := models.EnsureCollection(ctx, conn.GetDatabase(), collectionName, nil)
	if err != nil {
		return nil, err
	}

	return &SettingsModel{Coll: coll}, nil
}

func (SettingsModel) GetCollectionName() string {
	return collectionName
}

func (m SettingsModel) Load(ctx context.Context) (env.BlogSettings, bool, error) {

	var settings env.BlogSettings

	err := m.Coll.FindOne(ctx, bson.D{{Key: "_id", Value: documentID}}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return env.DefaultBlogSettings(), false, nil
	}

	if err != nil {
		return env.BlogSettings{}, false, err
	}

	return settings, true, nil
}

func (m SettingsModel) Save(ctx context.Context, settings env.BlogSettings) error {

	_, err := m.Coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: documentID}}, settings, options.Replace().SetUpsert(true))
	return err
}

// SettingsService reads the settings through the cache and keeps it fresh on change.
type SettingsService struct {
	store Store
	cache cache.Cache
	ttl   time.Duration
}

func NewSettingsService(store Store, c cache.Cache, ttl time.Duration) *SettingsService {
	return &SettingsService{store: store, cache: c, ttl: ttl}
}

// Get returns the cached settings, loading them on a miss. Defaults are returned until an
// administrator saves settings.
func (s *SettingsService) Get(ctx context.Context) (env.BlogSettings, error) {

	var settings env.BlogSettings

	found, err := s.cache.GetJSON(ctx, cache.SettingsKey(), &settings)
	if err != nil {
		slog.Warn("Reading settings from cache failed", slog.Any("error", err))
	}

	if found {
		return settings, nil
	}

	settings, _, err = s.store.Load(ctx)
	if err != nil {
		return env.BlogSettings{}, err
	}

	if err := s.cache.SetJSON(ctx, cache.SettingsKey(), settings, s.ttl); err != nil {
		slog.Warn("Caching settings failed", slog.Any("error", err))
	}

	return settings, nil
}

// Apply changes the named options and saves the result. Nothing is saved when any option is
// unknown or invalid.
func (s *SettingsService) Apply(ctx context.Context, values map[string]string) (env.BlogSettings, error) {

	settings, err := s.Get(ctx)
	if err != nil {
		return env.BlogSettings{}, err
	}

	if err := settings.ApplyOptions(values); err != nil {
		return env.BlogSettings{}, err
	}

	if err := s.store.Save(ctx, settings); err != nil {
		return env.BlogSettings{}, err
	}

	if err := s.cache.Delete(ctx, cache.SettingsKey()); err != nil {
		slog.Warn("Invalidating cached settings failed", slog.Any("error", err))
	}

	return settings, nil
}
