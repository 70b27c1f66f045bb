package sketches

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"time"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	sketchesCollection = "sketches"
	galleryCollection  = "gallery_sketches"
	authorCollection   = "author_sketches"
	mineCollection     = "my_sketches"
	deletedCollection  = "deleted_sketches"

	randomIDIndex = "random_id_1"
	keyField      = "_id"

	// insertAttempts bounds retries on a random id collision.
	insertAttempts = 3
)

var schema = bson.M{
	"bsonType": "object",
	"required": []string{"random_id", "source_code", "published"},
	"properties": bson.M{
		"random_id": bson.M{
			"bsonType":    "string",
			"minLength":   11,
			"maxLength":   11,
			"description": "Random ID must be an 11 characters string",
		},
		"source_code": bson.M{
			"bsonType":    "string",
			"minLength":   1,
			"description": "Source code must not be empty",
		},
		"published": bson.M{
			"bsonType": "bool",
		},
	},
}

// CommentsCleaner removes the comments of a deleted sketch.
type CommentsCleaner interface {
	DeleteForSketch(ctx context.Context, sketchRandomID string) (int64, error)
}

// SketchesModel keeps the canonical sketch records and the three listings built from them:
// the gallery (published, newest first), the author pages (published, per owner) and the
// owner's own list (everything, per owner).
type SketchesModel struct {
	models.BaseModel[objects.Sketch]

	gallery models.BaseModel[objects.SketchSummary]
	author  models.BaseModel[objects.SketchSummary]
	mine    models.BaseModel[objects.SketchSummary]
	deleted models.BaseModel[objects.DeletedSketch]

	comments CommentsCleaner
	now      func() time.Time
}

func NewSketchesModel(ctx context.Context, conn *mongodb.MongoDBConn, comments CommentsCleaner) (*SketchesModel, error) {

	db := conn.GetDatabase()

	coll, err := models.EnsureCollection(ctx, db, sketchesCollection, schema)
	if err != nil {
		return nil, err
	}

	err = models.EnsureIndexes(ctx, coll,
		models.IndexSpec{Name: randomIDIndex, Keys: bson.D{{Key: "random_id", Value: 1}}, Unique: true},
	)
	if err != nil {
		return nil, err
	}

	var model = &SketchesModel{comments: comments, now: time.Now}
	if err := model.Inject(coll, 30, keyField); err != nil {
		return nil, err
	}

	listings := []struct {
		name   string
		target *models.BaseModel[objects.SketchSummary]
	}{
		{galleryCollection, &model.gallery},
		{authorCollection, &model.author},
		{mineCollection, &model.mine},
	}

	for _, listing := range listings {

		listingColl, err := models.EnsureCollection(ctx, db, listing.name, nil)
		if err != nil {
			return nil, err
		}

		if err := listing.target.Inject(listingColl, 30, keyField); err != nil {
			return nil, err
		}
	}

	deletedColl, err := models.EnsureCollection(ctx, db, deletedCollection, nil)
	if err != nil {
		return nil, err
	}

	if err := model.deleted.Inject(deletedColl, 30, keyField); err != nil {
		return nil, err
	}

	return model, nil
}

func (SketchesModel) GetCollectionName() string {
	return sketchesCollection
}

// Create stores a new sketch of user.
func (m SketchesModel) Create(ctx context.Context, input SketchInput, user identity.User) (objects.Sketch, error) {
	return m.create(ctx, input, user, nil)
}

// Copy stores a new sketch of user that descends from the sketch parentRandomID.
func (m SketchesModel) Copy(ctx context.Context, parentRandomID string, input SketchInput, user identity.User) (objects.Sketch, error) {

	parent, err := m.GetByRandomID(ctx, parentRandomID)
	if err != nil {
		return objects.Sketch{}, err
	}

	return m.create(ctx, input, user, &parent)
}

func (m SketchesModel) create(ctx context.Context, input SketchInput, user identity.User, parent *objects.Sketch) (sketch objects.Sketch, err error) {

	for attempt := 1; attempt <= insertAttempts; attempt++ {

		sketch, err = NewSketch(input, user, m.now())
		if err != nil {
			return objects.Sketch{}, err
		}

		if parent != nil {
			fork(&sketch, *parent)
		}

		err = m.BaseModel.Insert(ctx, sketch)
		if !serverError.IsError(err, serverError.DuplicatedObjectIDError) {
			break
		}

		slog.Warn("Sketch id collision, retrying", slog.String("random_id", sketch.RandomID), slog.Int("attempt", attempt))
	}

	if err != nil {
		return objects.Sketch{}, err
	}

	if err := m.writeListings(ctx, sketch); err != nil {
		return objects.Sketch{}, err
	}

	return sketch, nil
}

// GetByRandomID returns the sketch with the public id randomID.
func (m SketchesModel) GetByRandomID(ctx context.Context, randomID string) (objects.Sketch, error) {

	if !keys.ValidRandomID(randomID) {
		return objects.Sketch{}, serverError.ObjectIDNotFoundError.New(randomID)
	}

	sketch, err := m.FindOne(ctx, bson.D{{Key: "random_id", Value: randomID}})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return objects.Sketch{}, serverError.ObjectIDNotFoundError.New(randomID)
	}

	return sketch, err
}

func authorize(user identity.User, sketch objects.Sketch) error {

	if user.Admin || user.Owns(sketch.AuthorUserID) {
		return nil
	}

	return serverError.PermissionDeniedError.New(sketch.RandomID)
}

// Update replaces the editable fields of a sketch. Only its author or an admin may do it.
func (m SketchesModel) Update(ctx context.Context, randomID string, input SketchInput, user identity.User) (objects.Sketch, error) {

	sketch, err := m.GetByRandomID(ctx, randomID)
	if err != nil {
		return objects.Sketch{}, err
	}

	if err := authorize(user, sketch); err != nil {
		return objects.Sketch{}, err
	}

	if err := applyInput(&sketch, input); err != nil {
		return objects.Sketch{}, err
	}
	sketch.Updated = m.now().UTC().Truncate(time.Millisecond)

	if err := m.Upsert(ctx, sketch); err != nil {
		return objects.Sketch{}, err
	}

	if err := m.writeListings(ctx, sketch); err != nil {
		return objects.Sketch{}, err
	}

	return sketch, nil
}

// Delete removes a sketch with its listing rows and comments and leaves a tombstone behind.
// Only its author or an admin may do it.
func (m SketchesModel) Delete(ctx context.Context, randomID string, user identity.User) error {

	sketch, err := m.GetByRandomID(ctx, randomID)
	if err != nil {
		return err
	}

	if err := authorize(user, sketch); err != nil {
		return err
	}

	ownerKey, owner, err := ownerKeyOf(sketch)
	if err != nil {
		return err
	}

	for _, listing := range []struct {
		model models.BaseModel[objects.SketchSummary]
		key   string
	}{
		{m.gallery, sketch.Key},
		{m.author, ownerKey},
		{m.mine, ownerKey},
	} {

		if err := deleteIfExists(ctx, listing.model, listing.key); err != nil {
			return err
		}
	}

	if err := m.BaseModel.Delete(ctx, sketch.Key); err != nil {
		return err
	}

	tombstone := objects.DeletedSketch{
		RandomID:  sketch.RandomID,
		SketchKey: sketch.Key,
		OwnerID:   owner.String(),
		Deleted:   m.now().UTC().Truncate(time.Millisecond),
	}
	if err := m.deleted.Upsert(ctx, tombstone); err != nil {
		return err
	}

	if m.comments != nil {

		removed, err := m.comments.DeleteForSketch(ctx, sketch.RandomID)
		if err != nil {
			return err
		}

		slog.Debug("Removed comments of deleted sketch", slog.String("random_id", sketch.RandomID), slog.Int64("comments", removed))
	}

	return nil
}

// Deleted returns the tombstone of a removed sketch.
func (m SketchesModel) Deleted(ctx context.Context, randomID string) (objects.DeletedSketch, error) {
	return m.deleted.GetByID(ctx, randomID)
}

// Gallery pages through the published sketches, newest first.
func (m SketchesModel) Gallery(ctx context.Context, bookmark string, size int) (paging.CursorPage[objects.SketchSummary], error) {
	return paging.FetchPage[objects.SketchSummary](ctx, m.gallery, keys.GalleryRange(), bookmark, size)
}

// ByOwner pages through the sketches of owner, newest first. Unpublished sketches are only
// listed when includeUnpublished is set.
func (m SketchesModel) ByOwner(ctx context.Context, owner *big.Int, includeUnpublished bool, bookmark string, size int) (paging.CursorPage[objects.SketchSummary], error) {

	scope, err := keys.BoundsForOwner(owner, keys.IDWidth)
	if err != nil {
		return paging.CursorPage[objects.SketchSummary]{}, err
	}

	src := m.author
	if includeUnpublished {
		src = m.mine
	}

	return paging.FetchPage[objects.SketchSummary](ctx, src, scope, bookmark, size)
}

func ownerKeyOf(sketch objects.Sketch) (string, *big.Int, error) {

	owner, err := keys.ParseOwnerID(sketch.AuthorUserID)
	if err != nil {
		return "", nil, err
	}

	key, err := keys.OwnedKey(owner, sketch.Key)
	if err != nil {
		return "", nil, err
	}

	return key, owner, nil
}

// writeListings brings the listing rows of sketch in line with its published flag.
func (m SketchesModel) writeListings(ctx context.Context, sketch objects.Sketch) error {

	ownerKey, _, err := ownerKeyOf(sketch)
	if err != nil {
		return err
	}

	if err := m.mine.Upsert(ctx, sketch.Summary(ownerKey)); err != nil {
		return err
	}

	if !sketch.Published {

		if err := deleteIfExists(ctx, m.gallery, sketch.Key); err != nil {
			return err
		}

		return deleteIfExists(ctx, m.author, ownerKey)
	}

	if err := m.gallery.Upsert(ctx, sketch.Summary(sketch.Key)); err != nil {
		return err
	}

	return m.author.Upsert(ctx, sketch.Summary(ownerKey))
}

func deleteIfExists[T models.Item](ctx context.Context, model models.BaseModel[T], key string) error {

	err := model.Delete(ctx, key)
	if serverError.IsError(err, serverError.ObjectIDNotFoundError) {
		return nil
	}

	return err
}
