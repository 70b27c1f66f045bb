package comments

import (
	"context"
	"math/rand"
	"strings"
	"time"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/filter"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
	"go.mongodb.org/mongo-driver/bson"
)

const collectionName = "sketch_comments"

var schema = bson.M{
	"bsonType": "object",
	"required": []string{"sketch_random_id", "body"},
	"properties": bson.M{
		"body": bson.M{
			"bsonType":    "string",
			"minLength":   1,
			"description": "Comment body must not be empty",
		},
	},
}

// CommentInput is what the comment form submits.
type CommentInput struct {
	Body string `json:"body" form:"body" binding:"required"`
}

// CommentsModel stores comments keyed under the sketch they belong to, so the comments of one
// sketch are a single key range ordered newest first.
type CommentsModel struct {
	models.BaseModel[objects.Comment]
	now func() time.Time
}

func NewCommentsModel(ctx context.Context, conn *mongodb.MongoDBConn) (*CommentsModel, error) {

	coll, err := models.EnsureCollection(ctx, conn.GetDatabase(), collectionName, schema)
	if err != nil {
		return nil, err
	}

	var model = &CommentsModel{now: time.Now}
	if err := model.Inject(coll, 5, "_id"); err != nil {
		return nil, err
	}

	return model, nil
}

func (CommentsModel) GetCollectionName() string {
	return collectionName
}

// NewComment builds the comment of author on sketch. Bodies with profanity are refused and markup
// outside the allowed set is removed.
func NewComment(sketch objects.Sketch, input CommentInput, author identity.User, now time.Time) (objects.Comment, error) {

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return objects.Comment{}, serverError.ValidationFailedError.New("body is required")
	}

	if filter.ContainsProfanity(body) {
		return objects.Comment{}, serverError.ProfanityDetectedError.New("comment")
	}

	now = now.UTC().Truncate(time.Millisecond)
	sketchKey := keys.NewSketchKey(now, rand.New(rand.NewSource(now.UnixNano())))

	return objects.Comment{
		Key:                keys.CommentKey(sketch.RandomID, sketchKey),
		SketchRandomID:     sketch.RandomID,
		Body:               filter.StripHTML(body),
		AuthorUserID:       author.ID,
		AuthorToken:        author.Token(),
		AuthorNickname:     author.DisplayName(),
		AuthorEmail:        author.Email,
		SketchAuthorUserID: sketch.AuthorUserID,
		Created:            now,
	}, nil
}

// CanDelete reports whether user may remove comment: its author, the author of the sketch it is on,
// or an admin.
func CanDelete(user identity.User, comment objects.Comment) bool {
	return user.Admin || user.Owns(comment.AuthorUserID) || user.Owns(comment.SketchAuthorUserID)
}

func (m CommentsModel) Add(ctx context.Context, sketch objects.Sketch, input CommentInput, user identity.User) (objects.Comment, error) {

	comment, err := NewComment(sketch, input, user, m.now())
	if err != nil {
		return objects.Comment{}, err
	}

	if err := m.Insert(ctx, comment); err != nil {
		return objects.Comment{}, err
	}

	return comment, nil
}

func (m CommentsModel) Delete(ctx context.Context, key string, user identity.User) error {

	comment, err := m.GetByID(ctx, key)
	if err != nil {
		return err
	}

	if !CanDelete(user, comment) {
		return serverError.PermissionDeniedError.New(key)
	}

	return m.BaseModel.Delete(ctx, key)
}

// ForSketch pages through the comments of a sketch, newest first.
func (m CommentsModel) ForSketch(ctx context.Context, sketchRandomID, bookmark string, size int) (paging.CursorPage[objects.Comment], error) {

	scope, err := keys.BoundsForComments(sketchRandomID)
	if err != nil {
		return paging.CursorPage[objects.Comment]{}, err
	}

	return paging.FetchPage[objects.Comment](ctx, m.BaseModel, scope, bookmark, size)
}

// Latest returns the n newest comments of a sketch.
func (m CommentsModel) Latest(ctx context.Context, sketchRandomID string, n int) ([]objects.Comment, error) {

	scope, err := keys.BoundsForComments(sketchRandomID)
	if err != nil {
		return nil, err
	}

	return m.FetchRange(ctx, scope.Start, scope.End, n)
}

// DeleteForSketch removes every comment of a sketch.
func (m CommentsModel) DeleteForSketch(ctx context.Context, sketchRandomID string) (int64, error) {

	scope, err := keys.BoundsForComments(sketchRandomID)
	if err != nil {
		return 0, err
	}

	return m.DeleteRange(ctx, scope.Start, scope.End)
}
