package posts

import (
	"context"
	"strings"
	"time"

	"github.com/gosimple/slug"
	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	collectionName  = "posts"
	permalinkIndex  = "permalink_1"
	dateIndex       = "status_1_entry_type_1_date_-1"
	monthYearLayout = "January 2006"
)

var schema = bson.M{
	"bsonType": "object",
	"required": []string{"permalink", "title", "status", "entry_type", "date"},
	"properties": bson.M{
		"permalink": bson.M{
			"bsonType":    "string",
			"minLength":   1,
			"description": "Permalink must not be empty",
		},
		"status": bson.M{
			"enum":        bson.A{objects.PostStatusPublished, objects.PostStatusUnpublished},
			"description": "Status must be published or unpublished",
		},
		"entry_type": bson.M{
			"enum":        bson.A{objects.EntryTypePost, objects.EntryTypePage},
			"description": "Entry type must be post or page",
		},
	},
}

// ListingOptions narrows the numbered post listing.
type ListingOptions struct {
	Page  int                `json:"page" form:"page"`
	Title models.MatchOption `json:"title"`
	Tag   string             `json:"tag" form:"tag"`

	// IncludeUnpublished lists drafts too, for the admin pages.
	IncludeUnpublished bool `json:"-" form:"-"`
}

// Archive is the number of posts of one month.
type Archive struct {
	MonthYear  string `json:"month_year" bson:"_id"`
	EntryCount int    `json:"entry_count" bson:"entry_count"`
}

type PostsModel struct {
	models.BaseModel[objects.Post]
	now func() time.Time
}

func NewPostsModel(ctx context.Context, conn *mongodb.MongoDBConn) (*PostsModel, error) {

	coll, err := models.EnsureCollection(ctx, conn.GetDatabase(), collectionName, schema)
	if err != nil {
		return nil, err
	}

	err = models.EnsureIndexes(ctx, coll,
		models.IndexSpec{Name: permalinkIndex, Keys: bson.D{{Key: "permalink", Value: 1}}, Unique: true},
		models.IndexSpec{Name: dateIndex, Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "entry_type", Value: 1},
			{Key: "date", Value: -1},
		}},
	)
	if err != nil {
		return nil, err
	}

	var model = &PostsModel{now: time.Now}
	if err := model.Inject(coll, 8, "permalink"); err != nil {
		return nil, err
	}

	return model, nil
}

func (PostsModel) GetCollectionName() string {
	return collectionName
}

// Prepare fills the fields of a new post that the editor does not send.
func Prepare(post objects.Post, author identity.User, now time.Time) (objects.Post, error) {

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return objects.Post{}, serverError.ValidationFailedError.New("title is required")
	}

	post.Permalink = strings.TrimSpace(post.Permalink)
	if post.Permalink == "" {
		post.Permalink = post.Title
	}
	post.Permalink = slug.Make(post.Permalink)
	if post.Permalink == "" {
		return objects.Post{}, serverError.ValidationFailedError.New("permalink is empty")
	}

	if post.Status == "" {
		post.Status = objects.PostStatusPublished
	}

	if post.EntryType == "" {
		post.EntryType = objects.EntryTypePost
	}

	now = now.UTC().Truncate(time.Millisecond)
	if post.Date.IsZero() {
		post.Date = now
	}
	post.LastModifiedDate = now
	post.MonthYear = post.Date.Format(monthYearLayout)

	post.AuthorUserID = author.ID
	post.AuthorNickname = author.DisplayName()

	return post, nil
}

// Insert stores a new post. A taken permalink is reported as DuplicatedObjectID.
func (m PostsModel) Insert(ctx context.Context, post objects.Post, author identity.User) (objects.Post, error) {

	post, err := Prepare(post, author, m.now())
	if err != nil {
		return objects.Post{}, err
	}

	if err := m.BaseModel.Insert(ctx, post); err != nil {
		return objects.Post{}, err
	}

	return post, nil
}

func (m PostsModel) GetByPermalink(ctx context.Context, permalink string) (objects.Post, error) {
	return m.GetByID(ctx, permalink)
}

// Update changes the fields set in post and returns the stored result.
func (m PostsModel) Update(ctx context.Context, post objects.Post) (objects.Post, error) {

	post.LastModifiedDate = m.now().UTC().Truncate(time.Millisecond)
	if !post.Date.IsZero() {
		post.MonthYear = post.Date.Format(monthYearLayout)
	}

	if err := m.BaseModel.Update(ctx, post); err != nil {
		return objects.Post{}, err
	}

	return m.GetByID(ctx, post.Permalink)
}

func filterOf(opts ListingOptions) (bson.D, error) {

	filter := bson.D{{Key: "entry_type", Value: objects.EntryTypePost}}
	if !opts.IncludeUnpublished {
		filter = append(filter, bson.E{Key: "status", Value: objects.PostStatusPublished})
	}

	if !opts.Title.IsNil() {

		titleBson, err := models.CreateMatchBson("title", opts.Title.Value, opts.Title.MatchType)
		if err != nil {
			return nil, err
		}

		filter = append(filter, titleBson...)
	}

	if tag := strings.TrimSpace(opts.Tag); tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: tag})
	}

	return filter, nil
}

// Listing splits the matching posts, newest first, in pages of perPage. Counting stops at
// countCap posts when it is positive.
func (m PostsModel) Listing(opts ListingOptions, perPage, countCap int) (*paging.Paginator[objects.Post], error) {

	filter, err := filterOf(opts)
	if err != nil {
		return nil, err
	}

	sort := bson.D{{Key: "date", Value: models.SortDESC}, {Key: "permalink", Value: models.SortASC}}

	return paging.NewPaginator[objects.Post](m.Query(filter, sort, countCap), perPage, paging.WithCountCap(countCap))
}

// Archives counts the published posts of every month, newest month first.
func (m PostsModel) Archives(ctx context.Context) ([]Archive, error) {

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: objects.PostStatusPublished},
			{Key: "entry_type", Value: objects.EntryTypePost},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$month_year"},
			{Key: "entry_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "latest", Value: bson.D{{Key: "$max", Value: "$date"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "latest", Value: models.SortDESC}}}},
	}

	cur, err := m.Coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	archives := make([]Archive, 0)
	if err := cur.All(ctx, &archives); err != nil {
		return nil, err
	}

	return archives, nil
}
