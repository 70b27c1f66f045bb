package sketchers

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SearchOptions struct {
	CurrentPage int                `json:"current_page" form:"current_page"`
	UserID      string             `json:"user_id,omitempty" form:"user_id"`
	Name        models.MatchOption `json:"name,omitempty"`
	Location    models.MatchOption `json:"location,omitempty"`
}

type SketchersModel struct {
	models.BaseModel[objects.Sketcher]
}

const (
	collectionName = "sketchers"
	userIDIndex    = "user_id_1"
	nameIndex      = "name_1"
)

var schema = bson.M{
	"bsonType": "object",
	"required": []string{"user_id", "name"},
	"properties": bson.M{
		"user_id": bson.M{
			"bsonType":    "string",
			"pattern":     "^[0-9]+$",
			"description": "User ID must be a decimal number",
		},
		"name": bson.M{
			"bsonType":    "string",
			"minLength":   1,
			"description": "Name must not be empty",
		},
		"urls": bson.M{
			"bsonType": "array",
			"maxItems": 4,
		},
	},
}

func NewSketchersModel(ctx context.Context, conn *mongodb.MongoDBConn, paginateSize ...int) (*SketchersModel, error) {

	var searchSize int = 10
	var paginateSizeLen = len(paginateSize)
	if paginateSizeLen > 1 {
		return nil, errors.New("PaginateSize can have only one elements")
	} else if paginateSizeLen == 1 {
		searchSize = paginateSize[0]
	}

	coll, err := models.EnsureCollection(ctx, conn.GetDatabase(), collectionName, schema)
	if err != nil {
		return nil, err
	}

	err = models.EnsureIndexes(ctx, coll,
		models.IndexSpec{Name: userIDIndex, Keys: bson.D{{Key: "user_id", Value: 1}}, Unique: true},
		models.IndexSpec{Name: nameIndex, Keys: bson.D{{Key: "name", Value: 1}}},
	)
	if err != nil {
		return nil, err
	}

	var model = new(SketchersModel)
	err = model.Inject(coll, searchSize, "user_id")
	if err != nil {
		return nil, err
	}

	return model, nil
}

func (SketchersModel) GetCollectionName() string {
	return collectionName
}

func Validate(sketcher objects.Sketcher) error {

	if strings.TrimSpace(sketcher.UserID) == "" || strings.TrimSpace(sketcher.Name) == "" {
		return serverError.ValidationFailedError.New("user_id and name are required")
	}

	if _, err := keys.DecodeID(sketcher.UserID); err != nil {
		return serverError.ValidationFailedError.New("user_id must be a decimal number")
	}

	if len(sketcher.URLs) > 4 {
		return serverError.ValidationFailedError.New("at most 4 urls are allowed")
	}

	return nil
}

func (m SketchersModel) Insert(ctx context.Context, sketcher objects.Sketcher) error {

	if err := Validate(sketcher); err != nil {
		return err
	}

	err := m.Coll.FindOne(ctx, bson.D{{Key: m.ItemIDKey, Value: sketcher.UserID}}).Err()
	if err == nil {
		return serverError.DataAlreadyInUsedError.New()
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	return m.BaseModel.Insert(ctx, sketcher)
}

// Profile returns the profile of userID, or a profile named after the user's email when none
// was saved yet.
func (m SketchersModel) Profile(ctx context.Context, userID, email string) (objects.Sketcher, error) {

	sketcher, err := m.GetByID(ctx, userID)
	if err == nil {
		return sketcher, nil
	}

	if !serverError.IsError(err, serverError.ObjectIDNotFoundError) {
		return objects.Sketcher{}, err
	}

	name := keys.AnonymousToken
	if address, parseErr := mail.ParseAddress(email); parseErr == nil {
		name, _, _ = strings.Cut(address.Address, "@")
	}

	return objects.Sketcher{UserID: userID, Name: name}, nil
}

func (m SketchersModel) Search(ctx context.Context, opt SearchOptions) (paginationResult models.PaginationData[objects.Sketcher], paginationErr error) {

	var builder = models.NewSearchPipelineBuilder()
	builder.Skip((opt.CurrentPage - 1) * m.BaseModel.SearchLenLimit)
	builder.Limit(m.BaseModel.SearchLenLimit)
	builder.SortedBy([]models.SortData{
		{
			Key:    m.ItemIDKey,
			SortBy: models.SortASC,
		},
	})

	if !strings.EqualFold(opt.UserID, "") {

		paginationErr = builder.Match("user_id", opt.UserID, models.EqualMatchType)
		if paginationErr != nil {
			return
		}
	}

	if !opt.Name.IsNil() {

		paginationErr = builder.Match("name", opt.Name.Value, opt.Name.MatchType)
		if paginationErr != nil {
			return
		}
	}

	if !opt.Location.IsNil() {

		paginationErr = builder.Match("location", opt.Location.Value, opt.Location.MatchType)
		if paginationErr != nil {
			return
		}
	}

	pipeline := builder.BuildPipeline()

	paginationResult, paginationErr = m.BaseModel.Search(ctx, models.BaseSearchOptions{
		CurrentPage: opt.CurrentPage,
		Pipeline:    pipeline,
	})

	return
}
