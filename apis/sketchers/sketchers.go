package sketchers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/models/sketchers"
	"github.com/supakorn-kn/go-sketchpatch/objects"
)

type Model interface {
	Insert(ctx context.Context, sketcher objects.Sketcher) error
	GetByID(ctx context.Context, userID string) (objects.Sketcher, error)
	Search(ctx context.Context, opt sketchers.SearchOptions) (models.PaginationData[objects.Sketcher], error)
	Update(ctx context.Context, sketcher objects.Sketcher) error
	Delete(ctx context.Context, userID string) error
}

// SketchersCrudAPI serves the sketcher profiles. A profile can only be changed by its user or an
// admin.
type SketchersCrudAPI struct {
	model Model
}

func NewSketchersAPI(model Model) *SketchersCrudAPI {
	return &SketchersCrudAPI{model: model}
}

func authorize(ctx *gin.Context, userID string) error {

	user := identity.FromContext(ctx)
	if user.Admin || user.Owns(userID) {
		return nil
	}

	return serverError.PermissionDeniedError.New(userID)
}

func (api SketchersCrudAPI) Insert(ctx *gin.Context) error {

	var sketcher objects.Sketcher
	if err := apis.BindJSON(ctx, &sketcher); err != nil {
		return err
	}

	if err := authorize(ctx, sketcher.UserID); err != nil {
		return err
	}

	return api.model.Insert(ctx, sketcher)
}

func (api SketchersCrudAPI) ReadOne(itemID string, ctx *gin.Context) (*objects.Sketcher, error) {

	sketcher, err := api.model.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &sketcher, nil
}

func (api SketchersCrudAPI) Read(ctx *gin.Context) (*models.PaginationData[objects.Sketcher], error) {

	var opt sketchers.SearchOptions
	if err := apis.BindJSON(ctx, &opt); err != nil {
		return nil, err
	}

	paginationData, err := api.model.Search(ctx, opt)
	if err != nil {
		return nil, err
	}

	return &paginationData, nil
}

func (api SketchersCrudAPI) Update(itemID string, ctx *gin.Context) error {

	var sketcher objects.Sketcher
	if err := apis.BindJSON(ctx, &sketcher); err != nil {
		return err
	}

	if sketcher.UserID != itemID {
		return serverError.ValidationFailedError.New("user_id does not match the profile")
	}

	if err := authorize(ctx, itemID); err != nil {
		return err
	}

	return api.model.Update(ctx, sketcher)
}

func (api SketchersCrudAPI) Delete(itemID string, ctx *gin.Context) error {

	if err := authorize(ctx, itemID); err != nil {
		return err
	}

	return api.model.Delete(ctx, itemID)
}
