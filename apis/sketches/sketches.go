package sketches

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	"github.com/supakorn-kn/go-sketchpatch/filter"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/keys"
	"github.com/supakorn-kn/go-sketchpatch/models/sketches"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
)

type Model interface {
	Create(ctx context.Context, input sketches.SketchInput, user identity.User) (objects.Sketch, error)
	Copy(ctx context.Context, parentRandomID string, input sketches.SketchInput, user identity.User) (objects.Sketch, error)
	GetByRandomID(ctx context.Context, randomID string) (objects.Sketch, error)
	Update(ctx context.Context, randomID string, input sketches.SketchInput, user identity.User) (objects.Sketch, error)
	Delete(ctx context.Context, randomID string, user identity.User) error
	Gallery(ctx context.Context, bookmark string, size int) (paging.CursorPage[objects.SketchSummary], error)
	ByOwner(ctx context.Context, owner *big.Int, includeUnpublished bool, bookmark string, size int) (paging.CursorPage[objects.SketchSummary], error)
}

// ViewCounter counts sketch page views.
type ViewCounter interface {
	Incr(ctx context.Context, page string) (int64, error)
}

// SketchView is a sketch as the sketch page shows it.
type SketchView struct {
	objects.Sketch
	SourceHTML string `json:"source_html"`
	Permalink  string `json:"permalink"`
	PageViews  int64  `json:"page_views"`
	CanEdit    bool   `json:"can_edit"`
}

type SketchesAPI struct {
	model    Model
	views    ViewCounter
	pageSize int
}

func NewSketchesAPI(model Model, views ViewCounter, pageSize int) *SketchesAPI {
	return &SketchesAPI{model: model, views: views, pageSize: pageSize}
}

// Register mounts the sketch, gallery and owner listing routes on group.
func (api *SketchesAPI) Register(group *gin.RouterGroup) {

	group.POST("sketches", api.create)
	group.GET("sketches/:randomID", api.readOne)
	group.PUT("sketches/:randomID", api.update)
	group.DELETE("sketches/:randomID", api.delete)
	group.POST("sketches/:randomID/copy", api.copy)

	group.GET("gallery", api.gallery)
	group.GET("by-uploader/:token", api.byUploader)
	group.GET("my-sketches", api.mySketches)
}

// PageName is the page view counter name of a sketch.
func PageName(randomID string) string {
	return "sketch/" + randomID
}

func (api *SketchesAPI) view(ctx *gin.Context, sketch objects.Sketch, countView bool) SketchView {

	user := identity.FromContext(ctx)

	view := SketchView{
		Sketch:     sketch,
		SourceHTML: filter.EscapeSource(sketch.SourceCode),
		Permalink:  sketch.Permalink(),
		CanEdit:    user.Admin || user.Owns(sketch.AuthorUserID),
	}

	if countView && api.views != nil {

		views, err := api.views.Incr(ctx, PageName(sketch.RandomID))
		if err != nil {
			slog.Warn("Counting sketch view failed", slog.String("random_id", sketch.RandomID), slog.Any("error", err))
		}
		view.PageViews = views
	}

	return view
}

func (api *SketchesAPI) create(ctx *gin.Context) {

	var input sketches.SketchInput
	if err := apis.BindJSON(ctx, &input); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	sketch, err := api.model.Create(ctx, input, identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, apis.CRUDResponse{Result: api.view(ctx, sketch, false)})
}

func (api *SketchesAPI) copy(ctx *gin.Context) {

	var input sketches.SketchInput
	if err := apis.BindJSON(ctx, &input); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	sketch, err := api.model.Copy(ctx, ctx.Param("randomID"), input, identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, apis.CRUDResponse{Result: api.view(ctx, sketch, false)})
}

func (api *SketchesAPI) readOne(ctx *gin.Context) {

	sketch, err := api.model.GetByRandomID(ctx, ctx.Param("randomID"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: api.view(ctx, sketch, true)})
}

func (api *SketchesAPI) update(ctx *gin.Context) {

	var input sketches.SketchInput
	if err := apis.BindJSON(ctx, &input); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	sketch, err := api.model.Update(ctx, ctx.Param("randomID"), input, identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: api.view(ctx, sketch, false)})
}

func (api *SketchesAPI) delete(ctx *gin.Context) {

	err := api.model.Delete(ctx, ctx.Param("randomID"), identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (api *SketchesAPI) gallery(ctx *gin.Context) {

	page, err := api.model.Gallery(ctx, ctx.Query("bookmark"), api.pageSize)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: page})
}

// byUploader lists the public sketches of the owner named by token, or all of them when the viewer
// is that owner.
func (api *SketchesAPI) byUploader(ctx *gin.Context) {

	owner, err := keys.ParseOwnerToken(ctx.Param("token"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	user := identity.FromContext(ctx)
	self := false
	if !user.IsAnonymous() {
		if id, err := user.OwnerID(); err == nil && id.Cmp(owner) == 0 {
			self = true
		}
	}

	page, err := api.model.ByOwner(ctx, owner, self, ctx.Query("bookmark"), api.pageSize)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: page})
}

func (api *SketchesAPI) mySketches(ctx *gin.Context) {

	owner, err := identity.FromContext(ctx).OwnerID()
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	page, err := api.model.ByOwner(ctx, owner, true, ctx.Query("bookmark"), api.pageSize)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: page})
}
