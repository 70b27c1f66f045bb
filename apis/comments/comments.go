package comments

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models/comments"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
)

type Model interface {
	Add(ctx context.Context, sketch objects.Sketch, input comments.CommentInput, user identity.User) (objects.Comment, error)
	Delete(ctx context.Context, key string, user identity.User) error
	ForSketch(ctx context.Context, sketchRandomID, bookmark string, size int) (paging.CursorPage[objects.Comment], error)
	Latest(ctx context.Context, sketchRandomID string, n int) ([]objects.Comment, error)
}

// SketchGetter loads the sketch a comment is posted on.
type SketchGetter interface {
	GetByRandomID(ctx context.Context, randomID string) (objects.Sketch, error)
}

type CommentsAPI struct {
	model    Model
	sketches SketchGetter
	pageSize int
	latest   int
}

func NewCommentsAPI(model Model, sketches SketchGetter, pageSize, latest int) *CommentsAPI {
	return &CommentsAPI{model: model, sketches: sketches, pageSize: pageSize, latest: latest}
}

func (api *CommentsAPI) Register(group *gin.RouterGroup) {

	group.GET("comments/:randomID", api.list)
	group.POST("comments/:randomID", api.add)
	group.DELETE("comments/:randomID/:key", api.delete)
	group.GET("latest-comments/:randomID", api.latestComments)
}

func (api *CommentsAPI) list(ctx *gin.Context) {

	page, err := api.model.ForSketch(ctx, ctx.Param("randomID"), ctx.Query("bookmark"), api.pageSize)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: page})
}

func (api *CommentsAPI) add(ctx *gin.Context) {

	var input comments.CommentInput
	if err := apis.BindJSON(ctx, &input); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	sketch, err := api.sketches.GetByRandomID(ctx, ctx.Param("randomID"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	comment, err := api.model.Add(ctx, sketch, input, identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, apis.CRUDResponse{Result: comment})
}

func (api *CommentsAPI) delete(ctx *gin.Context) {

	if err := api.model.Delete(ctx, ctx.Param("key"), identity.FromContext(ctx)); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (api *CommentsAPI) latestComments(ctx *gin.Context) {

	latest, err := api.model.Latest(ctx, ctx.Param("randomID"), api.latest)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: latest})
}
