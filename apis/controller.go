package apis

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models"
)

func RegisterCrudAPI[Item models.Item](api CrudAPI[Item], group *gin.RouterGroup) {

	group.POST("", func(ctx *gin.Context) {

		err := api.Insert(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusCreated, OKResponse)
	})

	group.GET(":id", func(ctx *gin.Context) {

		itemID := ctx.Param("id")

		item, err := api.ReadOne(itemID, ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: item})
	})

	group.GET("", func(ctx *gin.Context) {

		paginateResult, err := api.Read(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: paginateResult})
	})

	group.PUT(":id", func(ctx *gin.Context) {

		err := api.Update(ctx.Param("id"), ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.Status(http.StatusNoContent)
	})

	group.DELETE(":id", func(ctx *gin.Context) {

		err := api.Delete(ctx.Param("id"), ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.Status(http.StatusNoContent)
	})
}

// StatusOf maps an error to the HTTP status it is answered with.
func StatusOf(err error) int {

	assertedError, ok := errors.TryAssertError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch assertedError.Code {
	case errors.ObjectIDNotFoundErrorCode, errors.InvalidPageErrorCode:
		return http.StatusNotFound
	case errors.PermissionDeniedErrorCode:
		return http.StatusForbidden
	case errors.PingbackFailedErrorCode:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func WriteErrorJSON(ctx *gin.Context, err error) {

	assertedError, ok := errors.TryAssertError(err)
	if !ok {
		slog.Error("Request failed", slog.String("path", ctx.FullPath()), slog.Any("error", err))
		ctx.JSON(http.StatusInternalServerError, CRUDResponse{Error: errors.UnknownError.New(err)})
		return
	}

	ctx.JSON(StatusOf(assertedError), CRUDResponse{Error: assertedError})
}

// BindJSON decodes the request body into dest. Decoding and binding failures are reported as
// ValidationFailed.
func BindJSON(ctx *gin.Context, dest any) error {

	if err := ctx.ShouldBindJSON(dest); err != nil {
		return errors.ValidationFailedError.New(err.Error())
	}

	return nil
}

// QueryPage reads the page query parameter, 1 when it is absent. Anything else than a number is
// answered with InvalidPage.
func QueryPage(ctx *gin.Context) (int, error) {

	raw, ok := ctx.GetQuery("page")
	if !ok || raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidPageError.New(0)
	}

	return page, nil
}

// RequireAdmin refuses the request unless the user is an administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {

		if !identity.FromContext(ctx).Admin {
			WriteErrorJSON(ctx, errors.PermissionDeniedError.New(ctx.Request.URL.Path))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
