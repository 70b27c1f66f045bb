package settings

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	"github.com/supakorn-kn/go-sketchpatch/env"
)

type Service interface {
	Get(ctx context.Context) (env.BlogSettings, error)
	Apply(ctx context.Context, values map[string]string) (env.BlogSettings, error)
}

type SettingsAPI struct {
	service Service
}

func NewSettingsAPI(service Service) *SettingsAPI {
	return &SettingsAPI{service: service}
}

// Register mounts the blog settings. Reading is public, changing them is reserved to admins.
func (api *SettingsAPI) Register(group *gin.RouterGroup) {

	group.GET("settings", api.get)
	group.PUT("settings", apis.RequireAdmin(), api.apply)
	group.GET("settings/options", api.options)
}

func (api *SettingsAPI) get(ctx *gin.Context) {

	settings, err := api.service.Get(ctx)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: settings})
}

func (api *SettingsAPI) apply(ctx *gin.Context) {

	var values map[string]string
	if err := apis.BindJSON(ctx, &values); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	settings, err := api.service.Apply(ctx, values)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: settings})
}

func (api *SettingsAPI) options(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: env.OptionNames()})
}
