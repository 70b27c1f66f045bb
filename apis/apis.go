package apis

import (
	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/models"
)

// CRUDResponse is the envelope of every JSON answer. Error is zero on success.
type CRUDResponse struct {
	Result any              `json:"result,omitempty"`
	Error  errors.BaseError `json:"error,omitempty"`
}

// CrudAPI is a resource served through RegisterCrudAPI.
type CrudAPI[Item models.Item] interface {
	Insert(ctx *gin.Context) error
	ReadOne(itemID string, ctx *gin.Context) (*Item, error)
	Read(ctx *gin.Context) (*models.PaginationData[Item], error)
	Update(itemID string, ctx *gin.Context) error
	Delete(itemID string, ctx *gin.Context) error
}

var OKResponse = CRUDResponse{Result: map[string]any{"status": "OK"}}
