package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MatsalakO/social-meda-api/middleware"
	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/utils"
)

// statusOverride remaps one error kind to a different HTTP status for a
// single endpoint.
type statusOverride struct {
	kind   error
	status int
}

var errorStatuses = []struct {
	kind   error
	status int
	code   int
}{
	{services.ErrNotFound, http.StatusNotFound, 40400},
	{services.ErrConflict, http.StatusConflict, 40900},
	{services.ErrInvalidOperation, http.StatusBadRequest, 40010},
	{services.ErrForbidden, http.StatusForbidden, 40300},
	{services.ErrInvalid, http.StatusBadRequest, 40000},
	{services.ErrUnauthorized, http.StatusUnauthorized, 40100},
}

// respondError writes the envelope for err. Service errors keep their detail
// message; anything else is logged and reported as 500.
func respondError(ctx *gin.Context, err error, overrides ...statusOverride) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.kind) {
			continue
		}
		status := e.status
		for _, o := range overrides {
			if o.kind == e.kind {
				status = o.status
			}
		}
		utils.Error(ctx, status, e.code, services.Detail(err, e.kind.Error()))
		return
	}
	utils.Logger.Error("request failed",
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.FullPath()),
		zap.Error(err))
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// requireUser returns the authenticated account id or writes a 401.
func requireUser(ctx *gin.Context) (uint, bool) {
	id, ok := getUserID(ctx)
	if !ok || id == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return 0, false
	}
	return id, true
}

// pathID parses a positive numeric path parameter. A malformed id cannot
// match any row, so it is reported as not found.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusNotFound, 40400, "Not found.")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body or writes a 400.
func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return false
	}
	return true
}

// readUpload extracts the multipart "image" field.
func readUpload(ctx *gin.Context) (services.Upload, func(), bool) {
	fh, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "image: No file was submitted.")
		return services.Upload{}, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "image: The submitted file could not be read.")
		return services.Upload{}, nil, false
	}
	up := services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}
	return up, func() { _ = f.Close() }, true
}
