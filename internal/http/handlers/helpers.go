package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/valyala/fasthttp"

	dbpkg "drilllog/internal/db"
	httpctx "drilllog/internal/http/ctx"
)

const (
	detailNotFound     = "Not found."
	detailUnauthorized = "Authentication credentials were not provided."
	detailInternal     = "Internal server error."
)

// MustUser returns the current user from context, or sends 401 and returns (nil, false).
func MustUser(ctx *fasthttp.RequestCtx) (*dbpkg.User, bool) {
	user, ok := httpctx.UserFromCtx(ctx)
	if !ok {
		WriteDetail(ctx, fasthttp.StatusUnauthorized, detailUnauthorized)
		return nil, false
	}
	return user, true
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode response for %s: %v", ctx.Path(), err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"detail":"` + detailInternal + `"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// WriteDetail sends {"detail": msg}.
func WriteDetail(ctx *fasthttp.RequestCtx, status int, msg string) {
	WriteJSON(ctx, status, map[string]string{"detail": msg})
}

// WriteError maps a store or serializer error onto its HTTP response.
// Unrecognised errors are logged and reported as 500.
func WriteError(ctx *fasthttp.RequestCtx, err error) {
	var verr *dbpkg.ValidationError
	var conflict *dbpkg.ConflictError
	switch {
	case errors.As(err, &verr):
		WriteJSON(ctx, fasthttp.StatusBadRequest, verr.Fields)
	case errors.As(err, &conflict):
		WriteJSON(ctx, fasthttp.StatusConflict, map[string]interface{}{
			"detail": conflict.Message,
			"fields": conflict.Fields,
		})
	case errors.Is(err, dbpkg.ErrNotFound):
		WriteDetail(ctx, fasthttp.StatusNotFound, detailNotFound)
	default:
		log.Printf("%s %s: %v", ctx.Method(), ctx.Path(), err)
		WriteDetail(ctx, fasthttp.StatusInternalServerError, detailInternal)
	}
}

// pathID reads the {id} route parameter. A malformed id cannot name a row
// and is reported as not found.
func pathID(ctx *fasthttp.RequestCtx) (uint, bool) {
	idStr, ok := ctx.UserValue("id").(string)
	if !ok {
		WriteDetail(ctx, fasthttp.StatusNotFound, detailNotFound)
		return 0, false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		WriteDetail(ctx, fasthttp.StatusNotFound, detailNotFound)
		return 0, false
	}
	return uint(id), true
}

// wellIDParam reads the optional well_id query parameter. It returns 0
// when the parameter is absent; a present but malformed value is a 400.
func wellIDParam(ctx *fasthttp.RequestCtx, required bool) (uint, bool) {
	raw := string(ctx.QueryArgs().Peek("well_id"))
	if raw == "" {
		if required {
			WriteError(ctx, dbpkg.NewValidationError("well_id", "This query parameter is required."))
			return 0, false
		}
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		WriteError(ctx, dbpkg.NewValidationError("well_id", "A valid integer is required."))
		return 0, false
	}
	return uint(id), true
}
