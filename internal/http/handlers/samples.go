package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	"drilllog/internal/serializers"
)

// ListSamples lists the caller's samples. With byWell set, ?well_id= is
// required; otherwise it is an optional filter.
func ListSamples(db *gorm.DB, byWell bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		wellID, ok := wellIDParam(ctx, byWell)
		if !ok {
			return
		}
		samples, err := dbpkg.ListSamples(ctx, db, user, wellID)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewSamples(samples))
	}
}

// CreateSample records a sample collected by the caller.
func CreateSample(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		var s dbpkg.LithologySample
		if err := serializers.ParseSample(ctx.PostBody(), serializers.Create, &s); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.CreateSample(ctx, db, user, &s); err != nil {
			WriteError(ctx, err)
			return
		}
		RecordsCreated("sample").Inc()
		writeSample(ctx, db, user, s.ID, fasthttp.StatusCreated)
	}
}

func GetSample(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		writeSample(ctx, db, user, id, fasthttp.StatusOK)
	}
}

// UpdateSample handles PUT and PATCH.
func UpdateSample(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		s, err := dbpkg.GetSample(ctx, db, user, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		if err := serializers.ParseSample(ctx.PostBody(), serializers.ModeFor(string(ctx.Method())), s); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.UpdateSample(ctx, db, user, s); err != nil {
			WriteError(ctx, err)
			return
		}
		writeSample(ctx, db, user, id, fasthttp.StatusOK)
	}
}

func DeleteSample(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := dbpkg.DeleteSample(ctx, db, user, id); err != nil {
			WriteError(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}

func writeSample(ctx *fasthttp.RequestCtx, db *gorm.DB, user *dbpkg.User, id uint, status int) {
	s, err := dbpkg.GetSample(ctx, db, user, id)
	if err != nil {
		WriteError(ctx, err)
		return
	}
	WriteJSON(ctx, status, serializers.NewSample(s))
}
