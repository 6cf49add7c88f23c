package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	"drilllog/internal/serializers"
)

// ListLayers lists layers on the caller's wells, optionally ?well_id=.
func ListLayers(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		wellID, ok := wellIDParam(ctx, false)
		if !ok {
			return
		}
		layers, err := dbpkg.ListLayers(ctx, db, user, wellID)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewLayers(layers))
	}
}

// CreateLayer adds a layer to one of the caller's wells with the next
// layer number.
func CreateLayer(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		var l dbpkg.GeologyLayer
		if err := serializers.ParseLayer(ctx.PostBody(), serializers.Create, &l); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.CreateLayer(ctx, db, user, &l); err != nil {
			WriteError(ctx, err)
			return
		}
		RecordsCreated("layer").Inc()
		writeLayer(ctx, db, user, l.ID, fasthttp.StatusCreated)
	}
}

func GetLayer(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		writeLayer(ctx, db, user, id, fasthttp.StatusOK)
	}
}

// UpdateLayer handles PUT and PATCH.
func UpdateLayer(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		l, err := dbpkg.GetLayer(ctx, db, user, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		if err := serializers.ParseLayer(ctx.PostBody(), serializers.ModeFor(string(ctx.Method())), l); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.UpdateLayer(ctx, db, user, l); err != nil {
			WriteError(ctx, err)
			return
		}
		writeLayer(ctx, db, user, id, fasthttp.StatusOK)
	}
}

func DeleteLayer(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := dbpkg.DeleteLayer(ctx, db, user, id); err != nil {
			WriteError(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}

func writeLayer(ctx *fasthttp.RequestCtx, db *gorm.DB, user *dbpkg.User, id uint, status int) {
	l, err := dbpkg.GetLayer(ctx, db, user, id)
	if err != nil {
		WriteError(ctx, err)
		return
	}
	WriteJSON(ctx, status, serializers.NewLayer(l))
}
