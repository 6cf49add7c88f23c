package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	"drilllog/internal/serializers"
)

// ListWells lists every well, filtered by ?status=, ?area= and ?search=.
func ListWells(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		args := ctx.QueryArgs()
		wells, err := dbpkg.ListWells(ctx, db, dbpkg.WellFilter{
			Status: string(args.Peek("status")),
			Area:   string(args.Peek("area")),
			Search: string(args.Peek("search")),
		})
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewWells(wells))
	}
}

// CreateWell creates a well owned by the caller.
func CreateWell(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		var w dbpkg.Well
		if err := serializers.ParseWell(ctx.PostBody(), serializers.Create, &w); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.CreateWell(ctx, db, user, &w); err != nil {
			WriteError(ctx, err)
			return
		}
		RecordsCreated("well").Inc()
		WriteJSON(ctx, fasthttp.StatusCreated, serializers.NewWell(&w))
	}
}

func GetWell(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		w, err := dbpkg.GetWell(ctx, db, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewWell(w))
	}
}

// UpdateWell handles PUT and PATCH.
func UpdateWell(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		w, err := dbpkg.GetWell(ctx, db, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		if err := serializers.ParseWell(ctx.PostBody(), serializers.ModeFor(string(ctx.Method())), w); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.UpdateWell(ctx, db, w); err != nil {
			WriteError(ctx, err)
			return
		}
		fresh, err := dbpkg.GetWell(ctx, db, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewWell(fresh))
	}
}

// DeleteWell deletes a well and everything recorded against it.
func DeleteWell(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := dbpkg.DeleteWell(ctx, db, id); err != nil {
			WriteError(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}
