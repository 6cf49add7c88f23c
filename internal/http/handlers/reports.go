package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	"drilllog/internal/serializers"
)

// ListReports lists the caller's reports, newest first. With byWell set,
// ?well_id= is required.
func ListReports(db *gorm.DB, byWell bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		wellID, ok := wellIDParam(ctx, byWell)
		if !ok {
			return
		}
		reports, err := dbpkg.ListReports(ctx, db, user, wellID)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewReports(reports))
	}
}

// CreateReport files a daily report as the caller.
func CreateReport(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		var r dbpkg.DailyReport
		if err := serializers.ParseReport(ctx.PostBody(), serializers.Create, &r); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.CreateReport(ctx, db, user, &r); err != nil {
			WriteError(ctx, err)
			return
		}
		RecordsCreated("report").Inc()
		writeReport(ctx, db, user, r.ID, fasthttp.StatusCreated)
	}
}

func GetReport(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		writeReport(ctx, db, user, id, fasthttp.StatusOK)
	}
}

// UpdateReport handles PUT and PATCH.
func UpdateReport(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		r, err := dbpkg.GetReport(ctx, db, user, id)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		if err := serializers.ParseReport(ctx.PostBody(), serializers.ModeFor(string(ctx.Method())), r); err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.UpdateReport(ctx, db, user, r); err != nil {
			WriteError(ctx, err)
			return
		}
		writeReport(ctx, db, user, id, fasthttp.StatusOK)
	}
}

func DeleteReport(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := dbpkg.DeleteReport(ctx, db, user, id); err != nil {
			WriteError(ctx, err)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}

func writeReport(ctx *fasthttp.RequestCtx, db *gorm.DB, user *dbpkg.User, id uint, status int) {
	r, err := dbpkg.GetReport(ctx, db, user, id)
	if err != nil {
		WriteError(ctx, err)
		return
	}
	WriteJSON(ctx, status, serializers.NewReport(r))
}
