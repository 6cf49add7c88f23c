package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	"drilllog/internal/serializers"
)

// CurrentUser returns the caller's profile.
func CurrentUser() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewUser(user))
	}
}

func ListUsers(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		users, err := dbpkg.ListUsers(ctx, db)
		if err != nil {
			WriteError(ctx, err)
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, serializers.NewUsers(users))
	}
}

func CreateUser(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, password, err := serializers.ParseNewUser(ctx.PostBody())
		if err != nil {
			WriteError(ctx, err)
			return
		}
		if err := dbpkg.CreateUser(ctx, db, user, password); err != nil {
			WriteError(ctx, err)
			return
		}
		RecordsCreated("user").Inc()
		WriteJSON(ctx, fasthttp.StatusCreated, serializers.NewUser(user))
	}
}
