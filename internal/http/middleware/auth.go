package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "drilllog/internal/db"
	httpctx "drilllog/internal/http/ctx"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "sessionid"

func deny(ctx *fasthttp.RequestCtx, status int, detail string) {
	body, _ := json.Marshal(map[string]string{"detail": detail})
	if status == fasthttp.StatusUnauthorized {
		ctx.Response.Header.Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// SessionToken extracts the session token from the Authorization header
// or, failing that, the session cookie.
func SessionToken(ctx *fasthttp.RequestCtx) string {
	const prefix = "Bearer "
	if auth := ctx.Request.Header.Peek("Authorization"); bytes.HasPrefix(auth, []byte(prefix)) {
		return strings.TrimSpace(string(auth[len(prefix):]))
	}
	return string(ctx.Request.Header.Cookie(SessionCookie))
}

// SessionAuth resolves the session token to a user and sets it on the
// context. Requests without a live session get 401.
func SessionAuth(db *gorm.DB) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := SessionToken(ctx)
			if token == "" {
				deny(ctx, fasthttp.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			user, err := dbpkg.UserForSession(ctx, db, token)
			if err != nil {
				if errors.Is(err, dbpkg.ErrNotFound) {
					deny(ctx, fasthttp.StatusUnauthorized, "Invalid or expired session.")
					return
				}
				log.Printf("session lookup error: %v", err)
				deny(ctx, fasthttp.StatusInternalServerError, "Internal server error.")
				return
			}

			httpctx.SetSessionToken(ctx, token)
			httpctx.SetUser(ctx, user)
			next(ctx)
		}
	}
}
