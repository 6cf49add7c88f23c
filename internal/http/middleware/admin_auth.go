package middleware

import (
	"github.com/valyala/fasthttp"

	"drilllog/internal/config"
	httpctx "drilllog/internal/http/ctx"
)

// RequireAdmin rejects authenticated users that are not admins. It must
// run after SessionAuth. The bootstrap admin from config always passes.
func RequireAdmin(cfg *config.Config) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user, ok := httpctx.UserFromCtx(ctx)
			if !ok {
				deny(ctx, fasthttp.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			if !user.IsAdmin && user.Username != cfg.AdminUser {
				deny(ctx, fasthttp.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next(ctx)
		}
	}
}
