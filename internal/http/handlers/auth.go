package handlers

import (
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"drilllog/internal/config"
	dbpkg "drilllog/internal/db"
	httpctx "drilllog/internal/http/ctx"
	"drilllog/internal/http/middleware"
	"drilllog/internal/serializers"
)

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      serializers.User `json:"user"`
}

func sessionCookie(cfg *config.Config, value string, maxAge int) *fasthttp.Cookie {
	c := fasthttp.AcquireCookie()
	c.SetKey(middleware.SessionCookie)
	c.SetValue(value)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetSecure(cfg.CookieSecure)
	c.SetMaxAge(maxAge)
	return c
}

// Login checks a username and password and starts a session. The token is
// returned in the body and set as the session cookie.
func Login(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		creds, err := serializers.ParseCredentials(ctx.PostBody())
		if err != nil {
			WriteError(ctx, err)
			return
		}

		user, err := dbpkg.Authenticate(ctx, db, creds.Username, creds.Password)
		if err != nil {
			if errors.Is(err, dbpkg.ErrInvalidCredentials) {
				WriteError(ctx, dbpkg.NewValidationError(serializers.NonFieldErrors, "Unable to log in with provided credentials."))
				return
			}
			WriteError(ctx, err)
			return
		}

		token, err := dbpkg.CreateSession(ctx, db, user, cfg.SessionTTL)
		if err != nil {
			WriteError(ctx, err)
			return
		}

		c := sessionCookie(cfg, token, int(cfg.SessionTTL.Seconds()))
		ctx.Response.Header.SetCookie(c)
		fasthttp.ReleaseCookie(c)

		WriteJSON(ctx, fasthttp.StatusOK, loginResponse{
			Token:     token,
			ExpiresAt: time.Now().UTC().Add(cfg.SessionTTL),
			User:      serializers.NewUser(user),
		})
	}
}

// Logout ends the current session and clears the cookie.
func Logout(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if token, ok := httpctx.SessionTokenFromCtx(ctx); ok {
			if err := dbpkg.DeleteSession(ctx, db, token); err != nil {
				WriteError(ctx, err)
				return
			}
		}

		c := sessionCookie(cfg, "", -1)
		ctx.Response.Header.SetCookie(c)
		fasthttp.ReleaseCookie(c)
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}
