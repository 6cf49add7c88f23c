package routes

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"drilllog/internal/config"
	"drilllog/internal/http/handlers"
	appmw "drilllog/internal/http/middleware"
)

// New builds the full request handler: route table, auth, CORS, request
// metrics and access logging.
func New(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	handlers.InitPrometheusMetrics()

	r := router.New()
	r.SaveMatchedRoutePath = true
	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		handlers.WriteDetail(ctx, fasthttp.StatusNotFound, "Not found.")
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		handlers.WriteDetail(ctx, fasthttp.StatusMethodNotAllowed, `Method "`+string(ctx.Method())+`" not allowed.`)
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, v interface{}) {
		log.Printf("panic serving %s %s: %v", ctx.Method(), ctx.Path(), v)
		handlers.WriteDetail(ctx, fasthttp.StatusInternalServerError, "Internal server error.")
	}

	auth := appmw.SessionAuth(db)
	admin := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return auth(appmw.RequireAdmin(cfg)(h))
	}

	r.GET("/", handlers.Index(cfg))
	r.GET("/healthz", handlers.Healthz(db))
	r.GET("/metrics", handlers.PrometheusMetrics())
	r.GET("/api/status/", handlers.Status(cfg))

	r.POST("/api/auth/login/", handlers.Login(db, cfg))
	r.POST("/api/auth/logout/", auth(handlers.Logout(db, cfg)))
	r.GET("/api/current-user/", auth(handlers.CurrentUser()))

	r.GET("/api/users/", admin(handlers.ListUsers(db)))
	r.POST("/api/users/", admin(handlers.CreateUser(db)))

	r.GET("/api/wells/", auth(handlers.ListWells(db)))
	r.POST("/api/wells/", auth(handlers.CreateWell(db)))
	r.GET("/api/wells/{id}/", auth(handlers.GetWell(db)))
	r.PUT("/api/wells/{id}/", auth(handlers.UpdateWell(db)))
	r.PATCH("/api/wells/{id}/", auth(handlers.UpdateWell(db)))
	r.DELETE("/api/wells/{id}/", auth(handlers.DeleteWell(db)))

	r.GET("/api/layers/", auth(handlers.ListLayers(db)))
	r.POST("/api/layers/", auth(handlers.CreateLayer(db)))
	r.GET("/api/layers/{id}/", auth(handlers.GetLayer(db)))
	r.PUT("/api/layers/{id}/", auth(handlers.UpdateLayer(db)))
	r.PATCH("/api/layers/{id}/", auth(handlers.UpdateLayer(db)))
	r.DELETE("/api/layers/{id}/", auth(handlers.DeleteLayer(db)))

	r.GET("/api/samples/", auth(handlers.ListSamples(db, false)))
	r.POST("/api/samples/", auth(handlers.CreateSample(db)))
	r.GET("/api/samples/by_well/", auth(handlers.ListSamples(db, true)))
	r.GET("/api/samples/{id}/", auth(handlers.GetSample(db)))
	r.PUT("/api/samples/{id}/", auth(handlers.UpdateSample(db)))
	r.PATCH("/api/samples/{id}/", auth(handlers.UpdateSample(db)))
	r.DELETE("/api/samples/{id}/", auth(handlers.DeleteSample(db)))

	r.GET("/api/reports/", auth(handlers.ListReports(db, false)))
	r.POST("/api/reports/", auth(handlers.CreateReport(db)))
	r.GET("/api/reports/by_well/", auth(handlers.ListReports(db, true)))
	r.GET("/api/reports/{id}/", auth(handlers.GetReport(db)))
	r.PUT("/api/reports/{id}/", auth(handlers.UpdateReport(db)))
	r.PATCH("/api/reports/{id}/", auth(handlers.UpdateReport(db)))
	r.DELETE("/api/reports/{id}/", auth(handlers.DeleteReport(db)))

	// Global middleware chain: request logger, then metrics, then CORS, then router.
	return handlers.RequestLogger(handlers.Instrument(appmw.CORS(cfg)(r.Handler)))
}
