package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/config"
	"github.com/iliyamo/lesson-booking/internal/handler"
	"github.com/iliyamo/lesson-booking/internal/middleware"
)

// Deps is everything the HTTP surface needs. Redis may be nil, in which
// case caching and rate limiting are skipped.
type Deps struct {
	Lessons *handler.LessonHandler
	Orders  *handler.OrderHandler
	Images  *handler.ImageHandler

	Log         logrus.FieldLogger
	CORSOrigins []string
	Cache       *middleware.ResponseCache
	Redis       *redis.Client
	RateLimit   config.RateLimitConfig
}

// New builds the echo instance with middleware and routes.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  d.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, middleware.HeaderCorrelationID},
		ExposeHeaders: []string{middleware.HeaderCorrelationID, "X-Cache"},
	}))

	e.GET("/healthz", handler.Health)

	RegisterAPI(e, d)

	if d.Images != nil {
		e.GET("/images/*", d.Images.Get)
	}
	return e
}

// RegisterAPI mounts the storefront endpoints under /api.
func RegisterAPI(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	cached := d.Cache.Middleware()
	api.GET("/lessons", d.Lessons.List, cached)
	api.GET("/lessons/:id", d.Lessons.Get, cached)
	api.GET("/search", d.Lessons.Search, cached)
	api.PUT("/lessons/:id", d.Lessons.UpdateSpaces)

	api.POST("/orders", d.Orders.Place, middleware.NewTokenBucket(d.RateLimit, d.Redis))
}
