// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"

	"cedar/internal/http/handlers"
	"cedar/internal/http/middleware"
	"cedar/internal/infra"
	"cedar/internal/modules/fleet"
	"cedar/internal/modules/location"
	"cedar/internal/modules/quote"
	"cedar/internal/modules/route"
	"cedar/internal/modules/trip"
)

type RouterDeps struct {
	Resolver *location.Resolver
	Quote    *quote.Service
	Route    *route.Service
	Trip     *trip.Service
	Fleet    *fleet.Service
	Verifier infra.TokenVerifier // nil disables auth
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	locationHandler := handlers.NewLocationHandler(deps.Resolver)
	api.POST("/locations/resolve", locationHandler.Resolve)
	api.POST("/locations/reverse", locationHandler.Reverse)

	quoteHandler := handlers.NewQuoteHandler(deps.Quote, deps.Route)
	api.POST("/quotes", quoteHandler.Build)
	api.POST("/quotes/rank", quoteHandler.Rank)
	api.POST("/routing/reset", quoteHandler.ResetRouting)

	tripHandler := handlers.NewTripHandler(deps.Trip)
	api.POST("/trips/dispatch", tripHandler.Dispatch)
	api.GET("/trips/:id", tripHandler.Get)
	api.POST("/trips/:id/start", tripHandler.Start)
	api.POST("/trips/:id/complete", tripHandler.Complete)
	api.POST("/trips/:id/cancel", tripHandler.Cancel)

	driverHandler := handlers.NewDriverHandler(deps.Fleet)
	api.GET("/drivers", driverHandler.List)
	api.POST("/drivers", driverHandler.Register)
	api.PUT("/drivers/:id/status", driverHandler.SetStatus)
	api.PUT("/drivers/:id/mileage", driverHandler.UpdateMileage)
	api.PUT("/drivers/:id/position", driverHandler.UpdatePosition)

	return r
}
