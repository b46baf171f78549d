// README: HTTP router registration (gin engine, middleware, route groups).
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reloop/internal/http/handlers"
	"reloop/internal/http/middleware"
	"reloop/internal/infra"
	"reloop/internal/modules/assist"
	"reloop/internal/modules/discovery"
	"reloop/internal/modules/impact"
	"reloop/internal/modules/pickup"
)

type RouterDeps struct {
	Pickup    *pickup.Service
	Discovery *discovery.Service
	Impact    *impact.Service
	Assist    *assist.Service // nil disables the assist endpoint
	Verifier  infra.TokenVerifier
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	pickupHandler := handlers.NewPickupHandler(deps.Pickup)
	api.POST("/pickups", pickupHandler.Create)
	api.GET("/pickups", pickupHandler.ListOwned)
	api.GET("/pickups/:id", pickupHandler.Get)
	api.POST("/pickups/:id/cancel", pickupHandler.Cancel)

	driverHandler := handlers.NewDriverHandler(deps.Pickup, deps.Discovery)
	api.GET("/drivers/pickups", driverHandler.ListAvailable)
	api.GET("/drivers/pickups/assigned", driverHandler.ListAssigned)
	api.POST("/drivers/pickups/:id/accept", driverHandler.Accept)
	api.POST("/drivers/pickups/:id/start", driverHandler.Start)
	api.POST("/drivers/pickups/:id/complete", driverHandler.Complete)
	// Alias for driver apps; cancellation semantics are identical.
	api.POST("/drivers/pickups/:id/cancel", pickupHandler.Cancel)

	impactHandler := handlers.NewImpactHandler(deps.Impact)
	api.GET("/impact/:profile_id", impactHandler.Get)

	if deps.Assist != nil {
		assistHandler := handlers.NewAssistHandler(deps.Assist)
		api.POST("/assist/classify", assistHandler.Classify)
	}

	return r
}
