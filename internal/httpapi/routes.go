package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the portal's HTTP surface.
// Keep this file free of business logic; handlers delegate to the internal
// packages.
func RegisterRoutes(r *gin.Engine, h Handlers, guardMW gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Session lifecycle. Public: the guard would lock the user out of the
	// door they log in through.
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/discord/link", h.DiscordLink)
	}

	// The protected prefix. Everything under it requires the credential
	// cookie at the transport boundary.
	dash := r.Group("/dashboard")
	dash.Use(guardMW)
	{
		dash.GET("", h.Dashboard)
		dash.GET("/:section", h.Dashboard)
	}

	// The profile view protects itself through the bootstrapper instead of
	// the guard, mirroring the protected-view contract: no credential, no
	// render, immediate redirect.
	r.GET("/profile", h.Profile)
	r.GET("/profile/structure/edit", h.BeginStructureEdit)
	r.PUT("/profile/structure", h.SaveStructure)
	r.POST("/profile/structure/cancel", h.CancelStructureEdit)
}
