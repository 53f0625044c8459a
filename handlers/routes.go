package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/footyvalue/middleware"
)

// Register mounts the API under /api. Reads need a token only when
// authReads is set; writes always do.
func Register(e *echo.Echo, h *Handler, authReads bool) {
	api := e.Group("/api")
	read := mw.Optional(h.JWTKey, authReads)
	auth := mw.JWT(h.JWTKey)

	// Public
	api.POST("/signin", h.Signin)

	api.GET("/leagues", h.Leagues, read)
	api.GET("/upcoming", h.Upcoming, read)
	api.GET("/matches/:id/prediction", h.MatchPrediction, read)
	api.GET("/value", h.Value, read)
	api.GET("/history", h.History, read)
	api.GET("/performance", h.Performance, read)

	// Protected – require valid JWT in Authorization header
	api.POST("/reconcile", h.Reconcile, auth)
	api.POST("/train", h.Train, auth)
	api.POST("/scan/notify", h.ScanNotify, auth)
	api.POST("/password-hash", h.PasswordHash, auth)
}
