package http

import "github.com/gin-gonic/gin"

// Register attaches user routes to the router. Only delete requires auth.
func (h *Handler) Register(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/users", h.list)
	r.GET("/users/:id", h.get)
	r.POST("/users", h.create)
	r.PUT("/users/:id", h.update)
	r.DELETE("/users/:id", requireAuth, h.delete)
}
