package http

import "github.com/gin-gonic/gin"

// Register attaches product and interest routes. Read paths are public;
// every mutation and the per-user views require a verified token.
func (h *Handler) Register(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/products", h.list)
	r.GET("/products/:id", h.get)
	r.POST("/products", requireAuth, h.create)
	r.PUT("/products/:id", requireAuth, h.update)
	r.DELETE("/products/:id", requireAuth, h.delete)

	r.GET("/latest-products", h.listLatest)
	r.GET("/my-posted", requireAuth, h.myPosted)
	r.GET("/search", h.search)

	r.POST("/products/:id/interests", requireAuth, h.submitInterest)
	r.GET("/products/:id/interests", h.productInterests)
	r.PATCH("/products/:id/interests/:interestId", requireAuth, h.updateInterestStatus)
	r.GET("/my-interests", requireAuth, h.myInterests)
}
