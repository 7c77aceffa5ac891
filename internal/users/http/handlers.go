package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/krishilink/krishilink-backend/internal/users/domain"
)

// Store is the slice of the users repository the handlers need.
type Store interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (primitive.ObjectID, error)
	Update(ctx context.Context, id string, p domain.ProfileUpdate) (matched, modified int64, err error)
	Delete(ctx context.Context, id string) (int64, error)
}

type Handler struct {
	store Store
}

func New(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.store.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user", "error": err.Error()})
	default:
		c.JSON(http.StatusOK, u)
	}
}

type createUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

func (h *Handler) create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	id, err := h.store.Create(c.Request.Context(), &domain.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Photo: req.Photo,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id.Hex()})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	matched, modified, err := h.store.Update(c.Request.Context(), c.Param("id"), req)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
	case matched == 0:
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "matchedCount": matched, "modifiedCount": modified})
	}
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user", "error": err.Error()})
	case deleted == 0:
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": deleted})
	}
}
