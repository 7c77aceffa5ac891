package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/krishilink/krishilink-backend/internal/auth"
	"github.com/krishilink/krishilink-backend/internal/cache"
	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

const latestLimit = 6

// Store is the slice of the products repository the handlers need.
type Store interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (primitive.ObjectID, error)
	UpdateOwned(ctx context.Context, id, ownerEmail string, u domain.ProductUpdate) (matched, modified int64, err error)
	DeleteOwned(ctx context.Context, id, ownerEmail string) (int64, error)
	Latest(ctx context.Context, limit int) ([]domain.Product, error)
	ByOwner(ctx context.Context, ownerEmail string) ([]domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	AddInterest(ctx context.Context, cropID string, in *domain.Interest) error
	SetInterestStatus(ctx context.Context, cropID, interestID string, status domain.Status) (int64, error)
	InterestsByUser(ctx context.Context, userEmail string) ([]domain.UserInterest, error)
}

type Handler struct {
	store  Store
	latest *cache.LatestProducts
}

func New(store Store, latest *cache.LatestProducts) *Handler {
	if latest == nil {
		latest = cache.NewLatestProducts(nil, 0)
	}
	return &Handler{store: store, latest: latest}
}

func (h *Handler) list(c *gin.Context) {
	products, err := h.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid crop id"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Crop not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product", "error": err.Error()})
	default:
		c.JSON(http.StatusOK, p)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	// The owner's email comes from the verified token, never the body.
	p := &domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Image:       req.Image,
		Location:    req.Location,
		Owner: domain.Owner{
			OwnerName:  req.Owner.OwnerName,
			OwnerEmail: auth.UserEmail(c),
			OwnerPhoto: req.Owner.OwnerPhoto,
		},
	}

	id, err := h.store.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product", "error": err.Error()})
		return
	}

	h.latest.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id.Hex()})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	matched, modified, err := h.store.UpdateOwned(c.Request.Context(), c.Param("id"), auth.UserEmail(c), req)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid crop id"})
	case errors.Is(err, domain.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update crop", "error": err.Error()})
	case matched == 0:
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized or crop not found"})
	default:
		h.latest.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "matchedCount": matched, "modifiedCount": modified})
	}
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.store.DeleteOwned(c.Request.Context(), c.Param("id"), auth.UserEmail(c))
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid crop id"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product", "error": err.Error()})
	case deleted == 0:
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized or crop not found"})
	default:
		h.latest.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": deleted})
	}
}

func (h *Handler) listLatest(c *gin.Context) {
	if products, ok := h.latest.Get(c.Request.Context()); ok {
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := h.store.Latest(c.Request.Context(), latestLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products", "error": err.Error()})
		return
	}

	h.latest.Set(c.Request.Context(), products)
	c.JSON(http.StatusOK, products)
}

func (h *Handler) myPosted(c *gin.Context) {
	products, err := h.store.ByOwner(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) search(c *gin.Context) {
	products, err := h.store.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch crops", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) submitInterest(c *gin.Context) {
	cropID := c.Param("id")

	var req submitInterestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
		return
	}

	in := &domain.Interest{
		ID:        primitive.NewObjectID(),
		CropID:    cropID,
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		Quantity:  req.Quantity,
		Message:   req.Message,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err := h.store.AddInterest(c.Request.Context(), cropID, in)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid crop id"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Crop not found"})
	case errors.Is(err, domain.ErrOwnInterest):
		c.JSON(http.StatusForbidden, gin.H{"message": "Owner cannot submit interest on their own crop"})
	case errors.Is(err, domain.ErrDuplicateInterest):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already sent an interest"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit interest", "error": err.Error()})
	default:
		// Interests are embedded in the cached product documents.
		h.latest.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "matchedCount": 1, "modifiedCount": 1, "insertedId": in.ID.Hex()})
	}
}

func (h *Handler) productInterests(c *gin.Context) {
	// Returns the full product including its embedded interests.
	h.get(c)
}

func (h *Handler) updateInterestStatus(c *gin.Context) {
	var req updateInterestStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}

	status := domain.Status(req.Status)
	if !domain.CanTransition(domain.StatusPending, status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status must be accepted or rejected"})
		return
	}

	modified, err := h.store.SetInterestStatus(c.Request.Context(), c.Param("id"), c.Param("interestId"), status)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
	case errors.Is(err, domain.ErrInterestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Interest not found"})
	case errors.Is(err, domain.ErrInterestDecided):
		c.JSON(http.StatusConflict, gin.H{"message": "Interest already decided"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update interest", "error": err.Error()})
	default:
		h.latest.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "modifiedCount": modified, "modifiedFields": []string{"status"}})
	}
}

func (h *Handler) myInterests(c *gin.Context) {
	interests, err := h.store.InterestsByUser(c.Request.Context(), c.Query("userEmail"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch interests", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, interests)
}
