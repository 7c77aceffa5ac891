package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishilink/krishilink-backend/internal/cache"
	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

func newTestCache(t *testing.T) *cache.LatestProducts {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewLatestProducts(client, time.Minute)
}

func TestLatestProducts_ServedFromCache(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "Rice", farmerEmail, time.Now())
	r := newTestRouter(store, newTestCache(t))

	w := doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Mutate the store behind the cache's back: the cached list must win.
	seedProduct(store, "Wheat", farmerEmail, time.Now())

	w = doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1, "second read must come from the cache")
}

func TestLatestProducts_InvalidatedByMutation(t *testing.T) {
	store := newFakeStore()
	seedProduct(store, "Rice", farmerEmail, time.Now())
	r := newTestRouter(store, newTestCache(t))

	w := doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/products", "farmer-token", map[string]interface{}{
		"name": "Wheat",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 2, "creating a product must invalidate the cached list")
}

func TestLatestProducts_InvalidatedByInterestSubmission(t *testing.T) {
	store := newFakeStore()
	id := seedProduct(store, "Rice", farmerEmail, time.Now())
	r := newTestRouter(store, newTestCache(t))

	w := doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/products/"+id+"/interests", "buyer-token", map[string]interface{}{
		"userEmail": buyerEmail,
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Interests are embedded in the cached documents, so the submission
	// must show up on the next read.
	w = doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Len(t, products[0].Interests, 1)
	assert.Equal(t, buyerEmail, products[0].Interests[0].UserEmail)
}

func TestLatestProducts_InvalidatedByInterestDecision(t *testing.T) {
	store := newFakeStore()
	id := seedProduct(store, "Rice", farmerEmail, time.Now())
	r := newTestRouter(store, newTestCache(t))

	w := doJSON(t, r, http.MethodPost, "/products/"+id+"/interests", "buyer-token", map[string]interface{}{
		"userEmail": buyerEmail,
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	interestID := store.products[id].Interests[0].ID.Hex()

	w = doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/products/"+id+"/interests/"+interestID, "farmer-token", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/latest-products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Len(t, products[0].Interests, 1)
	assert.Equal(t, domain.StatusAccepted, products[0].Interests[0].Status)
}
