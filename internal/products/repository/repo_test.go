package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

// setupTestMongo connects to a test MongoDB.
// Skips the test if TEST_MONGO_URI is not set.
func setupTestMongo(t *testing.T) *mongo.Database {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(fmt.Sprintf("krishilink_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	return db
}

func seedCrop(t *testing.T, repo *Repo, name, ownerEmail string) string {
	t.Helper()

	id, err := repo.Create(context.Background(), &domain.Product{
		Name:  name,
		Owner: domain.Owner{OwnerName: "Owner", OwnerEmail: ownerEmail},
	})
	require.NoError(t, err)
	return id.Hex()
}

func submit(repo *Repo, cropID, email string, qty int) (*domain.Interest, error) {
	in := &domain.Interest{
		ID:        primitive.NewObjectID(),
		CropID:    cropID,
		UserEmail: email,
		UserName:  "Buyer",
		Quantity:  qty,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	return in, repo.AddInterest(context.Background(), cropID, in)
}

func TestAddInterest_GuardedAppend(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	cropID := seedCrop(t, repo, "Rice", "farmer@x.com")

	t.Run("unknown crop", func(t *testing.T) {
		_, err := submit(repo, primitive.NewObjectID().Hex(), "buyer@x.com", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("owner self-submission", func(t *testing.T) {
		_, err := submit(repo, cropID, "farmer@x.com", 1)
		assert.ErrorIs(t, err, domain.ErrOwnInterest)

		crop, err := repo.Get(ctx, cropID)
		require.NoError(t, err)
		assert.Empty(t, crop.Interests)
	})

	t.Run("first submission appends, second conflicts", func(t *testing.T) {
		first, err := submit(repo, cropID, "buyer@x.com", 3)
		require.NoError(t, err)

		_, err = submit(repo, cropID, "buyer@x.com", 5)
		assert.ErrorIs(t, err, domain.ErrDuplicateInterest)

		crop, err := repo.Get(ctx, cropID)
		require.NoError(t, err)
		require.Len(t, crop.Interests, 1)
		assert.Equal(t, first.ID, crop.Interests[0].ID)
		assert.Equal(t, 3, crop.Interests[0].Quantity)
		assert.Equal(t, domain.StatusPending, crop.Interests[0].Status)
	})
}

func TestSetInterestStatus(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	cropID := seedCrop(t, repo, "Rice", "farmer@x.com")
	in, err := submit(repo, cropID, "buyer@x.com", 2)
	require.NoError(t, err)

	t.Run("unknown pair", func(t *testing.T) {
		_, err := repo.SetInterestStatus(ctx, cropID, primitive.NewObjectID().Hex(), domain.StatusAccepted)
		assert.ErrorIs(t, err, domain.ErrInterestNotFound)

		_, err = repo.SetInterestStatus(ctx, primitive.NewObjectID().Hex(), in.ID.Hex(), domain.StatusAccepted)
		assert.ErrorIs(t, err, domain.ErrInterestNotFound)
	})

	t.Run("decides a pending interest once", func(t *testing.T) {
		modified, err := repo.SetInterestStatus(ctx, cropID, in.ID.Hex(), domain.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, int64(1), modified)

		crop, err := repo.Get(ctx, cropID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, crop.Interests[0].Status)

		_, err = repo.SetInterestStatus(ctx, cropID, in.ID.Hex(), domain.StatusRejected)
		assert.ErrorIs(t, err, domain.ErrInterestDecided)
	})
}

func TestUpdateOwned_QueryPredicate(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	cropID := seedCrop(t, repo, "Rice", "farmer@x.com")
	newName := "Brown Rice"

	matched, _, err := repo.UpdateOwned(ctx, cropID, "intruder@x.com", domain.ProductUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Zero(t, matched, "non-owner must match zero documents")

	crop, err := repo.Get(ctx, cropID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", crop.Name)

	matched, modified, err := repo.UpdateOwned(ctx, cropID, "farmer@x.com", domain.ProductUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	assert.Equal(t, int64(1), modified)

	_, _, err = repo.UpdateOwned(ctx, cropID, "farmer@x.com", domain.ProductUpdate{})
	assert.ErrorIs(t, err, domain.ErrEmptyUpdate)
}

func TestDeleteOwned_QueryPredicate(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	cropID := seedCrop(t, repo, "Rice", "farmer@x.com")

	deleted, err := repo.DeleteOwned(ctx, cropID, "intruder@x.com")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repo.DeleteOwned(ctx, cropID, "farmer@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(ctx, cropID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatestAndSearch(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		seedCrop(t, repo, fmt.Sprintf("Crop %d", i), "farmer@x.com")
	}
	seedCrop(t, repo, "Rice", "farmer@x.com")
	seedCrop(t, repo, "Wheat", "farmer@x.com")

	latest, err := repo.Latest(ctx, 6)
	require.NoError(t, err)
	require.Len(t, latest, 6)
	for i := 1; i < len(latest); i++ {
		assert.False(t, latest[i].CreatedAt.After(latest[i-1].CreatedAt))
	}

	found, err := repo.Search(ctx, "ri")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rice", found[0].Name)

	// Regex metacharacters in the term match literally.
	found, err = repo.Search(ctx, "rice (premium)")
	require.NoError(t, err)
	assert.Empty(t, found)

	seedCrop(t, repo, "Rice (Premium)", "farmer@x.com")
	found, err = repo.Search(ctx, "rice (premium)")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rice (Premium)", found[0].Name)
}

func TestInterestsByUser_Projection(t *testing.T) {
	repo := NewRepo(setupTestMongo(t))
	ctx := context.Background()

	rice := seedCrop(t, repo, "Rice", "farmer@x.com")
	wheat := seedCrop(t, repo, "Wheat", "other@x.com")

	_, err := submit(repo, rice, "buyer@x.com", 1)
	require.NoError(t, err)
	_, err = submit(repo, rice, "third@x.com", 2)
	require.NoError(t, err)
	_, err = submit(repo, wheat, "buyer@x.com", 4)
	require.NoError(t, err)

	out, err := repo.InterestsByUser(ctx, "buyer@x.com")
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, ui := range out {
		assert.Equal(t, "buyer@x.com", ui.Interest.UserEmail, "only the matching element may be projected")
		assert.NotEmpty(t, ui.CropName)
	}
}
