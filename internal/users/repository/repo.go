package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/krishilink/krishilink-backend/internal/users/domain"
)

// Repo handles MongoDB operations on the users collection.
type Repo struct {
	col *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{col: db.Collection("users")}
}

func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := []domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var u domain.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, u *domain.User) (primitive.ObjectID, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// Update sets the editable profile fields and reports how many documents
// matched and were modified.
func (r *Repo) Update(ctx context.Context, id string, p domain.ProfileUpdate) (matched, modified int64, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, domain.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"name":  p.Name,
		"email": p.Email,
		"photo": p.Photo,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return 0, 0, fmt.Errorf("update user: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}
