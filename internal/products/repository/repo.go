package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

// Repo handles MongoDB operations on the products collection. Interests are
// embedded in product documents, so every interest mutation is a single
// atomic document update.
type Repo struct {
	col *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{col: db.Collection("products")}
}

func (r *Repo) List(ctx context.Context) ([]domain.Product, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var p domain.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// Create inserts a new listing. The creation timestamp is set server-side
// and the interest list starts empty.
func (r *Repo) Create(ctx context.Context, p *domain.Product) (primitive.ObjectID, error) {
	p.CreatedAt = time.Now().UTC()
	if p.Interests == nil {
		p.Interests = []domain.Interest{}
	}

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert product: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// UpdateOwned applies the given fields to the product, but only when
// ownerEmail matches the embedded owner. The ownership check is part of the
// selection filter, so a non-owner's request matches zero documents.
func (r *Repo) UpdateOwned(ctx context.Context, id, ownerEmail string, u domain.ProductUpdate) (matched, modified int64, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, domain.ErrInvalidID
	}

	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Quantity != nil {
		set["quantity"] = *u.Quantity
	}
	if u.Unit != nil {
		set["unit"] = *u.Unit
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if len(set) == 0 {
		return 0, 0, domain.ErrEmptyUpdate
	}

	filter := bson.M{"_id": oid, "owner.ownerEmail": ownerEmail}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, 0, fmt.Errorf("update product: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// DeleteOwned removes the product only when ownerEmail matches.
func (r *Repo) DeleteOwned(ctx context.Context, id, ownerEmail string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "owner.ownerEmail": ownerEmail})
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount, nil
}

// Latest returns the most recently created listings, newest first.
func (r *Repo) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *Repo) ByOwner(ctx context.Context, ownerEmail string) ([]domain.Product, error) {
	return r.find(ctx, bson.M{"owner.ownerEmail": ownerEmail}, nil)
}

// Search does a case-insensitive substring match on the product name.
// An empty term returns everything. The term is quoted so regex
// metacharacters match literally instead of erroring in the store.
func (r *Repo) Search(ctx context.Context, term string) ([]domain.Product, error) {
	filter := bson.M{}
	if term != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
	}
	return r.find(ctx, filter, nil)
}

// AddInterest appends the interest in one guarded update: the filter only
// matches when the product exists, the submitter is not the owner, and no
// interest from this email is already embedded. Two concurrent submissions
// from the same email cannot both match.
func (r *Repo) AddInterest(ctx context.Context, cropID string, in *domain.Interest) error {
	oid, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return domain.ErrInvalidID
	}

	filter := bson.M{
		"_id":                 oid,
		"owner.ownerEmail":    bson.M{"$ne": in.UserEmail},
		"interests.userEmail": bson.M{"$ne": in.UserEmail},
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"interests": in}})
	if err != nil {
		return fmt.Errorf("push interest: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The guard rejected the append; a follow-up read classifies why.
	crop, err := r.Get(ctx, cropID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if crop.Owner.OwnerEmail == in.UserEmail {
		return domain.ErrOwnInterest
	}
	return domain.ErrDuplicateInterest
}

// SetInterestStatus decides a pending interest. The elemMatch guard keeps
// decided interests terminal: re-deciding matches zero documents.
func (r *Repo) SetInterestStatus(ctx context.Context, cropID, interestID string, status domain.Status) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(cropID)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	ioid, err := primitive.ObjectIDFromHex(interestID)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	filter := bson.M{
		"_id": oid,
		"interests": bson.M{"$elemMatch": bson.M{
			"_id":    ioid,
			"status": domain.StatusPending,
		}},
	}
	update := bson.M{"$set": bson.M{"interests.$.status": status}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("update interest status: %w", err)
	}
	if res.MatchedCount > 0 {
		return res.ModifiedCount, nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid, "interests._id": ioid})
	if err != nil {
		return 0, fmt.Errorf("lookup interest: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrInterestNotFound
	}
	return 0, domain.ErrInterestDecided
}

// InterestsByUser projects, across all products, the single interest the
// given email submitted on each, via an $elemMatch projection.
func (r *Repo) InterestsByUser(ctx context.Context, userEmail string) ([]domain.UserInterest, error) {
	opts := options.Find().SetProjection(bson.M{
		"name":      1,
		"interests": bson.M{"$elemMatch": bson.M{"userEmail": userEmail}},
	})

	cur, err := r.col.Find(ctx, bson.M{"interests.userEmail": userEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("find interests: %w", err)
	}

	var crops []domain.Product
	if err := cur.All(ctx, &crops); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}

	out := []domain.UserInterest{}
	for _, crop := range crops {
		if len(crop.Interests) == 0 {
			continue
		}
		out = append(out, domain.UserInterest{
			CropID:   crop.ID,
			CropName: crop.Name,
			Interest: crop.Interests[0],
		})
	}
	return out, nil
}

func (r *Repo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Product, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}
