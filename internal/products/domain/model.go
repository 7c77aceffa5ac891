package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner is embedded in a product; ownerEmail is the identity every
// owner-gated mutation is checked against.
type Owner struct {
	OwnerName  string `bson:"ownerName" json:"ownerName"`
	OwnerEmail string `bson:"ownerEmail" json:"ownerEmail"`
	OwnerPhoto string `bson:"ownerPhoto,omitempty" json:"ownerPhoto,omitempty"`
}

// Product is a crop listing. Interests are embedded so a submission is a
// single-document mutation.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	Quantity    int                `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit        string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Owner       Owner              `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	Interests   []Interest         `bson:"interests" json:"interests"`
}

// Interest is a buyer's expression of intent on a product. At most one per
// submitter email may exist on a product, and the owner may never submit one.
type Interest struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	CropID    string             `bson:"cropId" json:"cropId"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	UserName  string             `bson:"userName" json:"userName"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    Status             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProductUpdate carries the owner-editable listing fields. Nil fields are
// left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Location    *string  `json:"location,omitempty"`
}

// UserInterest is the /my-interests projection: one interest per product
// the user has submitted on, with just enough of the parent to render it.
type UserInterest struct {
	CropID   primitive.ObjectID `json:"cropId"`
	CropName string             `json:"cropName"`
	Interest Interest           `json:"interest"`
}
