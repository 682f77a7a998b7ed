package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type SubCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Category  primitive.ObjectID `bson:"category" json:"category"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type Brand struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type CategorySummary struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name,omitempty"`
}

// Product keeps its category reference in CategoryID; Category is only filled on load.
type Product struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title              string               `bson:"title" json:"title"`
	Slug               string               `bson:"slug" json:"slug"`
	Description        string               `bson:"description" json:"description"`
	Quantity           int                  `bson:"quantity" json:"quantity"`
	Sold               int                  `bson:"sold" json:"sold"`
	Price              float64              `bson:"price" json:"price"`
	PriceAfterDiscount float64              `bson:"priceAfterDiscount,omitempty" json:"priceAfterDiscount,omitempty"`
	Colors             []string             `bson:"colors,omitempty" json:"colors,omitempty"`
	ImageCover         string               `bson:"imageCover" json:"imageCover"`
	Images             []string             `bson:"images,omitempty" json:"images,omitempty"`
	CategoryID         primitive.ObjectID   `bson:"category" json:"-"`
	Category           *CategorySummary     `bson:"-" json:"category,omitempty"`
	Subcategories      []primitive.ObjectID `bson:"subcategories,omitempty" json:"subcategories,omitempty"`
	Brand              *primitive.ObjectID  `bson:"brand,omitempty" json:"brand,omitempty"`
	RatingsAverage     float64              `bson:"ratingsAverage,omitempty" json:"ratingsAverage,omitempty"`
	RatingsQuantity    int                  `bson:"ratingsQuantity" json:"ratingsQuantity"`
	Reviews            []Review             `bson:"-" json:"reviews,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type Coupon struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Expire    time.Time          `bson:"expire" json:"expire"`
	Discount  float64            `bson:"discount" json:"discount"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

func (c Coupon) IsValidAt(t time.Time) bool {
	return c.Expire.After(t)
}
