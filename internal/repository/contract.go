package repository

import (
	"context"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository is the capability every stored entity offers to the generic service.
// scope narrows id lookups further, nil or empty means no restriction.
type Repository[T any] interface {
	Create(ctx context.Context, data T) (res T, err error)
	FindByID(ctx context.Context, id string, scope bson.M) (res T, err error)
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) (res []T, err error)
	Count(ctx context.Context, filter bson.M) (count int64, err error)
	UpdateByID(ctx context.Context, id string, scope bson.M, fields bson.M) (res T, err error)
	DeleteByID(ctx context.Context, id string, scope bson.M) (err error)
}

type TransactionManager interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error
}

type StockAdjustment struct {
	ProductID primitive.ObjectID
	Quantity  int
}

type ProductRepository interface {
	Repository[domain.Product]
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.Product, err error)
	AdjustStock(ctx context.Context, items []StockAdjustment) (err error)
	SetRatings(ctx context.Context, productID primitive.ObjectID, average float64, quantity int) (err error)
}

type CategoryRepository interface {
	Repository[domain.Category]
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.Category, err error)
}

type SubCategoryRepository interface {
	Repository[domain.SubCategory]
	CountInCategory(ctx context.Context, ids []primitive.ObjectID, categoryID primitive.ObjectID) (count int64, err error)
}

type CouponRepository interface {
	Repository[domain.Coupon]
	FindValidByName(ctx context.Context, name string, now time.Time) (res domain.Coupon, err error)
}

type ReviewRepository interface {
	Repository[domain.Review]
	ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (exists bool, err error)
	AggregateRatings(ctx context.Context, productID primitive.ObjectID) (average float64, quantity int, err error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) (res []domain.Review, err error)
}

type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (res domain.User, err error)
	FindByResetCode(ctx context.Context, hashedCode string, now time.Time) (res domain.User, err error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.User, err error)
	SetResetCode(ctx context.Context, id primitive.ObjectID, hashedCode string, expires time.Time) (err error)
	ClearResetCode(ctx context.Context, id primitive.ObjectID) (err error)
	MarkResetCodeVerified(ctx context.Context, id primitive.ObjectID) (err error)
	ClearExpiredResetCodes(ctx context.Context, now time.Time) (cleared int64, err error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string, changedAt time.Time) (err error)
	AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) (res domain.User, err error)
	RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) (res domain.User, err error)
	AddAddress(ctx context.Context, id primitive.ObjectID, address domain.Address) (res domain.User, err error)
	RemoveAddress(ctx context.Context, id, addressID primitive.ObjectID) (res domain.User, err error)
}

type CartRepository interface {
	Repository[domain.Cart]
	FindByUser(ctx context.Context, userID primitive.ObjectID) (res domain.Cart, err error)
	Save(ctx context.Context, cart domain.Cart) (res domain.Cart, err error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (err error)
}

type OrderRepository interface {
	Repository[domain.Order]
}
