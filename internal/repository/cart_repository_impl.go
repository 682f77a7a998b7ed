package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoDBCartRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Cart]
}

func CreateNewCartRepository(db *mongo.Database) CartRepository {
	return &MongoDBCartRepositoryImpl{CreateNewMongoDBRepository[domain.Cart](db, CollectionCarts)}
}

func (r *MongoDBCartRepositoryImpl) FindByUser(ctx context.Context, userID primitive.ObjectID) (res domain.Cart, err error) {
	err = r.coll().FindOne(ctx, bson.M{"user": userID}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrCartNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "FindByUser").Msg("")
	}

	return
}

// Save inserts a new cart or overwrites items and totals of an existing one.
func (r *MongoDBCartRepositoryImpl) Save(ctx context.Context, cart domain.Cart) (res domain.Cart, err error) {
	if cart.ID.IsZero() {
		return r.Create(ctx, cart)
	}

	set := bson.M{
		"cartItems":      cart.CartItems,
		"totalCartPrice": cart.TotalCartPrice,
		"updatedAt":      time.Now(),
	}
	update := bson.M{"$set": set}
	if cart.TotalPriceAfterDiscount != nil {
		set["totalPriceAfterDiscount"] = *cart.TotalPriceAfterDiscount
	} else {
		update["$unset"] = bson.M{"totalPriceAfterDiscount": ""}
	}

	return r.findOneAndUpdate(ctx, "SaveCart", cart.ID, update)
}

func (r *MongoDBCartRepositoryImpl) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (err error) {
	_, err = r.coll().DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteByUser").Msg("")
	}

	return
}
