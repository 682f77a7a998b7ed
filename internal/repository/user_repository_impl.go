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

var resetFields = bson.M{"passwordResetCode": "", "passwordResetExpires": "", "passwordResetVerified": ""}

type MongoDBUserRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.User]
}

func CreateNewUserRepository(db *mongo.Database) UserRepository {
	return &MongoDBUserRepositoryImpl{CreateNewMongoDBRepository[domain.User](db, CollectionUsers)}
}

func (r *MongoDBUserRepositoryImpl) FindByEmail(ctx context.Context, email string) (res domain.User, err error) {
	return r.findOne(ctx, "FindByEmail", bson.M{"email": email})
}

func (r *MongoDBUserRepositoryImpl) FindByResetCode(ctx context.Context, hashedCode string, now time.Time) (res domain.User, err error) {
	return r.findOne(ctx, "FindByResetCode", bson.M{
		"passwordResetCode":    hashedCode,
		"passwordResetExpires": bson.M{"$gt": now},
	})
}

func (r *MongoDBUserRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.User, err error) {
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *MongoDBUserRepositoryImpl) SetResetCode(ctx context.Context, id primitive.ObjectID, hashedCode string, expires time.Time) (err error) {
	return r.updateOne(ctx, "SetResetCode", id, bson.M{"$set": bson.M{
		"passwordResetCode":     hashedCode,
		"passwordResetExpires":  expires,
		"passwordResetVerified": false,
	}})
}

func (r *MongoDBUserRepositoryImpl) ClearResetCode(ctx context.Context, id primitive.ObjectID) (err error) {
	return r.updateOne(ctx, "ClearResetCode", id, bson.M{"$unset": resetFields})
}

func (r *MongoDBUserRepositoryImpl) MarkResetCodeVerified(ctx context.Context, id primitive.ObjectID) (err error) {
	return r.updateOne(ctx, "MarkResetCodeVerified", id, bson.M{"$set": bson.M{"passwordResetVerified": true}})
}

func (r *MongoDBUserRepositoryImpl) ClearExpiredResetCodes(ctx context.Context, now time.Time) (cleared int64, err error) {
	result, err := r.coll().UpdateMany(ctx,
		bson.M{"passwordResetExpires": bson.M{"$lte": now}},
		bson.M{"$unset": resetFields},
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ClearExpiredResetCodes").Msg("")
		return
	}

	return result.ModifiedCount, nil
}

func (r *MongoDBUserRepositoryImpl) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string, changedAt time.Time) (err error) {
	return r.updateOne(ctx, "UpdatePassword", id, bson.M{
		"$set":   bson.M{"password": hashedPassword, "passwordChangedAt": changedAt, "updatedAt": changedAt},
		"$unset": resetFields,
	})
}

func (r *MongoDBUserRepositoryImpl) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) (res domain.User, err error) {
	return r.findOneAndUpdate(ctx, "AddToWishlist", id, bson.M{"$addToSet": bson.M{"wishlist": productID}})
}

func (r *MongoDBUserRepositoryImpl) RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) (res domain.User, err error) {
	return r.findOneAndUpdate(ctx, "RemoveFromWishlist", id, bson.M{"$pull": bson.M{"wishlist": productID}})
}

func (r *MongoDBUserRepositoryImpl) AddAddress(ctx context.Context, id primitive.ObjectID, address domain.Address) (res domain.User, err error) {
	return r.findOneAndUpdate(ctx, "AddAddress", id, bson.M{"$addToSet": bson.M{"addresses": address}})
}

func (r *MongoDBUserRepositoryImpl) RemoveAddress(ctx context.Context, id, addressID primitive.ObjectID) (res domain.User, err error) {
	return r.findOneAndUpdate(ctx, "RemoveAddress", id, bson.M{"$pull": bson.M{"addresses": bson.M{"_id": addressID}}})
}

func (r *MongoDBUserRepositoryImpl) findOne(ctx context.Context, component string, filter bson.M) (res domain.User, err error) {
	err = r.coll().FindOne(ctx, filter).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
	}

	return
}
