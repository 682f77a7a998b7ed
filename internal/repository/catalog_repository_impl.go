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

type MongoDBCategoryRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Category]
}

func CreateNewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &MongoDBCategoryRepositoryImpl{CreateNewMongoDBRepository[domain.Category](db, CollectionCategories)}
}

func (r *MongoDBCategoryRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.Category, err error) {
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

type MongoDBSubCategoryRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.SubCategory]
}

func CreateNewSubCategoryRepository(db *mongo.Database) SubCategoryRepository {
	return &MongoDBSubCategoryRepositoryImpl{CreateNewMongoDBRepository[domain.SubCategory](db, CollectionSubCategories)}
}

func (r *MongoDBSubCategoryRepositoryImpl) CountInCategory(ctx context.Context, ids []primitive.ObjectID, categoryID primitive.ObjectID) (count int64, err error) {
	return r.Count(ctx, bson.M{"_id": bson.M{"$in": ids}, "category": categoryID})
}

type MongoDBProductRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Product]
}

func CreateNewProductRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{CreateNewMongoDBRepository[domain.Product](db, CollectionProducts)}
}

func (r *MongoDBProductRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (res []domain.Product, err error) {
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// AdjustStock decrements quantity and increments sold for each line in one bulk write.
// There is no floor on quantity.
func (r *MongoDBProductRepositoryImpl) AdjustStock(ctx context.Context, items []StockAdjustment) (err error) {
	if len(items) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.ProductID}).
			SetUpdate(bson.M{"$inc": bson.M{"quantity": -item.Quantity, "sold": item.Quantity}}))
	}

	_, err = r.coll().BulkWrite(ctx, models)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AdjustStock").Msg("")
	}

	return
}

func (r *MongoDBProductRepositoryImpl) SetRatings(ctx context.Context, productID primitive.ObjectID, average float64, quantity int) (err error) {
	update := bson.M{"$set": bson.M{"ratingsAverage": average, "ratingsQuantity": quantity}}
	if quantity == 0 {
		update = bson.M{"$set": bson.M{"ratingsQuantity": 0}, "$unset": bson.M{"ratingsAverage": ""}}
	}

	return r.updateOne(ctx, "SetRatings", productID, update)
}

type MongoDBCouponRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Coupon]
}

func CreateNewCouponRepository(db *mongo.Database) CouponRepository {
	return &MongoDBCouponRepositoryImpl{CreateNewMongoDBRepository[domain.Coupon](db, CollectionCoupons)}
}

func (r *MongoDBCouponRepositoryImpl) FindValidByName(ctx context.Context, name string, now time.Time) (res domain.Coupon, err error) {
	filter := bson.M{"name": name, "expire": bson.M{"$gt": now}}

	err = r.coll().FindOne(ctx, filter).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrCouponInvalid
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "FindValidByName").Msg("")
	}

	return
}

type MongoDBReviewRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Review]
}

func CreateNewReviewRepository(db *mongo.Database) ReviewRepository {
	return &MongoDBReviewRepositoryImpl{CreateNewMongoDBRepository[domain.Review](db, CollectionReviews)}
}

func (r *MongoDBReviewRepositoryImpl) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (exists bool, err error) {
	count, err := r.Count(ctx, bson.M{"product": productID, "user": userID})
	return count > 0, err
}

func (r *MongoDBReviewRepositoryImpl) FindByProduct(ctx context.Context, productID primitive.ObjectID) (res []domain.Review, err error) {
	return r.Find(ctx, bson.M{"product": productID}, nil)
}

func (r *MongoDBReviewRepositoryImpl) AggregateRatings(ctx context.Context, productID primitive.ObjectID) (average float64, quantity int, err error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$product",
			"avgRatings":      bson.M{"$avg": "$rating"},
			"ratingsQuantity": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AggregateRatings").Msg("")
		return
	}

	var result []struct {
		AvgRatings      float64 `bson:"avgRatings"`
		RatingsQuantity int     `bson:"ratingsQuantity"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AggregateRatings").Msg("")
		return
	}

	if len(result) == 0 {
		return 0, 0, nil
	}

	return result[0].AvgRatings, result[0].RatingsQuantity, nil
}

type MongoDBOrderRepositoryImpl struct {
	*MongoDBRepositoryImpl[domain.Order]
}

func CreateNewOrderRepository(db *mongo.Database) OrderRepository {
	return &MongoDBOrderRepositoryImpl{CreateNewMongoDBRepository[domain.Order](db, CollectionOrders)}
}
