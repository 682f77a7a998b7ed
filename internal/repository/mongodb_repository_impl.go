package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionCategories    = "categories"
	CollectionSubCategories = "subcategories"
	CollectionBrands        = "brands"
	CollectionProducts      = "products"
	CollectionCoupons       = "coupons"
	CollectionUsers         = "users"
	CollectionReviews       = "reviews"
	CollectionCarts         = "carts"
	CollectionOrders        = "orders"
)

type MongoDBRepositoryImpl[T any] struct {
	db         *mongo.Database
	collection string
}

func CreateNewMongoDBRepository[T any](db *mongo.Database, collection string) *MongoDBRepositoryImpl[T] {
	return &MongoDBRepositoryImpl[T]{db: db, collection: collection}
}

func (r *MongoDBRepositoryImpl[T]) coll() *mongo.Collection {
	return r.db.Collection(r.collection)
}

func (r *MongoDBRepositoryImpl[T]) Create(ctx context.Context, data T) (res T, err error) {
	doc, err := toDocument(data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Create").Str("collection", r.collection).Msg("")
		return
	}

	now := time.Now()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := r.coll().InsertOne(ctx, doc)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Create").Str("collection", r.collection).Msg("")
		if mongo.IsDuplicateKeyError(err) {
			return res, errs.ErrDuplicateName
		}
		return
	}

	err = r.coll().FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&res)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Create").Str("collection", r.collection).Msg("")
	}

	return
}

func (r *MongoDBRepositoryImpl[T]) FindByID(ctx context.Context, id string, scope bson.M) (res T, err error) {
	filter, err := idFilter(ctx, id, scope)
	if err != nil {
		return
	}

	err = r.coll().FindOne(ctx, filter).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "FindByID").Str("collection", r.collection).Msg("")
	}

	return
}

func (r *MongoDBRepositoryImpl[T]) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) (res []T, err error) {
	if filter == nil {
		filter = bson.M{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Find").Str("collection", r.collection).Msg("")
		return
	}

	res = []T{}
	if err = cursor.All(ctx, &res); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Find").Str("collection", r.collection).Msg("")
		return nil, err
	}

	return res, nil
}

func (r *MongoDBRepositoryImpl[T]) Count(ctx context.Context, filter bson.M) (count int64, err error) {
	if filter == nil {
		filter = bson.M{}
	}

	count, err = r.coll().CountDocuments(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Count").Str("collection", r.collection).Msg("")
	}

	return
}

func (r *MongoDBRepositoryImpl[T]) UpdateByID(ctx context.Context, id string, scope bson.M, fields bson.M) (res T, err error) {
	filter, err := idFilter(ctx, id, scope)
	if err != nil {
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.coll().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateByID").Str("collection", r.collection).Msg("")
		if mongo.IsDuplicateKeyError(err) {
			return res, errs.ErrDuplicateName
		}
	}

	return
}

func (r *MongoDBRepositoryImpl[T]) DeleteByID(ctx context.Context, id string, scope bson.M) (err error) {
	filter, err := idFilter(ctx, id, scope)
	if err != nil {
		return
	}

	result, err := r.coll().DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteByID").Str("collection", r.collection).Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// findOneAndUpdate applies update to the document with id and returns it after the change.
func (r *MongoDBRepositoryImpl[T]) findOneAndUpdate(ctx context.Context, component string, id primitive.ObjectID, update bson.M) (res T, err error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return res, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
	}

	return
}

func (r *MongoDBRepositoryImpl[T]) updateOne(ctx context.Context, component string, id primitive.ObjectID, update bson.M) (err error) {
	result, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func idFilter(ctx context.Context, id string, scope bson.M) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("component", "idFilter").Str("id", id).Msg("")
		return nil, errs.ErrInvalidID
	}

	filter := bson.M{"_id": objectID}
	for k, v := range scope {
		filter[k] = v
	}
	return filter, nil
}

func toDocument(v interface{}) (doc bson.M, err error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}

	err = bson.Unmarshal(raw, &doc)
	return
}

// ToSetFields converts a partial update struct (pointer fields with omitempty) into $set fields.
func ToSetFields(v interface{}) (bson.M, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = bson.M{}
	}
	return doc, nil
}

type MongoDBTransactionManager struct {
	db      *mongo.Database
	enabled bool
}

func CreateNewTransactionManager(db *mongo.Database, enabled bool) *MongoDBTransactionManager {
	return &MongoDBTransactionManager{db: db, enabled: enabled}
}

// HandleTrx runs fn inside a mongo transaction. Standalone servers cannot run transactions,
// so with transactions disabled fn runs directly against ctx.
func (m *MongoDBTransactionManager) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.enabled {
		return fn(ctx)
	}

	session, err := m.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := fn(sessCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		}
		return nil, err
	})

	return err
}
