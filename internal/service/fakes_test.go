package service

import (
	"context"
	"net/http"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	paymentgateway "github.com/alimikegami/e-commerce/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCategoryRepo struct {
	repository.CategoryRepository
	docs         []domain.Category
	total        int64
	countFilter  bson.M
	findFilter   bson.M
	findOpts     *options.FindOptions
	byID         map[string]domain.Category
	lookupScopes []bson.M
}

func (f *fakeCategoryRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	f.countFilter = filter
	return f.total, nil
}

func (f *fakeCategoryRepo) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Category, error) {
	f.findFilter = filter
	f.findOpts = opts
	return f.docs, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string, scope bson.M) (domain.Category, error) {
	f.lookupScopes = append(f.lookupScopes, scope)
	doc, ok := f.byID[id]
	if !ok {
		return doc, errs.ErrNotFound
	}
	return doc, nil
}

func (f *fakeCategoryRepo) DeleteByID(ctx context.Context, id string, scope bson.M) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products    map[primitive.ObjectID]domain.Product
	adjustments []repository.StockAdjustment
	adjustErr   error
	ratings     []ratingUpdate
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string, scope bson.M) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, errs.ErrInvalidID
	}
	p, ok := f.products[oid]
	if !ok {
		return p, errs.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) AdjustStock(ctx context.Context, items []repository.StockAdjustment) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.adjustments = append(f.adjustments, items...)
	return nil
}

type fakeCartRepo struct {
	repository.CartRepository
	carts   map[primitive.ObjectID]domain.Cart
	deleted []primitive.ObjectID
}

func (f *fakeCartRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) (domain.Cart, error) {
	for _, c := range f.carts {
		if c.User == userID {
			return c, nil
		}
	}
	return domain.Cart{}, errs.ErrCartNotFound
}

func (f *fakeCartRepo) FindByID(ctx context.Context, id string, scope bson.M) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Cart{}, errs.ErrInvalidID
	}
	c, ok := f.carts[oid]
	if !ok {
		return c, errs.ErrNotFound
	}
	if owner, ok := scope["user"]; ok && owner != c.User {
		return domain.Cart{}, errs.ErrNotFound
	}
	return c, nil
}

func (f *fakeCartRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	f.carts[cart.ID] = cart
	return cart, nil
}

func (f *fakeCartRepo) DeleteByID(ctx context.Context, id string, scope bson.M) error {
	oid, _ := primitive.ObjectIDFromHex(id)
	delete(f.carts, oid)
	f.deleted = append(f.deleted, oid)
	return nil
}

func (f *fakeCartRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	for id, c := range f.carts {
		if c.User == userID {
			delete(f.carts, id)
			f.deleted = append(f.deleted, id)
		}
	}
	return nil
}

type fakeCouponRepo struct {
	repository.CouponRepository
	coupons map[string]domain.Coupon
}

func (f *fakeCouponRepo) FindValidByName(ctx context.Context, name string, now time.Time) (domain.Coupon, error) {
	c, ok := f.coupons[name]
	if !ok || !c.IsValidAt(now) {
		return domain.Coupon{}, errs.ErrCouponInvalid
	}
	return c, nil
}

type fakeOrderRepo struct {
	repository.OrderRepository
	created []domain.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.ID = primitive.NewObjectID()
	f.created = append(f.created, order)
	return order, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users         map[primitive.ObjectID]domain.User
	resetCleared  []primitive.ObjectID
	passwordSetTo map[primitive.ObjectID]string
	lastUpdate    bson.M
	countFilter   bson.M
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string, scope bson.M) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, errs.ErrInvalidID
	}
	u, ok := f.users[oid]
	if !ok {
		return u, errs.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errs.ErrNotFound
}

func (f *fakeUserRepo) FindByResetCode(ctx context.Context, hashedCode string, now time.Time) (domain.User, error) {
	for _, u := range f.users {
		if u.PasswordResetCode == hashedCode && u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return u, nil
		}
	}
	return domain.User{}, errs.ErrNotFound
}

func (f *fakeUserRepo) SetResetCode(ctx context.Context, id primitive.ObjectID, hashedCode string, expires time.Time) error {
	u := f.users[id]
	verified := false
	u.PasswordResetCode = hashedCode
	u.PasswordResetExpires = &expires
	u.PasswordResetVerified = &verified
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) ClearResetCode(ctx context.Context, id primitive.ObjectID) error {
	u := f.users[id]
	u.PasswordResetCode = ""
	u.PasswordResetExpires = nil
	u.PasswordResetVerified = nil
	f.users[id] = u
	f.resetCleared = append(f.resetCleared, id)
	return nil
}

func (f *fakeUserRepo) MarkResetCodeVerified(ctx context.Context, id primitive.ObjectID) error {
	u := f.users[id]
	verified := true
	u.PasswordResetVerified = &verified
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string, changedAt time.Time) error {
	u := f.users[id]
	u.Password = hashedPassword
	u.PasswordChangedAt = &changedAt
	u.PasswordResetCode = ""
	u.PasswordResetExpires = nil
	u.PasswordResetVerified = nil
	f.users[id] = u
	if f.passwordSetTo == nil {
		f.passwordSetTo = map[primitive.ObjectID]string{}
	}
	f.passwordSetTo[id] = hashedPassword
	return nil
}

type fakeTrx struct {
	calls int
}

func (f *fakeTrx) HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type publishedEvent struct {
	EventType string
	Key       string
	Data      interface{}
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(ctx context.Context, eventType string, key string, data interface{}) error {
	f.events = append(f.events, publishedEvent{EventType: eventType, Key: key, Data: data})
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (f *fakeMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeGateway struct {
	requests  []paymentgateway.CheckoutRequest
	completed *paymentgateway.CompletedCheckout
	parseErr  error
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, req paymentgateway.CheckoutRequest) (paymentgateway.CheckoutSession, error) {
	f.requests = append(f.requests, req)
	return paymentgateway.CheckoutSession{ID: "cs_test", URL: "https://pay.example.com/cs_test"}, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, header http.Header) (*paymentgateway.CompletedCheckout, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.completed, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	var res []domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

type ratingUpdate struct {
	Product  primitive.ObjectID
	Average  float64
	Quantity int
}

func (f *fakeProductRepo) SetRatings(ctx context.Context, productID primitive.ObjectID, average float64, quantity int) error {
	f.ratings = append(f.ratings, ratingUpdate{Product: productID, Average: average, Quantity: quantity})
	return nil
}

type fakeReviewRepo struct {
	repository.ReviewRepository
	reviews map[primitive.ObjectID]domain.Review
}

func (f *fakeReviewRepo) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	review.ID = primitive.NewObjectID()
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewRepo) FindByID(ctx context.Context, id string, scope bson.M) (domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Review{}, errs.ErrInvalidID
	}
	r, ok := f.reviews[oid]
	if !ok {
		return r, errs.ErrNotFound
	}
	return r, nil
}

func (f *fakeReviewRepo) UpdateByID(ctx context.Context, id string, scope bson.M, fields bson.M) (domain.Review, error) {
	r, err := f.FindByID(ctx, id, scope)
	if err != nil {
		return r, err
	}
	if v, ok := fields["review"].(string); ok {
		r.Review = v
	}
	if v, ok := fields["rating"].(float64); ok {
		r.Rating = v
	}
	f.reviews[r.ID] = r
	return r, nil
}

func (f *fakeReviewRepo) DeleteByID(ctx context.Context, id string, scope bson.M) error {
	r, err := f.FindByID(ctx, id, scope)
	if err != nil {
		return err
	}
	delete(f.reviews, r.ID)
	return nil
}

func (f *fakeReviewRepo) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	for _, r := range f.reviews {
		if r.Product == productID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) AggregateRatings(ctx context.Context, productID primitive.ObjectID) (float64, int, error) {
	var sum float64
	var n int
	for _, r := range f.reviews {
		if r.Product == productID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

func (f *fakeUserRepo) UpdateByID(ctx context.Context, id string, scope bson.M, fields bson.M) (domain.User, error) {
	u, err := f.FindByID(ctx, id, scope)
	if err != nil {
		return u, err
	}
	f.lastUpdate = fields
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	if v, ok := fields["active"].(bool); ok {
		u.Active = v
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) (domain.User, error) {
	u := f.users[id]
	for _, p := range u.Wishlist {
		if p == productID {
			return u, nil
		}
	}
	u.Wishlist = append(u.Wishlist, productID)
	f.users[id] = u
	return u, nil
}

func (f *fakeUserRepo) AddAddress(ctx context.Context, id primitive.ObjectID, address domain.Address) (domain.User, error) {
	u := f.users[id]
	u.Addresses = append(u.Addresses, address)
	f.users[id] = u
	return u, nil
}

func (f *fakeUserRepo) ClearExpiredResetCodes(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64
	for id, u := range f.users {
		if u.PasswordResetExpires != nil && u.PasswordResetExpires.Before(now) {
			u.PasswordResetCode = ""
			u.PasswordResetExpires = nil
			f.users[id] = u
			cleared++
		}
	}
	return cleared, nil
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	var res []domain.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

type fakeTransformer struct {
	calls int
}

func (f *fakeTransformer) Transform(ctx context.Context, docs ...*domain.Product) error {
	f.calls++
	for _, doc := range docs {
		doc.ImageCover = "http://localhost:8000/products/" + doc.ImageCover
	}
	return nil
}

func (f *fakeCategoryRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Category, error) {
	var res []domain.Category
	for _, id := range ids {
		if c, ok := f.byID[id.Hex()]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

type fakeSubCategoryRepo struct {
	repository.SubCategoryRepository
	subcategories map[primitive.ObjectID]domain.SubCategory
}

func (f *fakeSubCategoryRepo) CountInCategory(ctx context.Context, ids []primitive.ObjectID, categoryID primitive.ObjectID) (int64, error) {
	seen := map[primitive.ObjectID]bool{}
	var count int64
	for _, id := range ids {
		if sc, ok := f.subcategories[id]; ok && sc.Category == categoryID && !seen[id] {
			seen[id] = true
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) UpdateByID(ctx context.Context, id string, scope bson.M, fields bson.M) (domain.Product, error) {
	p, err := f.FindByID(ctx, id, scope)
	if err != nil {
		return p, err
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := fields["priceAfterDiscount"].(float64); ok {
		p.PriceAfterDiscount = v
	}
	if v, ok := fields["category"].(primitive.ObjectID); ok {
		p.CategoryID = v
	}
	if v, ok := fields["subcategories"].([]primitive.ObjectID); ok {
		p.Subcategories = v
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	f.countFilter = filter
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.User, error) {
	res := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		res = append(res, u)
	}
	return res, nil
}
