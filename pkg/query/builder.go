// Package query turns listing query-string parameters into mongo filters and find options.
package query

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alimikegami/e-commerce/pkg/dto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 1000
	MaxPage      = math.MaxInt32
)

var (
	reservedKeys = map[string]bool{"page": true, "sort": true, "limit": true, "fields": true, "keyword": true}

	// repeated values for these fields are matched with $in, others keep the last value
	multiValueFields = map[string]bool{"price": true, "sold": true, "quantity": true, "ratingsAverage": true, "ratingsQuantity": true}

	// equality values are only converted for fields stored as numbers or booleans
	numericFields = map[string]bool{
		"price": true, "priceAfterDiscount": true, "sold": true, "quantity": true, "ratingsAverage": true,
		"ratingsQuantity": true, "rating": true, "discount": true, "totalOrderPrice": true,
	}
	boolFields = map[string]bool{"isPaid": true, "isDelivered": true, "active": true}

	fieldPattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)
	operatorPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\[(gte|gt|lte|lt)\]$`)
)

type Builder struct {
	params     map[string][]string
	conditions []bson.M
	findOpts   *options.FindOptions
	pagination dto.PaginationResult
}

// NewBuilder starts from base, usually the scope injected by a nested route.
func NewBuilder(base bson.M, params map[string][]string) *Builder {
	b := &Builder{params: params, findOpts: options.Find()}
	if len(base) > 0 {
		b.conditions = append(b.conditions, base)
	}
	return b
}

func (b *Builder) Filter() *Builder {
	keys := make([]string, 0, len(b.params))
	for key := range b.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filter := bson.M{}
	for _, key := range keys {
		values := b.params[key]
		if reservedKeys[key] || len(values) == 0 {
			continue
		}

		if m := operatorPattern.FindStringSubmatch(key); m != nil {
			field := m[1]
			if !fieldPattern.MatchString(field) {
				continue
			}
			ops, ok := filter[field].(bson.M)
			if !ok {
				if _, isEquality := filter[field]; isEquality {
					continue
				}
				ops = bson.M{}
			}
			ops["$"+m[2]] = parseValue(values[len(values)-1])
			filter[field] = ops
			continue
		}

		if !fieldPattern.MatchString(key) {
			continue
		}

		if len(values) > 1 && multiValueFields[key] {
			in := make(bson.A, 0, len(values))
			for _, v := range values {
				in = append(in, equalityValue(key, v))
			}
			filter[key] = bson.M{"$in": in}
			continue
		}
		filter[key] = equalityValue(key, values[len(values)-1])
	}

	if len(filter) > 0 {
		b.conditions = append(b.conditions, filter)
	}
	return b
}

// Search matches keyword as a case-insensitive substring of any of fields.
func (b *Builder) Search(fields []string) *Builder {
	keyword := strings.TrimSpace(b.last("keyword"))
	if keyword == "" || len(fields) == 0 {
		return b
	}

	pattern := bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	if len(fields) == 1 {
		b.conditions = append(b.conditions, bson.M{fields[0]: pattern})
		return b
	}

	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: pattern})
	}
	b.conditions = append(b.conditions, bson.M{"$or": or})
	return b
}

// Paginate expects total to be the number of documents matching Query.
func (b *Builder) Paginate(total int64) *Builder {
	page := min(positiveInt(b.last("page"), DefaultPage), MaxPage)
	limit := min(positiveInt(b.last("limit"), DefaultLimit), MaxLimit)
	skip := (page - 1) * limit
	endIndex := page * limit

	b.pagination = dto.PaginationResult{
		CurrentPage:   page,
		Limit:         limit,
		NumberOfPages: int64(math.Ceil(float64(total) / float64(limit))),
	}
	if endIndex < total {
		next := page + 1
		b.pagination.Next = &next
	}
	if skip > 0 {
		prev := page - 1
		b.pagination.Prev = &prev
	}

	b.findOpts.SetSkip(skip).SetLimit(limit)
	return b
}

func (b *Builder) LimitFields() *Builder {
	projection := bson.M{}
	for _, field := range splitList(b.last("fields")) {
		value := 1
		if strings.HasPrefix(field, "-") {
			value = 0
			field = strings.TrimPrefix(field, "-")
		}
		if fieldPattern.MatchString(field) {
			projection[field] = value
		}
	}

	if len(projection) > 0 {
		b.findOpts.SetProjection(projection)
	}
	return b
}

func (b *Builder) Sort() *Builder {
	sortDoc := bson.D{}
	for _, field := range splitList(b.last("sort")) {
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = strings.TrimPrefix(field, "-")
		}
		if fieldPattern.MatchString(field) {
			sortDoc = append(sortDoc, bson.E{Key: field, Value: direction})
		}
	}

	if len(sortDoc) > 0 {
		b.findOpts.SetSort(sortDoc)
	}
	return b
}

// Query is the conjunction of the base scope, filters and keyword search.
func (b *Builder) Query() bson.M {
	switch len(b.conditions) {
	case 0:
		return bson.M{}
	case 1:
		return b.conditions[0]
	}

	and := make(bson.A, 0, len(b.conditions))
	for _, c := range b.conditions {
		and = append(and, c)
	}
	return bson.M{"$and": and}
}

func (b *Builder) FindOptions() *options.FindOptions {
	return b.findOpts
}

func (b *Builder) Pagination() dto.PaginationResult {
	return b.pagination
}

func (b *Builder) last(key string) string {
	values := b.params[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(raw string, fallback int64) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// equalityValue keeps plain values as strings unless they are ObjectIDs or the field is
// known to hold numbers or booleans.
func equalityValue(field, raw string) interface{} {
	switch {
	case numericFields[field]:
		return parseValue(raw)
	case boolFields[field] && (raw == "true" || raw == "false"):
		return raw == "true"
	}
	if id, ok := objectID(raw); ok {
		return id
	}
	return raw
}

func objectID(raw string) (primitive.ObjectID, bool) {
	if len(raw) != 24 {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	return id, err == nil
}

// parseValue converts an operator value to an ObjectID, number or bool when it looks like one.
func parseValue(raw string) interface{} {
	if id, ok := objectID(raw); ok {
		return id
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	return raw
}
