package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	pkgdto "github.com/alimikegami/e-commerce/pkg/dto"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/query"
	"go.mongodb.org/mongo-driver/bson"
)

// ResourceService is the create/read/update/delete surface shared by every resource.
// Lookups honour the scope stored in ctx by nested routes.
type ResourceService[T any] interface {
	Create(ctx context.Context, doc T) (res T, err error)
	GetAll(ctx context.Context, params map[string][]string) (res pkgdto.ListResult[T], err error)
	GetByID(ctx context.Context, id string) (res T, err error)
	Update(ctx context.Context, id string, fields bson.M) (res T, err error)
	Delete(ctx context.Context, id string) (err error)
}

// ResourceOptions holds the entity specific hooks. All of them are optional.
type ResourceOptions[T any] struct {
	// SearchFields are matched by the keyword parameter.
	SearchFields []string
	BeforeCreate func(ctx context.Context, doc *T) error
	BeforeUpdate func(ctx context.Context, id string, fields bson.M) error
	// AfterLoad runs on every document returned to a caller, e.g. to build image links.
	AfterLoad func(ctx context.Context, docs []*T) error
	// Populate runs on GetByID only.
	Populate func(ctx context.Context, doc *T) error
}

type ResourceServiceImpl[T any] struct {
	repo repository.Repository[T]
	opts ResourceOptions[T]
}

func CreateResourceService[T any](repo repository.Repository[T], opts ResourceOptions[T]) *ResourceServiceImpl[T] {
	return &ResourceServiceImpl[T]{repo: repo, opts: opts}
}

func (s *ResourceServiceImpl[T]) Create(ctx context.Context, doc T) (res T, err error) {
	if s.opts.BeforeCreate != nil {
		if err = s.opts.BeforeCreate(ctx, &doc); err != nil {
			return
		}
	}

	res, err = s.repo.Create(ctx, doc)
	if err != nil {
		return
	}

	err = s.Transform(ctx, &res)
	return
}

func (s *ResourceServiceImpl[T]) GetAll(ctx context.Context, params map[string][]string) (res pkgdto.ListResult[T], err error) {
	builder := query.NewBuilder(requestctx.Scope(ctx), params).
		Filter().
		Search(s.opts.SearchFields)

	total, err := s.repo.Count(ctx, builder.Query())
	if err != nil {
		return
	}

	builder.Paginate(total).LimitFields().Sort()

	docs, err := s.repo.Find(ctx, builder.Query(), builder.FindOptions())
	if err != nil {
		return
	}

	ptrs := make([]*T, len(docs))
	for i := range docs {
		ptrs[i] = &docs[i]
	}
	if err = s.Transform(ctx, ptrs...); err != nil {
		return
	}

	return pkgdto.ListResult[T]{
		Results:          len(docs),
		PaginationResult: builder.Pagination(),
		Data:             docs,
	}, nil
}

func (s *ResourceServiceImpl[T]) GetByID(ctx context.Context, id string) (res T, err error) {
	res, err = s.repo.FindByID(ctx, id, requestctx.Scope(ctx))
	if err != nil {
		return res, notFound(err, id)
	}

	if s.opts.Populate != nil {
		if err = s.opts.Populate(ctx, &res); err != nil {
			return
		}
	}

	err = s.Transform(ctx, &res)
	return
}

func (s *ResourceServiceImpl[T]) Update(ctx context.Context, id string, fields bson.M) (res T, err error) {
	if s.opts.BeforeUpdate != nil {
		if err = s.opts.BeforeUpdate(ctx, id, fields); err != nil {
			return
		}
	}

	res, err = s.repo.UpdateByID(ctx, id, requestctx.Scope(ctx), fields)
	if err != nil {
		return res, notFound(err, id)
	}

	err = s.Transform(ctx, &res)
	return
}

func (s *ResourceServiceImpl[T]) Delete(ctx context.Context, id string) (err error) {
	err = s.repo.DeleteByID(ctx, id, requestctx.Scope(ctx))
	return notFound(err, id)
}

// Transform applies the AfterLoad hook, for callers that fetched documents on their own.
func (s *ResourceServiceImpl[T]) Transform(ctx context.Context, docs ...*T) error {
	if s.opts.AfterLoad == nil || len(docs) == 0 {
		return nil
	}
	return s.opts.AfterLoad(ctx, docs)
}

// notFound rewrites a repository miss into the message that names the id.
func notFound(err error, id string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%w %s", errs.ErrNoDocument, id)
	}
	return err
}
