package repofake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/categories"
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/internal/utils"
	"github.com/joequah1/erp-client/listing"
)

var _ categories.Repo = (*FakeCategoryRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeCategoryRepo struct {
	mu         sync.RWMutex
	categories map[string]*categories.Category
	latency    time.Duration
	nowTime    func() time.Time
}

func New(latency time.Duration) *FakeCategoryRepo {
	r := &FakeCategoryRepo{
		categories: make(map[string]*categories.Category),
		latency:    latency,
		nowTime:    time.Now,
	}
	for _, c := range seedCategories() {
		r.categories[c.ID] = c
	}
	return r
}

func seedCategories() []*categories.Category {
	return []*categories.Category{
		{ID: "cat-1", Name: "Beverages", IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: "cat-2", Name: "Soft Drinks", ParentID: utils.Ptr("cat-1"), IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: "cat-3", Name: "Snacks", IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: "cat-4", Name: "Household", IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
	}
}

func (r *FakeCategoryRepo) GetAll(ctx context.Context, filters listing.Filters) (categories.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return categories.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]categories.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Search)) {
			continue
		}
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return categories.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeCategoryRepo) GetByID(ctx context.Context, id string) (*categories.Category, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "category %s", id)
	}
	clone := *c
	return &clone, nil
}

func (r *FakeCategoryRepo) Create(ctx context.Context, payload categories.CreateCategory) (*categories.Category, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	c := &categories.Category{
		ID:          uuid.New().String(),
		Name:        payload.Name,
		Description: payload.Description,
		ParentID:    payload.ParentID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.categories[c.ID] = c
	clone := *c
	return &clone, nil
}

func (r *FakeCategoryRepo) Update(ctx context.Context, id string, payload categories.UpdateCategory) (*categories.Category, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "category %s", id)
	}
	if payload.Name != nil {
		c.Name = *payload.Name
	}
	if payload.Description != nil {
		c.Description = payload.Description
	}
	if payload.ParentID != nil {
		c.ParentID = payload.ParentID
	}
	if payload.IsActive != nil {
		c.IsActive = *payload.IsActive
	}
	c.UpdatedAt = r.nowTime()
	clone := *c
	return &clone, nil
}

func (r *FakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "category %s", id)
	}
	delete(r.categories, id)
	return nil
}
