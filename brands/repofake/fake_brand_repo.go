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
	"github.com/joequah1/erp-client/brands"
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/internal/utils"
	"github.com/joequah1/erp-client/listing"
)

var _ brands.Repo = (*FakeBrandRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeBrandRepo struct {
	mu      sync.RWMutex
	brands  map[string]*brands.Brand
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeBrandRepo {
	r := &FakeBrandRepo{
		brands:  make(map[string]*brands.Brand),
		latency: latency,
		nowTime: time.Now,
	}
	for _, b := range seedBrands() {
		r.brands[b.ID] = b
	}
	return r
}

func seedBrands() []*brands.Brand {
	return []*brands.Brand{
		{ID: "brand-1", Name: "Acme", Description: utils.Ptr("House brand"), IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: "brand-2", Name: "Globex", IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: "brand-3", Name: "Initech", Description: utils.Ptr("Discontinued line"), IsActive: false, CreatedAt: seedTime, UpdatedAt: seedTime},
	}
}

func (r *FakeBrandRepo) GetAll(ctx context.Context, filters listing.Filters) (brands.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return brands.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]brands.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		if filters.Search != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(filters.Search)) {
			continue
		}
		list = append(list, *b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return brands.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeBrandRepo) GetByID(ctx context.Context, id string) (*brands.Brand, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brands[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "brand %s", id)
	}
	clone := *b
	return &clone, nil
}

func (r *FakeBrandRepo) Create(ctx context.Context, payload brands.CreateBrand) (*brands.Brand, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	b := &brands.Brand{
		ID:          uuid.New().String(),
		Name:        payload.Name,
		Description: payload.Description,
		Logo:        payload.Logo,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.brands[b.ID] = b
	clone := *b
	return &clone, nil
}

func (r *FakeBrandRepo) Update(ctx context.Context, id string, payload brands.UpdateBrand) (*brands.Brand, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.brands[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "brand %s", id)
	}
	if payload.Name != nil {
		b.Name = *payload.Name
	}
	if payload.Description != nil {
		b.Description = payload.Description
	}
	if payload.Logo != nil {
		b.Logo = payload.Logo
	}
	if payload.IsActive != nil {
		b.IsActive = *payload.IsActive
	}
	b.UpdatedAt = r.nowTime()
	clone := *b
	return &clone, nil
}

func (r *FakeBrandRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "brand %s", id)
	}
	delete(r.brands, id)
	return nil
}
