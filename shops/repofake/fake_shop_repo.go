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
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/internal/utils"
	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/shops"
)

var _ shops.Repo = (*FakeShopRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeShopRepo struct {
	mu      sync.RWMutex
	shops   map[string]*shops.Shop
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeShopRepo {
	r := &FakeShopRepo{
		shops:   make(map[string]*shops.Shop),
		latency: latency,
		nowTime: time.Now,
	}
	for _, s := range seedShops() {
		r.shops[s.ID] = s
	}
	return r
}

func seedShops() []*shops.Shop {
	return []*shops.Shop{
		{
			ID: "shop-1", Name: "Main Street Store",
			Description: utils.Ptr("Flagship outlet"),
			OwnerID:     "user-1", IsActive: true,
			Settings:  shops.Settings{Currency: "MYR", Timezone: "Asia/Kuala_Lumpur", LowStockAlerts: true},
			CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "shop-2", Name: "Harbour Branch",
			OwnerID: "user-1", IsActive: true,
			Settings:  shops.Settings{Currency: "MYR", Timezone: "Asia/Kuala_Lumpur"},
			CreatedAt: seedTime, UpdatedAt: seedTime,
		},
	}
}

// Seed inserts a shop directly, bypassing latency. The fake auth backend uses
// it to provision a shop during registration.
func (r *FakeShopRepo) Seed(shop shops.Shop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[shop.ID] = &shop
}

func (r *FakeShopRepo) GetAll(ctx context.Context, filters listing.Filters) (shops.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return shops.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]shops.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		if filters.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) {
			continue
		}
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return shops.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeShopRepo) GetByID(ctx context.Context, id string) (*shops.Shop, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shops[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "shop %s", id)
	}
	clone := *s
	return &clone, nil
}

func (r *FakeShopRepo) Create(ctx context.Context, payload shops.CreateShop) (*shops.Shop, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	s := &shops.Shop{
		ID:          uuid.New().String(),
		Name:        payload.Name,
		Description: payload.Description,
		Logo:        payload.Logo,
		IsActive:    true,
		Settings:    shops.Settings{Currency: "MYR", Timezone: "Asia/Kuala_Lumpur"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.shops[s.ID] = s
	clone := *s
	return &clone, nil
}

func (r *FakeShopRepo) Update(ctx context.Context, id string, payload shops.UpdateShop) (*shops.Shop, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shops[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "shop %s", id)
	}
	if payload.Name != nil {
		s.Name = *payload.Name
	}
	if payload.Description != nil {
		s.Description = payload.Description
	}
	if payload.Logo != nil {
		s.Logo = payload.Logo
	}
	if payload.IsActive != nil {
		s.IsActive = *payload.IsActive
	}
	if payload.Settings != nil {
		s.Settings = *payload.Settings
	}
	s.UpdatedAt = r.nowTime()
	clone := *s
	return &clone, nil
}

func (r *FakeShopRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "shop %s", id)
	}
	delete(r.shops, id)
	return nil
}

func (r *FakeShopRepo) Mine(ctx context.Context) ([]shops.Shop, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]shops.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
