package repofake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/joequah1/erp-client/apierror"
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/inventory"
	"github.com/joequah1/erp-client/listing"
)

var _ inventory.Repo = (*FakeInventoryRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeInventoryRepo struct {
	mu      sync.RWMutex
	items   map[string]*inventory.Item
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeInventoryRepo {
	r := &FakeInventoryRepo{
		items:   make(map[string]*inventory.Item),
		latency: latency,
		nowTime: time.Now,
	}
	for _, item := range seedItems() {
		r.items[item.ID] = item
	}
	return r
}

func seedItems() []*inventory.Item {
	return []*inventory.Item{
		{
			ID: "item-1", Name: "Cola 330ml", SKU: "BEV-0001",
			CategoryID: "cat-2", BrandID: "brand-1",
			Price: 1.80, Quantity: 240, ReorderLevel: 48,
			IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "item-2", Name: "Potato Chips 150g", SKU: "SNK-0001",
			CategoryID: "cat-3", BrandID: "brand-2",
			Price: 3.50, Quantity: 36, ReorderLevel: 40,
			IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "item-3", Name: "Dish Soap 500ml", SKU: "HSH-0001",
			CategoryID: "cat-4", BrandID: "brand-1",
			Price: 4.20, Quantity: 80, ReorderLevel: 20,
			IsActive: true, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
	}
}

func (r *FakeInventoryRepo) GetAll(ctx context.Context, filters listing.Filters) (inventory.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return inventory.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	categoryID := filters.Extra["categoryId"]
	brandID := filters.Extra["brandId"]

	list := make([]inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		if brandID != "" && item.BrandID != brandID {
			continue
		}
		if filters.Search != "" {
			haystack := strings.ToLower(item.Name + " " + item.SKU)
			if !strings.Contains(haystack, strings.ToLower(filters.Search)) {
				continue
			}
		}
		list = append(list, *item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return inventory.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeInventoryRepo) GetByID(ctx context.Context, id string) (*inventory.Item, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "inventory item %s", id)
	}
	clone := *item
	return &clone, nil
}

func (r *FakeInventoryRepo) Create(ctx context.Context, payload inventory.CreateItem) (*inventory.Item, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	item := &inventory.Item{
		ID:           ulid.Make().String(),
		Name:         payload.Name,
		SKU:          payload.SKU,
		Description:  payload.Description,
		CategoryID:   payload.CategoryID,
		BrandID:      payload.BrandID,
		Price:        payload.Price,
		Quantity:     payload.Quantity,
		ReorderLevel: payload.ReorderLevel,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.items[item.ID] = item
	clone := *item
	return &clone, nil
}

func (r *FakeInventoryRepo) Update(ctx context.Context, id string, payload inventory.UpdateItem) (*inventory.Item, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "inventory item %s", id)
	}
	if payload.Name != nil {
		item.Name = *payload.Name
	}
	if payload.SKU != nil {
		item.SKU = *payload.SKU
	}
	if payload.Description != nil {
		item.Description = payload.Description
	}
	if payload.CategoryID != nil {
		item.CategoryID = *payload.CategoryID
	}
	if payload.BrandID != nil {
		item.BrandID = *payload.BrandID
	}
	if payload.Price != nil {
		item.Price = *payload.Price
	}
	if payload.Quantity != nil {
		item.Quantity = *payload.Quantity
	}
	if payload.ReorderLevel != nil {
		item.ReorderLevel = *payload.ReorderLevel
	}
	if payload.IsActive != nil {
		item.IsActive = *payload.IsActive
	}
	item.UpdatedAt = r.nowTime()
	clone := *item
	return &clone, nil
}

func (r *FakeInventoryRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "inventory item %s", id)
	}
	delete(r.items, id)
	return nil
}
