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
	"github.com/joequah1/erp-client/batches"
	"github.com/joequah1/erp-client/internal/fakelatency"
	"github.com/joequah1/erp-client/internal/utils"
	"github.com/joequah1/erp-client/listing"
)

var _ batches.Repo = (*FakeBatchRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeBatchRepo struct {
	mu      sync.RWMutex
	batches map[string]*batches.Batch
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeBatchRepo {
	r := &FakeBatchRepo{
		batches: make(map[string]*batches.Batch),
		latency: latency,
		nowTime: time.Now,
	}
	for _, b := range seedBatches() {
		r.batches[b.ID] = b
	}
	return r
}

func seedBatches() []*batches.Batch {
	return []*batches.Batch{
		{
			ID: "batch-1", ItemID: "item-1", BatchNumber: "B-2024-001",
			Quantity: 240, CostPrice: 1.10,
			ExpiryDate: utils.Ptr(seedTime.AddDate(1, 0, 0)),
			ReceivedAt: seedTime, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "batch-2", ItemID: "item-2", BatchNumber: "B-2024-002",
			Quantity: 36, CostPrice: 2.20,
			ExpiryDate: utils.Ptr(seedTime.AddDate(0, 6, 0)),
			ReceivedAt: seedTime, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "batch-3", ItemID: "item-3", BatchNumber: "B-2024-003",
			Quantity: 80, CostPrice: 2.90,
			ReceivedAt: seedTime, CreatedAt: seedTime, UpdatedAt: seedTime,
		},
	}
}

func (r *FakeBatchRepo) GetAll(ctx context.Context, filters listing.Filters) (batches.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return batches.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemID := filters.Extra["itemId"]

	list := make([]batches.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		if itemID != "" && b.ItemID != itemID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(b.BatchNumber), strings.ToLower(filters.Search)) {
			continue
		}
		list = append(list, *b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return batches.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeBatchRepo) GetByID(ctx context.Context, id string) (*batches.Batch, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "batch %s", id)
	}
	clone := *b
	return &clone, nil
}

func (r *FakeBatchRepo) Create(ctx context.Context, payload batches.CreateBatch) (*batches.Batch, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	b := &batches.Batch{
		ID:          ulid.Make().String(),
		ItemID:      payload.ItemID,
		BatchNumber: payload.BatchNumber,
		Quantity:    payload.Quantity,
		CostPrice:   payload.CostPrice,
		ExpiryDate:  payload.ExpiryDate,
		ReceivedAt:  payload.ReceivedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.batches[b.ID] = b
	clone := *b
	return &clone, nil
}

func (r *FakeBatchRepo) Update(ctx context.Context, id string, payload batches.UpdateBatch) (*batches.Batch, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "batch %s", id)
	}
	if payload.Quantity != nil {
		b.Quantity = *payload.Quantity
	}
	if payload.CostPrice != nil {
		b.CostPrice = *payload.CostPrice
	}
	if payload.ExpiryDate != nil {
		b.ExpiryDate = payload.ExpiryDate
	}
	b.UpdatedAt = r.nowTime()
	clone := *b
	return &clone, nil
}

func (r *FakeBatchRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "batch %s", id)
	}
	delete(r.batches, id)
	return nil
}
