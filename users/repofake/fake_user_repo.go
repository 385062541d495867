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
	"github.com/joequah1/erp-client/internal/utils"
	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// FakeUserRepo is the in-memory users backend for dev mode. Seeded with
// deterministic fixtures, not persisted across restarts.
type FakeUserRepo struct {
	mu      sync.RWMutex
	users   map[string]*users.User
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeUserRepo {
	r := &FakeUserRepo{
		users:   make(map[string]*users.User),
		latency: latency,
		nowTime: time.Now,
	}
	for _, u := range seedUsers() {
		r.users[u.ID] = u
	}
	return r
}

func seedUsers() []*users.User {
	return []*users.User{
		{
			ID:        "user-1",
			Email:     "admin@example.com",
			Name:      "Admin User",
			Role:      "admin",
			Phone:     utils.Ptr("+60123456789"),
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:        "user-2",
			Email:     "manager@example.com",
			Name:      "Maya Manager",
			Role:      "manager",
			CreatedAt: seedTime.Add(24 * time.Hour),
			UpdatedAt: seedTime.Add(24 * time.Hour),
		},
		{
			ID:        "user-3",
			Email:     "cashier@example.com",
			Name:      "Casey Cashier",
			Role:      "cashier",
			CreatedAt: seedTime.Add(48 * time.Hour),
			UpdatedAt: seedTime.Add(48 * time.Hour),
		},
	}
}

func (r *FakeUserRepo) GetAll(ctx context.Context, filters listing.Filters) (users.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return users.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]users.User, 0, len(r.users))
	for _, u := range r.users {
		if filters.Search != "" {
			haystack := strings.ToLower(u.Name + " " + u.Email)
			if !strings.Contains(haystack, strings.ToLower(filters.Search)) {
				continue
			}
		}
		list = append(list, *u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return users.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "user %s", id)
	}
	clone := *u
	return &clone, nil
}

func (r *FakeUserRepo) Create(ctx context.Context, payload users.CreateUser) (*users.User, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	u := &users.User{
		ID:        ulid.Make().String(),
		Email:     payload.Email,
		Name:      payload.Name,
		Role:      payload.Role,
		Phone:     payload.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[u.ID] = u
	clone := *u
	return &clone, nil
}

func (r *FakeUserRepo) Update(ctx context.Context, id string, payload users.UpdateUser) (*users.User, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "user %s", id)
	}
	if payload.Name != nil {
		u.Name = *payload.Name
	}
	if payload.Role != nil {
		u.Role = *payload.Role
	}
	if payload.Phone != nil {
		u.Phone = payload.Phone
	}
	if payload.Avatar != nil {
		u.Avatar = payload.Avatar
	}
	u.UpdatedAt = r.nowTime()
	clone := *u
	return &clone, nil
}

func (r *FakeUserRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "user %s", id)
	}
	delete(r.users, id)
	return nil
}
