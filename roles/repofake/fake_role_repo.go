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
	"github.com/joequah1/erp-client/listing"
	"github.com/joequah1/erp-client/roles"
)

var _ roles.Repo = (*FakeRoleRepo)(nil)

var seedTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type FakeRoleRepo struct {
	mu      sync.RWMutex
	roles   map[string]*roles.Role
	latency time.Duration
	nowTime func() time.Time
}

func New(latency time.Duration) *FakeRoleRepo {
	r := &FakeRoleRepo{
		roles:   make(map[string]*roles.Role),
		latency: latency,
		nowTime: time.Now,
	}
	for _, role := range seedRoles() {
		r.roles[role.ID] = role
	}
	return r
}

func seedRoles() []*roles.Role {
	return []*roles.Role{
		{
			ID: "role-1", Name: "admin",
			Permissions: []string{"*"},
			CreatedAt:   seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "role-2", Name: "manager",
			Permissions: []string{"inventory:read", "inventory:write", "batches:read", "batches:write", "reports:read"},
			CreatedAt:   seedTime, UpdatedAt: seedTime,
		},
		{
			ID: "role-3", Name: "cashier",
			Permissions: []string{"inventory:read"},
			CreatedAt:   seedTime, UpdatedAt: seedTime,
		},
	}
}

func (r *FakeRoleRepo) GetAll(ctx context.Context, filters listing.Filters) (roles.ListResponse, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return roles.ListResponse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]roles.Role, 0, len(r.roles))
	for _, role := range r.roles {
		if filters.Search != "" && !strings.Contains(strings.ToLower(role.Name), strings.ToLower(filters.Search)) {
			continue
		}
		list = append(list, *role)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	page, meta := listing.PageOf(list, filters)
	return roles.ListResponse{Data: page, Meta: meta}, nil
}

func (r *FakeRoleRepo) GetByID(ctx context.Context, id string) (*roles.Role, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "role %s", id)
	}
	clone := *role
	return &clone, nil
}

func (r *FakeRoleRepo) Create(ctx context.Context, payload roles.CreateRole) (*roles.Role, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	role := &roles.Role{
		ID:          uuid.New().String(),
		Name:        payload.Name,
		Description: payload.Description,
		Permissions: payload.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.roles[role.ID] = role
	clone := *role
	return &clone, nil
}

func (r *FakeRoleRepo) Update(ctx context.Context, id string, payload roles.UpdateRole) (*roles.Role, error) {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, errors.Wrapf(apierror.ErrNotFound, "role %s", id)
	}
	if payload.Name != nil {
		role.Name = *payload.Name
	}
	if payload.Description != nil {
		role.Description = payload.Description
	}
	if payload.Permissions != nil {
		role.Permissions = *payload.Permissions
	}
	role.UpdatedAt = r.nowTime()
	clone := *role
	return &clone, nil
}

func (r *FakeRoleRepo) Delete(ctx context.Context, id string) error {
	if err := fakelatency.Wait(ctx, r.latency); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[id]; !ok {
		return errors.Wrapf(apierror.ErrNotFound, "role %s", id)
	}
	delete(r.roles, id)
	return nil
}
