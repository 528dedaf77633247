// AngelaMos | 2026
// users.go

package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/user"
)

type users struct {
	*Store
}

func (r *users) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	if _, ok := r.usersByEmail[email]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	r.stamp(&u.CreatedAt)
	u.UpdatedAt = u.CreatedAt

	cp := *u
	r.users[u.ID] = &cp
	r.usersByEmail[email] = u.ID
	r.userOrder = append(r.userOrder, u.ID)

	return nil
}

func (r *users) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	cp := *u
	return &cp, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}

	cp := *r.users[id]
	return &cp, nil
}

func (r *users) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.Phone = u.Phone
	stored.Role = u.Role
	stored.Active = u.Active
	stored.UpdatedAt = r.now().UTC()

	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *users) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	stored.PasswordHash = passwordHash
	stored.UpdatedAt = r.now().UTC()
	return nil
}

func (r *users) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return fmt.Errorf("touch last login: %w", core.ErrNotFound)
	}

	stored.LastLoginAt = &at
	return nil
}

// List returns users newest first. Users created at the same instant come
// back most recently inserted first.
func (r *users) List(
	_ context.Context,
	params user.ListUsersParams,
) ([]user.User, int, error) {
	params.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(params.Search)
	matched := make([]user.User, 0)

	for _, id := range slices.Backward(r.userOrder) {
		u := r.users[id]
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.FirstName), needle) &&
			!strings.Contains(strings.ToLower(u.LastName), needle) {
			continue
		}
		matched = append(matched, *u)
	}

	slices.SortStableFunc(matched, func(a, b user.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return catalog.Paginate(matched, params.Page, params.Limit), len(matched), nil
}
