package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/google/uuid"
)

// UsersRepo is a mutex-guarded map mirror of the postgres repo, used by the
// service tests.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, email, passwordHash, name string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.items[u.ID] = u

	return u, nil
}
