package users

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

var _ Repo = (*MemoryRepo)(nil)
