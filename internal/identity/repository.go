package identity

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("email is required")
)

type Repository interface {
	Create(ctx context.Context, id Identity) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)
	GetByID(ctx context.Context, uid string) (Identity, error)
}

// InMemoryRepository is used for tests and local runs without Postgres.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts []Identity
}

func NewInMemoryRepository(seed []Identity) *InMemoryRepository {
	repo := &InMemoryRepository{accounts: make([]Identity, 0, len(seed))}
	repo.accounts = append(repo.accounts, seed...)
	return repo
}

func (r *InMemoryRepository) Create(_ context.Context, id Identity) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == id.Email {
			return Identity{}, ErrEmailExists
		}
	}
	r.accounts = append(r.accounts, id)
	return id, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return Identity{}, ErrNotFound
}

func (r *InMemoryRepository) GetByID(_ context.Context, uid string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.UID == uid {
			return a, nil
		}
	}
	return Identity{}, ErrNotFound
}
