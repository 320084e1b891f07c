package user

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("profile not found")
	ErrProfileNotFound = errors.New("no profile with the required role")
	ErrExists          = errors.New("profile already exists")
)

type Repository interface {
	Get(ctx context.Context, uid string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	ListByRole(ctx context.Context, role Role) ([]Profile, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles []Profile
}

func NewInMemoryRepository(seed []Profile) *InMemoryRepository {
	repo := &InMemoryRepository{profiles: make([]Profile, 0, len(seed))}
	repo.profiles = append(repo.profiles, seed...)
	return repo
}

func (r *InMemoryRepository) Get(_ context.Context, uid string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.UID == uid {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.profiles {
		if existing.UID == p.UID {
			return Profile{}, ErrExists
		}
	}
	r.profiles = append(r.profiles, p)
	return p, nil
}

func (r *InMemoryRepository) Update(_ context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.profiles {
		if r.profiles[i].UID == p.UID {
			p.CreatedAt = r.profiles[i].CreatedAt
			r.profiles[i] = p
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *InMemoryRepository) ListByRole(_ context.Context, role Role) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, 0)
	for _, p := range r.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}
