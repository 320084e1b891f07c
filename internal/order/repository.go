package order

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	// ListByUser and List return orders newest first.
	ListByUser(ctx context.Context, uid string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus applies t only if the stored status equals expected,
	// otherwise it returns ErrStaleStatus.
	UpdateStatus(ctx context.Context, id string, expected Status, t Transition) (Order, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make([]Order, 0, len(seed))}
	r.orders = append(r.orders, seed...)
	return r
}

func (r *InMemoryRepository) Create(_ context.Context, o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(_ context.Context, uid string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == uid {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) List(_ context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	newestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id string, expected Status, t Transition) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		o := &r.orders[i]
		if o.ID != id {
			continue
		}
		if o.Status != expected {
			return Order{}, ErrStaleStatus
		}
		o.Status = t.Status
		if t.Verification != "" {
			o.VerificationStatus = t.Verification
		}
		if t.Notes != nil {
			notes := *t.Notes
			o.VerificationNotes = &notes
		}
		return *o, nil
	}
	return Order{}, ErrNotFound
}

func newestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}
