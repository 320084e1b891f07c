package cart

import "sync"

// Store holds one transient cart per session, keyed by identity uid.
// Nothing here is written to the database.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// With runs fn on the cart of uid while holding the store lock, creating
// an empty cart when none exists.
func (s *Store) With(uid string, fn func(c *Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[uid]
	if !ok {
		c = &Cart{}
		s.carts[uid] = c
	}
	return fn(c)
}

// Peek runs fn on the cart of uid while holding the store lock. A uid
// with no cart sees an empty one that is not stored.
func (s *Store) Peek(uid string, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[uid]
	if !ok {
		c = &Cart{}
	}
	fn(c)
}

// Drop discards the cart of uid.
func (s *Store) Drop(uid string) {
	s.mu.Lock()
	delete(s.carts, uid)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
