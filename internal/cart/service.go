package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/product"
)

var ErrOutOfStock = errors.New("product is out of stock")

// Catalog is the part of the catalog service the cart reads from.
type Catalog interface {
	Get(ctx context.Context, id string) (product.Product, error)
	ByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

// View is the cart as returned to clients.
type View struct {
	Items       []LineItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
	Unavailable []string        `json:"unavailable,omitempty"`
}

func viewOf(c *Cart) View {
	return View{Items: c.Items(), Total: c.Total(), Count: c.Count()}
}

// Service orchestrates cart operations.
type Service struct {
	store   *Store
	catalog Catalog
}

func NewService(store *Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Get returns the cart of uid. Lines whose product has since gone out of
// stock or been deleted are reported in Unavailable; their snapshot is
// left as is.
func (s *Service) Get(ctx context.Context, uid string) (View, error) {
	var v View
	s.store.Peek(uid, func(c *Cart) { v = viewOf(c) })
	if len(v.Items) == 0 {
		return v, nil
	}

	ids := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		ids = append(ids, it.ID)
	}
	current, err := s.catalog.ByIDs(ctx, ids)
	if err != nil {
		logrus.WithError(err).Warn("cart availability check skipped")
		return v, nil
	}
	inStock := make(map[string]bool, len(current))
	for _, p := range current {
		inStock[p.ID] = p.InStock
	}
	for _, id := range ids {
		if !inStock[id] {
			v.Unavailable = append(v.Unavailable, id)
		}
	}
	return v, nil
}

// AddProduct snapshots productID from the catalog into the cart of uid.
func (s *Service) AddProduct(ctx context.Context, uid, productID string) (View, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return View{}, err
	}
	if !p.InStock {
		return View{}, ErrOutOfStock
	}

	var v View
	err = s.store.With(uid, func(c *Cart) error {
		c.Add(LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Image:    p.Image,
		})
		v = viewOf(c)
		return nil
	})
	return v, err
}

func (s *Service) SetQuantity(uid, productID string, n int) View {
	return s.mutate(uid, func(c *Cart) { c.SetQuantity(productID, n) })
}

func (s *Service) Remove(uid, productID string) View {
	return s.mutate(uid, func(c *Cart) { c.Remove(productID) })
}

func (s *Service) Clear(uid string) View {
	return s.mutate(uid, (*Cart).Clear)
}

// Checkout runs fn on the live cart of uid under the store lock, so one
// session cannot submit the same cart twice concurrently.
func (s *Service) Checkout(uid string, fn func(c *Cart) error) error {
	return s.store.With(uid, fn)
}

// OnIdentityChanged drops the session cart on sign-out.
func (s *Service) OnIdentityChanged(ev identity.Event) {
	if ev.Kind == identity.EventSignedOut && ev.UID != "" {
		s.store.Drop(ev.UID)
	}
}

func (s *Service) mutate(uid string, fn func(c *Cart)) View {
	var v View
	_ = s.store.With(uid, func(c *Cart) error {
		fn(c)
		v = viewOf(c)
		return nil
	})
	return v
}
