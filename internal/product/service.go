package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/validation"
)

var (
	ErrStoreUnavailable = errors.New("product store unavailable")
	ErrDemoDisabled     = errors.New("demo catalog disabled")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validation.New()
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	return v
}

type Service struct {
	repo         Repository
	demoFallback bool
}

// NewService returns a catalog service. With demoFallback set, read paths
// substitute DemoCatalog when the store fails; this is meant for dev and
// test setups only.
func NewService(repo Repository, demoFallback bool) *Service {
	return &Service{repo: repo, demoFallback: demoFallback}
}

// List fetches the whole catalog and filters it in memory.
func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

const defaultFeaturedLimit = 8

// Featured returns up to limit featured products that are in stock.
func (s *Service) Featured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, limit)
	for _, p := range all {
		if len(out) >= limit {
			break
		}
		if p.Featured && p.InStock {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err == nil || errors.Is(err, ErrNotFound) {
		return p, err
	}
	if !s.demoFallback {
		return Product{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for _, d := range DemoCatalog() {
		if d.ID == id {
			return d, nil
		}
	}
	return Product{}, ErrNotFound
}

// ByIDs returns the stored products among ids. Unknown ids are skipped.
func (s *Service) ByIDs(ctx context.Context, ids []string) ([]Product, error) {
	out, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

// AdminSearch matches q against name or category. It never falls back to
// demo data.
func (s *Service) AdminSearch(ctx context.Context, q string) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all, nil
	}
	out := make([]Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if err := validate.Struct(p); err != nil {
		return Product{}, err
	}
	p.ID = ""
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, p Product) (Product, error) {
	if err := validate.Struct(p); err != nil {
		return Product{}, err
	}
	p.ID = id
	updated, err := s.repo.Update(ctx, p)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Product{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return updated, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// Count returns the number of stored products.
func (s *Service) Count(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return len(all), nil
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) error {
	for _, p := range products {
		if err := validate.Struct(p); err != nil {
			return err
		}
	}
	return s.repo.Reset(ctx, products)
}

// ResetToDemo reseeds the demo catalog. It is refused unless the service
// was built with demo fallback.
func (s *Service) ResetToDemo(ctx context.Context) ([]Product, error) {
	if !s.demoFallback {
		return nil, ErrDemoDisabled
	}
	products := DemoCatalog()
	if err := s.ResetProducts(ctx, products); err != nil {
		return nil, err
	}
	logrus.WithField("count", len(products)).Info("catalog reseeded with demo products")
	return products, nil
}

func (s *Service) all(ctx context.Context) ([]Product, error) {
	all, err := s.repo.List(ctx)
	if err == nil {
		return all, nil
	}
	if !s.demoFallback {
		logrus.WithError(err).Error("product store unavailable")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	logrus.WithError(err).Warn("product store unavailable, serving demo catalog")
	return DemoCatalog(), nil
}
