package admin

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/fireworks-shop/internal/order"
	"github.com/wichananm65/fireworks-shop/internal/user"
	"golang.org/x/sync/errgroup"
)

type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type UserLister interface {
	ListUsers(ctx context.Context, search string) ([]user.Profile, error)
}

type OrderLister interface {
	ListAll(ctx context.Context, status order.Status) ([]order.Order, error)
}

// Stats is the back-office dashboard summary. TotalRevenue sums every
// order whatever its status, cancelled ones included; CompletedRevenue
// counts completed orders only.
type Stats struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalUsers       int             `json:"totalUsers"`
	TotalOrders      int             `json:"totalOrders"`
	PendingOrders    int             `json:"pendingOrders"`
	VerifiedOrders   int             `json:"verifiedOrders"`
	CompletedOrders  int             `json:"completedOrders"`
	CancelledOrders  int             `json:"cancelledOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	CompletedRevenue decimal.Decimal `json:"completedRevenue"`
}

type Service struct {
	products ProductCounter
	users    UserLister
	orders   OrderLister
}

func NewService(products ProductCounter, users UserLister, orders OrderLister) *Service {
	return &Service{products: products, users: users, orders: orders}
}

// ComputeStats reads the three collections and derives the dashboard
// counts. It never writes.
func (s *Service) ComputeStats(ctx context.Context) (Stats, error) {
	var (
		productCount int
		users        []user.Profile
		orders       []order.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.products.Count(gctx)
		productCount = n
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.ListUsers(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListAll(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalProducts: productCount,
		TotalUsers:    len(users),
		TotalOrders:   len(orders),
		TotalRevenue:  order.Revenue(orders),
	}
	for _, o := range orders {
		switch o.Status {
		case order.StatusPending:
			st.PendingOrders++
		case order.StatusVerified:
			st.VerifiedOrders++
		case order.StatusCompleted:
			st.CompletedOrders++
		case order.StatusCancelled:
			st.CancelledOrders++
		}
	}
	st.CompletedRevenue = order.Revenue(lo.Filter(orders, func(o order.Order, _ int) bool {
		return o.Status == order.StatusCompleted
	}))
	return st, nil
}
