package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"
	"github.com/wichananm65/fireworks-shop/internal/cart"
	"github.com/wichananm65/fireworks-shop/internal/user"
	"github.com/wichananm65/fireworks-shop/internal/validation"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrForbidden         = errors.New("order belongs to another user")
)

var validate = validation.New()

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// PlaceOrder writes one pending cash-on-delivery order from the cart and
// then clears the cart. On any failure nothing is written and the cart is
// left untouched.
func (s *Service) PlaceOrder(ctx context.Context, owner user.Profile, c *cart.Cart, info DeliveryInfo) (Order, error) {
	info = DeliveryInfo{
		Name:           strings.TrimSpace(info.Name),
		Phone:          strings.TrimSpace(info.Phone),
		Address:        strings.TrimSpace(info.Address),
		AlternatePhone: strings.TrimSpace(info.AlternatePhone),
	}
	fields := map[string]string{}
	if c == nil || c.IsEmpty() {
		fields["items"] = "cart is empty"
	}
	if err := validate.Struct(info); err != nil {
		for k, v := range validation.FieldErrors(err) {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return Order{}, &ValidationError{Fields: fields}
	}

	ref, err := shortid.Generate()
	if err != nil {
		return Order{}, fmt.Errorf("order reference: %w", err)
	}

	lines := c.Items()
	items := make(Items, 0, len(lines))
	for _, l := range lines {
		items = append(items, LineItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Category: l.Category,
		})
	}

	o := Order{
		ID:        uuid.NewString(),
		Reference: strings.ToUpper(ref),
		UserID:    owner.UID,
		Customer: CustomerInfo{
			Name:           info.Name,
			Phone:          info.Phone,
			Address:        info.Address,
			AlternatePhone: info.AlternatePhone,
		},
		Items:              items,
		TotalAmount:        c.Total(),
		Status:             StatusPending,
		PaymentMethod:      PaymentCashOnDelivery,
		OrderDate:          s.now().UTC(),
		VerificationStatus: VerificationPending,
	}
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return Order{}, err
	}

	c.Clear()
	logrus.WithFields(logrus.Fields{"order": created.ID, "reference": created.Reference, "user": owner.UID}).Info("order placed")
	return created, nil
}

// Verify records the admin review of a pending order. Accepted orders move
// to verified, rejected ones to cancelled. Empty notes get a default
// message.
func (s *Service) Verify(ctx context.Context, id string, accepted bool, notes string) (Order, error) {
	t := Transition{Status: StatusCancelled, Verification: VerificationFailed}
	if accepted {
		t = Transition{Status: StatusVerified, Verification: VerificationVerified}
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = defaultFailedNotes
		if accepted {
			notes = defaultVerifiedNotes
		}
	}
	t.Notes = &notes
	return s.transition(ctx, id, t)
}

// Complete marks a verified order as completed.
func (s *Service) Complete(ctx context.Context, id string) (Order, error) {
	return s.transition(ctx, id, Transition{Status: StatusCompleted})
}

func (s *Service) transition(ctx context.Context, id string, t Transition) (Order, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(current.Status, t.Status) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, t.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, t)
	if errors.Is(err, ErrStaleStatus) {
		return Order{}, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	if err != nil {
		return Order{}, err
	}
	logrus.WithFields(logrus.Fields{"order": id, "from": current.Status, "to": updated.Status}).Info("order status changed")
	return updated, nil
}

// ListForUser returns the orders of uid, newest first.
func (s *Service) ListForUser(ctx context.Context, uid string) ([]Order, error) {
	return s.repo.ListByUser(ctx, uid)
}

// ListAll returns every order newest first, optionally narrowed to one
// status.
func (s *Service) ListAll(ctx context.Context, status Status) ([]Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil || status == "" {
		return all, err
	}
	out := make([]Order, 0, len(all))
	for _, o := range all {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// Get returns an order to its owner or to an admin.
func (s *Service) Get(ctx context.Context, viewer user.Profile, id string) (Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if viewer.Role != user.RoleAdmin && o.UserID != viewer.UID {
		return Order{}, ErrForbidden
	}
	return o, nil
}

// Revenue sums TotalAmount over orders.
func Revenue(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}
