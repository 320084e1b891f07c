package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
)

// PaymentCashOnDelivery is the only payment method.
const PaymentCashOnDelivery = "cod"

const (
	defaultVerifiedNotes = "Order verified successfully"
	defaultFailedNotes   = "Verification failed"
)

// CustomerInfo is the delivery contact copied into the order at creation.
type CustomerInfo struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	AlternatePhone string `json:"alternatePhone,omitempty"`
}

func (c CustomerInfo) Value() (driver.Value, error) {
	return marshalJSON(c)
}

func (c *CustomerInfo) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// LineItem is an order line snapshot.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Category string          `json:"category"`
}

type Items []LineItem

func (it Items) Value() (driver.Value, error) {
	if it == nil {
		return "[]", nil
	}
	return marshalJSON(it)
}

func (it *Items) Scan(src interface{}) error {
	return scanJSON(src, it)
}

// Order is immutable apart from its status, verification status and notes.
type Order struct {
	ID                 string             `json:"id" db:"id"`
	Reference          string             `json:"reference" db:"reference"`
	UserID             string             `json:"userId" db:"user_id"`
	Customer           CustomerInfo       `json:"customerInfo" db:"customer_info"`
	Items              Items              `json:"items" db:"items"`
	TotalAmount        decimal.Decimal    `json:"totalAmount" db:"total_amount"`
	Status             Status             `json:"status" db:"status"`
	PaymentMethod      string             `json:"paymentMethod" db:"payment_method"`
	OrderDate          time.Time          `json:"orderDate" db:"order_date"`
	VerificationStatus VerificationStatus `json:"verificationStatus" db:"verification_status"`
	VerificationNotes  *string            `json:"verificationNotes,omitempty" db:"verification_notes"`
}

// DeliveryInfo is the checkout form.
type DeliveryInfo struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address" validate:"required"`
	AlternatePhone string `json:"alternatePhone"`
}

// Transition is a status change applied only when the order still has
// the expected prior status. Empty Verification and nil Notes leave those
// fields as they are.
type Transition struct {
	Status       Status
	Verification VerificationStatus
	Notes        *string
}

// transitions lists the allowed status moves; cancelled and completed are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusVerified, StatusCancelled},
	StatusVerified: {StatusCompleted},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func marshalJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return errors.New("unsupported jsonb source type")
	}
}
