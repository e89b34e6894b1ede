package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxVariantQuantity caps how many units of one variant a single checkout
// line may hold.
const MaxVariantQuantity = 50

var (
	ErrNoLines             = errors.New("checkout must contain at least one line")
	ErrInvalidQuantity     = errors.New("checkout line quantity must be greater than zero")
	ErrQuantityExceedsMax  = errors.New("checkout line quantity exceeds the per-variant maximum")
	ErrMultiLineRestricted = errors.New("multiple lines are only allowed for logistics products")
)

// CheckoutLine references a variant and how many units of it the buyer wants.
type CheckoutLine struct {
	VariantID int64
	Quantity  int32
}

// Checkout is the pre-order aggregate a buyer assembles before converting it
// into an unpaid order.
type Checkout struct {
	Token             uuid.UUID
	UserID            int64
	UserEmail         string
	Channel           string
	Currency          string
	LanguageCode      string
	BillingAddressID  *int64
	ShippingAddressID *int64
	VoucherID         *int64
	TrackingClientID  string
	CustomerNote      string
	Lines             []CheckoutLine
	CreatedAt         time.Time
}

// NewCheckout builds an empty checkout for a buyer.
func NewCheckout(userID int64, email, channel, currency string) *Checkout {
	return &Checkout{
		Token:     uuid.New(),
		UserID:    userID,
		UserEmail: email,
		Channel:   channel,
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}
}

// AddLine appends a line, merging quantity into an existing line for the same
// variant.
func (c *Checkout) AddLine(variantID int64, quantity int32) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			if c.Lines[i].Quantity+quantity > MaxVariantQuantity {
				return ErrQuantityExceedsMax
			}
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	if quantity > MaxVariantQuantity {
		return ErrQuantityExceedsMax
	}
	c.Lines = append(c.Lines, CheckoutLine{VariantID: variantID, Quantity: quantity})
	return nil
}

// Validate enforces the aggregate invariants before conversion.
func (c *Checkout) Validate() error {
	if len(c.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range c.Lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if line.Quantity > MaxVariantQuantity {
			return ErrQuantityExceedsMax
		}
	}
	return nil
}
