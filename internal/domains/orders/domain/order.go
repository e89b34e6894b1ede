package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusFulfilled Status = "fulfilled"
	StatusCanceled  Status = "canceled"
)

// ChargeStatus measures how much of an order's total has been collected.
type ChargeStatus string

const (
	ChargeNone        ChargeStatus = "none"
	ChargePartial     ChargeStatus = "partial"
	ChargeFull        ChargeStatus = "full"
	ChargeOvercharged ChargeStatus = "overcharged"
)

var (
	ErrNoLines            = errors.New("order must contain at least one line")
	ErrInvalidQuantity    = errors.New("line quantity must be greater than zero")
	ErrNotAwaitingPayment = errors.New("order is not awaiting payment")
	ErrSupplierMissing    = errors.New("logistics line has no supplier")
)

// OrderLine is owned by exactly one order at a time. During a split its
// ownership moves to the new per-supplier order; it is never copied.
type OrderLine struct {
	ID                   int64
	OrderID              int64
	VariantID            int64
	ProductName          string
	Quantity             int32
	UnitPriceGross       decimal.Decimal
	UndiscountedTotalNet decimal.Decimal
	SupplierID           *int64
	RedemptionCode       string
}

// TotalGross is the line's contribution to a per-supplier order amount.
func (l OrderLine) TotalGross() decimal.Decimal {
	return l.UnitPriceGross.Mul(decimal.NewFromInt32(l.Quantity))
}

// Snapshot groups the shared attributes copied verbatim onto every order
// derived from the original during a split.
type Snapshot struct {
	UserID            int64
	UserEmail         string
	BillingAddressID  *int64
	ShippingAddressID *int64
	LanguageCode      string
	TrackingClientID  string
	Channel           string
	Currency          string
	VoucherID         *int64
	CustomerNote      string
	WeightKg          float64
	Origin            string
	CheckoutToken     string
}

// Order models the purchase order aggregate.
type Order struct {
	ID                     int64
	Status                 Status
	ChargeStatus           ChargeStatus
	SupplierID             *int64
	TotalNet               decimal.Decimal
	TotalGross             decimal.Decimal
	UndiscountedTotalNet   decimal.Decimal
	UndiscountedTotalGross decimal.Decimal
	TotalCharged           decimal.Decimal
	ShippingPriceGross     decimal.Decimal
	Snapshot               Snapshot
	Lines                  []OrderLine
	PaymentAt              *time.Time
	CreatedAt              time.Time
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// AwaitingPayment reports whether the order can still be finalized.
func (o *Order) AwaitingPayment() bool {
	return o.Status == StatusUnpaid
}

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID int64) bool {
	return o.Snapshot.UserID == userID
}

// ChargeableTotal is the amount collected on the in-place path: gross total
// plus shipping.
func (o *Order) ChargeableTotal() decimal.Decimal {
	return o.TotalGross.Add(o.ShippingPriceGross)
}

// MarkFullyPaid transitions the order to its paid state in place.
func (o *Order) MarkFullyPaid(charged decimal.Decimal, supplierID *int64, now time.Time) error {
	if !o.AwaitingPayment() {
		return ErrNotAwaitingPayment
	}
	o.Status = StatusPaid
	o.ChargeStatus = ChargeFull
	o.TotalCharged = charged
	o.SupplierID = supplierID
	paymentAt := now
	o.PaymentAt = &paymentAt
	return nil
}

// SpawnSupplierOrder derives a paid per-supplier order from this one,
// snapshot-copying the shared fields and taking over the group's totals.
// Line reassignment is left to the persistence boundary.
func (o *Order) SpawnSupplierOrder(group SupplierGroup, now time.Time) *Order {
	supplierID := group.SupplierID
	paymentAt := now
	return &Order{
		Status:                 StatusPaid,
		ChargeStatus:           ChargeFull,
		SupplierID:             &supplierID,
		TotalNet:               group.Amount,
		TotalGross:             group.Amount,
		UndiscountedTotalNet:   group.UndiscountedAmount,
		UndiscountedTotalGross: group.UndiscountedAmount,
		TotalCharged:           group.Amount,
		Snapshot:               o.Snapshot,
		PaymentAt:              &paymentAt,
		CreatedAt:              o.CreatedAt,
	}
}

// LineIDs lists the identifiers of the order's lines.
func (o *Order) LineIDs() []int64 {
	ids := make([]int64, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// HasRedemptionCodes reports whether every line already carries a code.
func (o *Order) HasRedemptionCodes() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for _, line := range o.Lines {
		if line.RedemptionCode == "" {
			return false
		}
	}
	return true
}
