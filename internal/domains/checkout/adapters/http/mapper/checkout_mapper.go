package mapper

import (
	"time"

	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
)

// CheckoutLine is the HTTP representation of a checkout line.
type CheckoutLine struct {
	VariantID int64 `json:"variantId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

// MutationCheckout captures inbound payloads for checkout creation.
type MutationCheckout struct {
	UserID            int64          `json:"userId" binding:"required"`
	UserEmail         string         `json:"userEmail"`
	Channel           string         `json:"channel"`
	Currency          string         `json:"currency"`
	LanguageCode      string         `json:"languageCode,omitempty"`
	BillingAddressID  *int64         `json:"billingAddressId,omitempty"`
	ShippingAddressID *int64         `json:"shippingAddressId,omitempty"`
	VoucherID         *int64         `json:"voucherId,omitempty"`
	TrackingClientID  string         `json:"trackingClientId,omitempty"`
	CustomerNote      string         `json:"customerNote,omitempty"`
	Lines             []CheckoutLine `json:"lines"`
}

// Checkout is the HTTP representation of a checkout aggregate.
type Checkout struct {
	Token             string         `json:"token"`
	UserID            int64          `json:"userId"`
	UserEmail         string         `json:"userEmail,omitempty"`
	Channel           string         `json:"channel,omitempty"`
	Currency          string         `json:"currency,omitempty"`
	LanguageCode      string         `json:"languageCode,omitempty"`
	BillingAddressID  *int64         `json:"billingAddressId,omitempty"`
	ShippingAddressID *int64         `json:"shippingAddressId,omitempty"`
	VoucherID         *int64         `json:"voucherId,omitempty"`
	TrackingClientID  string         `json:"trackingClientId,omitempty"`
	CustomerNote      string         `json:"customerNote,omitempty"`
	Lines             []CheckoutLine `json:"lines"`
	CreatedAt         time.Time      `json:"createdAt,omitempty"`
}

// ConvertRequest carries the conversion options and the acting user.
type ConvertRequest struct {
	UserID       int64  `json:"userId" binding:"required"`
	AppID        *int64 `json:"appId,omitempty"`
	KeepCheckout bool   `json:"keepCheckout,omitempty"`
}

// ToDomainCheckout maps an inbound payload into the domain aggregate.
func ToDomainCheckout(input MutationCheckout) (*domain.Checkout, error) {
	checkout := domain.NewCheckout(input.UserID, input.UserEmail, input.Channel, input.Currency)
	checkout.LanguageCode = input.LanguageCode
	checkout.BillingAddressID = input.BillingAddressID
	checkout.ShippingAddressID = input.ShippingAddressID
	checkout.VoucherID = input.VoucherID
	checkout.TrackingClientID = input.TrackingClientID
	checkout.CustomerNote = input.CustomerNote
	for _, line := range input.Lines {
		if err := checkout.AddLine(line.VariantID, line.Quantity); err != nil {
			return nil, err
		}
	}
	return checkout, nil
}

// FromDomainCheckout maps a checkout aggregate to its transport shape.
func FromDomainCheckout(checkout *domain.Checkout) Checkout {
	lines := make([]CheckoutLine, 0, len(checkout.Lines))
	for _, line := range checkout.Lines {
		lines = append(lines, CheckoutLine{VariantID: line.VariantID, Quantity: line.Quantity})
	}
	return Checkout{
		Token:             checkout.Token.String(),
		UserID:            checkout.UserID,
		UserEmail:         checkout.UserEmail,
		Channel:           checkout.Channel,
		Currency:          checkout.Currency,
		LanguageCode:      checkout.LanguageCode,
		BillingAddressID:  checkout.BillingAddressID,
		ShippingAddressID: checkout.ShippingAddressID,
		VoucherID:         checkout.VoucherID,
		TrackingClientID:  checkout.TrackingClientID,
		CustomerNote:      checkout.CustomerNote,
		Lines:             lines,
		CreatedAt:         checkout.CreatedAt,
	}
}
