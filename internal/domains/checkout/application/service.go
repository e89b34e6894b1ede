package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/openmall/order-api-server/internal/domains/catalog/domain"
	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	types "github.com/openmall/order-api-server/internal/domains/checkout/application/types"
	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
	"github.com/openmall/order-api-server/internal/domains/checkout/ports"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	suppliersports "github.com/openmall/order-api-server/internal/domains/suppliers/ports"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

var _ ports.Service = (*Service)(nil)

// Service converts checkouts into unpaid orders. All validation happens
// before the factory is asked to persist anything.
type Service struct {
	checkouts ports.Repository
	catalog   catalogports.Source
	suppliers suppliersports.Registry
	factory   ports.OrderFactory
	now       func() time.Time
}

// Option customizes the service construction.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(checkouts ports.Repository, catalog catalogports.Source, suppliers suppliersports.Registry, factory ports.OrderFactory, opts ...Option) *Service {
	s := &Service{
		checkouts: checkouts,
		catalog:   catalog,
		suppliers: suppliers,
		factory:   factory,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateCheckout(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error) {
	if checkout == nil {
		return nil, errors.New("checkout is nil")
	}
	if err := checkout.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.checkouts.Save(ctx, checkout)
}

func (s *Service) GetCheckout(ctx context.Context, token string) (*domain.Checkout, error) {
	parsed, err := parseToken(token)
	if err != nil {
		return nil, err
	}
	checkout, err := s.checkouts.GetByToken(ctx, parsed)
	if err != nil {
		return nil, mapError(err)
	}
	return checkout, nil
}

// ConvertToOrder turns a checkout into one unpaid order holding all its
// lines. Splitting across suppliers happens later, at payment finalization;
// conversion only proves the split would be legal.
func (s *Service) ConvertToOrder(ctx context.Context, input types.ConvertInput) (*ordersdomain.Order, error) {
	checkout, err := s.checkouts.GetByToken(ctx, input.CheckoutToken)
	if err != nil {
		return nil, mapError(err)
	}
	if err := checkout.Validate(); err != nil {
		return nil, mapError(err)
	}

	lines, classified, err := s.resolveLines(ctx, checkout)
	if err != nil {
		return nil, err
	}
	if err := s.enforceLineRules(ctx, classified); err != nil {
		return nil, err
	}
	// Same grouping primitive the payment splitter uses; run here so an
	// unconvertible supplier layout is refused before the order exists.
	if _, err := ordersdomain.PlanSplit(classified); err != nil {
		return nil, mapError(err)
	}

	draft := buildDraft(checkout, lines, s.now())
	created, err := s.factory.CreateDraft(ctx, draft)
	if err != nil {
		return nil, mapError(err)
	}

	if !input.KeepCheckout {
		if err := s.checkouts.Delete(ctx, checkout.Token); err != nil && !errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("remove converted checkout: %w", err)
		}
	}
	return created, nil
}

func (s *Service) resolveLines(ctx context.Context, checkout *domain.Checkout) ([]ordersdomain.OrderLine, []ordersdomain.ClassifiedLine, error) {
	lines := make([]ordersdomain.OrderLine, 0, len(checkout.Lines))
	classified := make([]ordersdomain.ClassifiedLine, 0, len(checkout.Lines))
	for _, checkoutLine := range checkout.Lines {
		variant, err := s.catalog.VariantByID(ctx, checkoutLine.VariantID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		category := variant.Category()
		if category == catalogdomain.CategoryUnknown {
			return nil, nil, mapError(ordersdomain.ErrUnknownCategory)
		}
		quantity := decimal.NewFromInt32(checkoutLine.Quantity)
		line := ordersdomain.OrderLine{
			VariantID:            variant.ID,
			ProductName:          variant.ProductName,
			Quantity:             checkoutLine.Quantity,
			UnitPriceGross:       variant.PriceAmount,
			UndiscountedTotalNet: variant.PriceAmount.Mul(quantity),
			SupplierID:           variant.SupplierID,
		}
		lines = append(lines, line)
		classified = append(classified, ordersdomain.ClassifiedLine{Line: line, Category: category})
	}
	return lines, classified, nil
}

func (s *Service) enforceLineRules(ctx context.Context, classified []ordersdomain.ClassifiedLine) error {
	if len(classified) > 1 {
		for _, line := range classified {
			if !line.Category.RequiresShipment() {
				return mapError(domain.ErrMultiLineRestricted)
			}
		}
	}
	for _, line := range classified {
		if line.Line.SupplierID == nil {
			return validation.NewError("supplier", validation.CodeInvalidSupplier, "line variant has no supplier")
		}
		exists, err := s.suppliers.Exists(ctx, *line.Line.SupplierID)
		if err != nil {
			return fmt.Errorf("verify supplier %d: %w", *line.Line.SupplierID, err)
		}
		if !exists {
			return validation.NewError("supplier", validation.CodeSupplierNotFound, "supplier not found")
		}
	}
	return nil
}

func parseToken(token string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return uuid.Nil, validation.NewError("token", validation.CodeInvalid, "checkout token must be a UUID")
	}
	return parsed, nil
}

func buildDraft(checkout *domain.Checkout, lines []ordersdomain.OrderLine, now time.Time) *ordersdomain.Order {
	total := decimal.Zero
	undiscounted := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalGross())
		undiscounted = undiscounted.Add(line.UndiscountedTotalNet)
	}
	return &ordersdomain.Order{
		Status:                 ordersdomain.StatusUnpaid,
		ChargeStatus:           ordersdomain.ChargeNone,
		TotalNet:               total,
		TotalGross:             total,
		UndiscountedTotalNet:   undiscounted,
		UndiscountedTotalGross: undiscounted,
		Snapshot: ordersdomain.Snapshot{
			UserID:            checkout.UserID,
			UserEmail:         checkout.UserEmail,
			BillingAddressID:  checkout.BillingAddressID,
			ShippingAddressID: checkout.ShippingAddressID,
			LanguageCode:      checkout.LanguageCode,
			TrackingClientID:  checkout.TrackingClientID,
			Channel:           checkout.Channel,
			Currency:          checkout.Currency,
			VoucherID:         checkout.VoucherID,
			CustomerNote:      checkout.CustomerNote,
			Origin:            "checkout",
			CheckoutToken:     checkout.Token.String(),
		},
		Lines:     lines,
		CreatedAt: now,
	}
}
