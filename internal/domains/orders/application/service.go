package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogdomain "github.com/openmall/order-api-server/internal/domains/catalog/domain"
	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

// maxCodeAttempts bounds redemption-code generation retries inside one
// transaction; the 12-digit namespace makes hitting it pathological.
const maxCodeAttempts = 10

// Service orchestrates the orders use cases: payment finalization with
// multi-supplier splitting, plus order reads.
type Service struct {
	repo    ports.Repository
	catalog catalogports.Source
	search  ports.SearchIndexer
	intents ports.IntentOrchestrator
	now     func() time.Time
	newCode func() string
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithIntentOrchestrator wires the post-commit payment-intent step.
func WithIntentOrchestrator(orchestrator ports.IntentOrchestrator) Option {
	return func(s *Service) { s.intents = orchestrator }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeGenerator overrides redemption-code generation.
func WithCodeGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, catalog catalogports.Source, search ports.SearchIndexer, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		search:  search,
		now:     func() time.Time { return time.Now().UTC() },
		newCode: domain.NewRedemptionCode,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FinalizePayment transitions an unpaid order to its paid state. Logistics
// lines spanning several suppliers materialize one paid order per supplier
// and delete the original; otherwise the order is mutated in place. The whole
// step sequence commits atomically; the gateway intent request runs after the
// commit and its failures are reported without rolling anything back.
func (s *Service) FinalizePayment(ctx context.Context, input types.FinalizePaymentInput) (*types.FinalizationResult, error) {
	result := &types.FinalizationResult{}
	err := s.repo.Atomically(ctx, func(tx ports.Tx) error {
		order, err := tx.GetForUpdate(ctx, input.OrderID)
		if err != nil {
			return mapError(err)
		}
		if !order.OwnedBy(input.Actor.UserID) || !order.AwaitingPayment() {
			return mapError(ports.ErrNotFound)
		}
		if err := order.Validate(); err != nil {
			return mapError(err)
		}

		classified, err := s.classifyLines(ctx, order.Lines)
		if err != nil {
			return err
		}
		plan, err := domain.PlanSplit(classified)
		if err != nil {
			return mapError(err)
		}
		if err := plan.ValidateForSplit(); err != nil {
			return mapError(err)
		}
		category, err := plan.ControllingCategory()
		if err != nil {
			return mapError(err)
		}

		now := s.now()
		var events []domain.Event
		if plan.RequiresSplit() {
			orders, splitEvents, err := s.materializeSplit(ctx, tx, order, plan, input.Actor, now)
			if err != nil {
				return err
			}
			result.Orders = orders
			result.Split = true
			events = splitEvents
		} else {
			if err := s.finalizeInPlace(ctx, tx, order, plan, category, now); err != nil {
				return err
			}
			result.Orders = []*domain.Order{order}
			events = []domain.Event{domain.NewOrderFullyPaid(order.ID, input.Actor, now)}
		}
		return tx.AppendEvents(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	if s.intents != nil {
		result.Intents = s.intents.RequestIntents(ctx, result.Orders)
	}
	return result, nil
}

// materializeSplit creates one paid order per supplier group, moves the
// group's lines over, refreshes each new order's search vector, and deletes
// the superseded aggregate.
func (s *Service) materializeSplit(ctx context.Context, tx ports.Tx, order *domain.Order, plan *domain.SplitPlan, actor domain.Actor, now time.Time) ([]*domain.Order, []domain.Event, error) {
	orders := make([]*domain.Order, 0, len(plan.Groups))
	events := make([]domain.Event, 0, len(plan.Groups))
	for _, group := range plan.Groups {
		created, err := tx.CreateOrder(ctx, order.SpawnSupplierOrder(group, now))
		if err != nil {
			return nil, nil, err
		}
		if err := tx.ReassignLines(ctx, group.LineIDs(), created.ID); err != nil {
			return nil, nil, err
		}
		created.Lines = reassignedLines(group.Lines, created.ID)
		if s.search != nil {
			if err := tx.UpdateSearchVector(ctx, created.ID, s.search.ComputeKeywords(created)); err != nil {
				return nil, nil, err
			}
		}
		events = append(events, domain.NewOrderFullyPaid(created.ID, actor, now))
		orders = append(orders, created)
	}
	if err := tx.DeleteOrder(ctx, order.ID); err != nil {
		return nil, nil, err
	}
	return orders, events, nil
}

// finalizeInPlace mutates the original order to paid/full and applies the
// category-specific post-processing.
func (s *Service) finalizeInPlace(ctx context.Context, tx ports.Tx, order *domain.Order, plan *domain.SplitPlan, category catalogdomain.FulfillmentCategory, now time.Time) error {
	if err := order.MarkFullyPaid(order.ChargeableTotal(), plan.SingleSupplier(), now); err != nil {
		return mapError(err)
	}
	if err := tx.SaveOrder(ctx, order,
		"status", "charge_status", "total_charged_amount", "supplier_id", "payment_at"); err != nil {
		return err
	}
	if category.AllocatesRedemptionCode() && !order.HasRedemptionCodes() {
		code, err := s.allocateRedemptionCode(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.AssignRedemptionCode(ctx, order.LineIDs(), code); err != nil {
			return err
		}
		for i := range order.Lines {
			order.Lines[i].RedemptionCode = code
		}
	}
	return nil
}

// allocateRedemptionCode retries generation until the code is absent from the
// shared namespace. The caller holds the transaction, so the check and the
// assignment commit together.
func (s *Service) allocateRedemptionCode(ctx context.Context, tx ports.Tx) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		exists, err := tx.RedemptionCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", validation.NewError("redemptionCode", validation.CodeUnique,
		fmt.Sprintf("could not allocate a unique redemption code after %d attempts", maxCodeAttempts))
}

// classifyLines resolves each line's fulfillment category from catalog data,
// failing fast on classification gaps before any mutation happens.
func (s *Service) classifyLines(ctx context.Context, lines []domain.OrderLine) ([]domain.ClassifiedLine, error) {
	classified := make([]domain.ClassifiedLine, 0, len(lines))
	for _, line := range lines {
		descriptor, err := s.catalog.DescriptorForVariant(ctx, line.VariantID)
		if err != nil {
			if errors.Is(err, catalogports.ErrVariantNotFound) {
				return nil, validation.NewError("variant", validation.CodeNotFound, "variant not found")
			}
			return nil, err
		}
		category := catalogdomain.Classify(descriptor)
		if category == catalogdomain.CategoryUnknown {
			return nil, validation.NewError("productType", validation.CodeInvalidProductType, "unknown product type")
		}
		classified = append(classified, domain.ClassifiedLine{Line: line, Category: category})
	}
	return classified, nil
}

func reassignedLines(lines []domain.OrderLine, orderID int64) []domain.OrderLine {
	moved := make([]domain.OrderLine, len(lines))
	copy(moved, lines)
	for i := range moved {
		moved[i].OrderID = orderID
	}
	return moved
}

// GetOrderByID loads a single order aggregate with its lines. ErrNotFound
// passes through untranslated so the boundary can name the resource.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns all orders.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// EventsForOrder returns the append-only event log of an order.
func (s *Service) EventsForOrder(ctx context.Context, orderID int64) ([]domain.Event, error) {
	return s.repo.EventsForOrder(ctx, orderID)
}

var _ ports.Service = (*Service)(nil)
