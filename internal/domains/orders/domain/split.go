package domain

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/openmall/order-api-server/internal/domains/catalog/domain"
)

var (
	ErrUnknownCategory      = errors.New("line has an unknown fulfillment category")
	ErrMixedCategories      = errors.New("non-logistics lines have mixed fulfillment categories")
	ErrMixedSupplierPayload = errors.New("multi-supplier order mixes logistics and non-logistics lines")
)

// ClassifiedLine pairs an order line with its fulfillment category.
type ClassifiedLine struct {
	Line     OrderLine
	Category catalogdomain.FulfillmentCategory
}

// SupplierGroup is the set of logistics lines settled against one supplier,
// with the monetary aggregates of a prospective per-supplier order.
type SupplierGroup struct {
	SupplierID         int64
	Lines              []OrderLine
	Amount             decimal.Decimal
	UndiscountedAmount decimal.Decimal
}

// LineIDs lists the identifiers of the group's lines.
func (g SupplierGroup) LineIDs() []int64 {
	ids := make([]int64, 0, len(g.Lines))
	for _, line := range g.Lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// SplitPlan is the pure outcome of partitioning an order's lines: logistics
// lines grouped per supplier, everything else staying with the original
// aggregate.
type SplitPlan struct {
	Groups []SupplierGroup
	Others []ClassifiedLine
}

// PlanSplit partitions classified lines by supplier. It fails fast on any
// unknown category and on logistics lines without a supplier, before any
// mutation can happen downstream.
func PlanSplit(lines []ClassifiedLine) (*SplitPlan, error) {
	plan := &SplitPlan{}
	grouped := map[int64]*SupplierGroup{}
	for _, classified := range lines {
		if classified.Category == catalogdomain.CategoryUnknown {
			return nil, ErrUnknownCategory
		}
		if !classified.Category.RequiresShipment() {
			plan.Others = append(plan.Others, classified)
			continue
		}
		if classified.Line.SupplierID == nil {
			return nil, ErrSupplierMissing
		}
		supplierID := *classified.Line.SupplierID
		group, ok := grouped[supplierID]
		if !ok {
			group = &SupplierGroup{SupplierID: supplierID}
			grouped[supplierID] = group
		}
		group.Lines = append(group.Lines, classified.Line)
		group.Amount = group.Amount.Add(classified.Line.TotalGross())
		group.UndiscountedAmount = group.UndiscountedAmount.Add(classified.Line.UndiscountedTotalNet)
	}
	for _, group := range grouped {
		plan.Groups = append(plan.Groups, *group)
	}
	// Deterministic group order keeps event and order creation stable.
	sort.Slice(plan.Groups, func(i, j int) bool {
		return plan.Groups[i].SupplierID < plan.Groups[j].SupplierID
	})
	return plan, nil
}

// RequiresSplit reports whether the plan materializes new per-supplier orders.
func (p *SplitPlan) RequiresSplit() bool {
	return len(p.Groups) > 1
}

// SingleSupplier returns the sole logistics supplier, if exactly one exists.
func (p *SplitPlan) SingleSupplier() *int64 {
	if len(p.Groups) != 1 {
		return nil
	}
	supplierID := p.Groups[0].SupplierID
	return &supplierID
}

// ControllingCategory decides the post-finalization branch. Non-logistics
// lines must be category-homogeneous; a plan with only logistics lines is
// controlled by the logistics category.
func (p *SplitPlan) ControllingCategory() (catalogdomain.FulfillmentCategory, error) {
	if len(p.Others) == 0 {
		if len(p.Groups) == 0 {
			return catalogdomain.CategoryUnknown, ErrNoLines
		}
		return catalogdomain.CategoryLogistics, nil
	}
	category := p.Others[0].Category
	for _, classified := range p.Others[1:] {
		if classified.Category != category {
			return catalogdomain.CategoryUnknown, ErrMixedCategories
		}
	}
	return category, nil
}

// ValidateForSplit rejects the combination left open by the source system:
// an order splitting across suppliers while also carrying non-logistics
// lines would silently discard those lines, so it is refused outright.
func (p *SplitPlan) ValidateForSplit() error {
	if p.RequiresSplit() && len(p.Others) > 0 {
		return ErrMixedSupplierPayload
	}
	return nil
}
