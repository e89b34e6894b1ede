package domain

// Kind enumerates the catalog-level product type kinds.
type Kind string

const (
	KindNormal   Kind = "normal"
	KindGiftCard Kind = "gift_card"
	KindOther    Kind = "other"
)

// FulfillmentCategory is the fulfillment path an order line follows after payment.
type FulfillmentCategory string

const (
	CategoryIntegral       FulfillmentCategory = "integral"
	CategoryNonRedemption  FulfillmentCategory = "non_redemption"
	CategoryRedemption     FulfillmentCategory = "redemption"
	CategoryLogistics      FulfillmentCategory = "logistics"
	CategorySelfPickup     FulfillmentCategory = "self_pickup"
	CategoryCheckup        FulfillmentCategory = "checkup"
	CategoryCheckupManager FulfillmentCategory = "checkup_manager"
	CategoryOther          FulfillmentCategory = "other"
	// CategoryUnknown marks a descriptor the classifier could not place.
	// Downstream processing must reject the whole operation on sight of it.
	CategoryUnknown FulfillmentCategory = "unknown"
)

// ProductTypeDescriptor is the immutable classification input sourced from catalog data.
type ProductTypeDescriptor struct {
	Kind               Kind
	IsDigital          bool
	IsShippingRequired bool
}

// Classify maps a product-type descriptor to its fulfillment category.
// Pure and total; anything outside the decision table falls to CategoryUnknown.
func Classify(descriptor ProductTypeDescriptor) FulfillmentCategory {
	switch descriptor.Kind {
	case KindGiftCard:
		return CategoryIntegral
	case KindOther:
		return CategoryNonRedemption
	case KindNormal:
		switch {
		case descriptor.IsDigital && !descriptor.IsShippingRequired:
			return CategoryRedemption
		case !descriptor.IsDigital && descriptor.IsShippingRequired:
			return CategoryLogistics
		case !descriptor.IsDigital && !descriptor.IsShippingRequired:
			return CategorySelfPickup
		}
	}
	return CategoryUnknown
}

// RequiresShipment reports whether lines of this category are settled per supplier.
func (c FulfillmentCategory) RequiresShipment() bool {
	return c == CategoryLogistics
}

// AllocatesRedemptionCode reports whether paid lines of this category receive
// a single-use code for in-person verification.
func (c FulfillmentCategory) AllocatesRedemptionCode() bool {
	return c == CategoryRedemption || c == CategorySelfPickup
}
