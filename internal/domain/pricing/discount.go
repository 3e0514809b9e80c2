package pricing

import (
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
)

// DiscountInput is everything the eligibility rule needs about one item
// and the active customer. Flags is the originating product's discount
// flag set; nil means the product record could not be resolved.
type DiscountInput struct {
	ItemType           enum.ItemType
	SaleMode           enum.SaleMode
	IsService          bool
	UnitPriceCents     int64
	Quantity           float64
	DiscountPercentage float64
	Flags              *entity.DiscountFlags
}

// DiscountResult is the outcome of one eligibility evaluation. When the
// item is ineligible the amounts are zero and FinalPriceCents is the plain
// unit price times quantity, so applying the result always clears any
// previously held discount.
type DiscountResult struct {
	Eligible           bool
	DiscountCents      int64
	FinalPriceCents    int64
	DiscountPercentage float64
}

// EvaluateDiscount decides member-discount eligibility and computes the
// discounted price. The conditions run in a fixed order; the first failing
// one disqualifies the item:
//
//  1. no customer discount rate
//  2. service items
//  3. volume (partial) sales
//  4. item types other than product and fixed blend
//  5. the product's discountable_for_members flag
//
// Fixed blends have no concrete product record, so a permissive flag set
// is synthesized for them when Flags is nil. Products with an unresolvable
// record stay ineligible, which deterministically resets any stale
// discount to zero.
func EvaluateDiscount(in DiscountInput) DiscountResult {
	base := roundCents(float64(in.UnitPriceCents) * in.Quantity)
	ineligible := DiscountResult{FinalPriceCents: base}

	if in.DiscountPercentage <= 0 {
		return ineligible
	}
	if in.IsService {
		return ineligible
	}
	if in.SaleMode == enum.SaleModeVolume {
		return ineligible
	}
	if in.ItemType != enum.ItemTypeProduct && in.ItemType != enum.ItemTypeFixedBlend {
		return ineligible
	}

	flags := in.Flags
	if flags == nil {
		if in.ItemType == enum.ItemTypeFixedBlend {
			permissive := entity.PermissiveDiscountFlags()
			flags = &permissive
		} else {
			return ineligible
		}
	}
	if !flags.DiscountableForMembers {
		return ineligible
	}

	discount := roundCents(float64(in.UnitPriceCents) * in.Quantity * in.DiscountPercentage / 100)
	return DiscountResult{
		Eligible:           true,
		DiscountCents:      discount,
		FinalPriceCents:    base - discount,
		DiscountPercentage: in.DiscountPercentage,
	}
}

// ApplyDiscount runs the eligibility rule for an item and writes the
// result back onto it, so changing the customer or editing a quantity can
// never leave a stale discount in place.
func ApplyDiscount(item *entity.TransactionItem, discountPercentage float64, flags *entity.DiscountFlags) {
	if item.ItemType == enum.ItemTypeCustomBlend || item.SaleMode == enum.SaleModeVolume {
		// Custom blends keep their chosen selling price; volume totals are
		// proportional and already set by ComputeSale. Only clear stale
		// discounts here.
		item.DiscountAmount = 0
		item.DiscountPercent = 0
		return
	}

	res := EvaluateDiscount(DiscountInput{
		ItemType:           item.ItemType,
		SaleMode:           item.SaleMode,
		IsService:          item.IsService,
		UnitPriceCents:     item.UnitPrice,
		Quantity:           item.Quantity,
		DiscountPercentage: discountPercentage,
		Flags:              flags,
	})

	item.DiscountAmount = res.DiscountCents
	item.DiscountPercent = res.DiscountPercentage
	item.TotalPrice = res.FinalPriceCents
}
