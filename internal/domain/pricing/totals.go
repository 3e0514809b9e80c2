package pricing

import (
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
)

// Totals is the aggregate money picture of a transaction, derived purely
// from the item collection and the discount/payment inputs
type Totals struct {
	SubtotalCents           int64
	ItemDiscountCents       int64
	AdditionalDiscountCents int64
	TotalCents              int64
	PaidCents               int64
	ChangeCents             int64
	PaymentStatus           enum.PaymentStatus
}

// AdditionalDiscount is the manual extra discount entered on top of
// per-item discounts, either as an absolute amount or as a percentage of
// the discounted subtotal
type AdditionalDiscount struct {
	Mode  enum.DiscountMode
	Value float64 // decimal amount, or percent when Mode is percent
}

// discountBase is the amount a percentage discount applies to: the
// subtotal net of item-level discounts. Both entry paths use this base.
func discountBase(subtotal, itemDiscounts int64) int64 {
	return subtotal - itemDiscounts
}

// Resolve converts the entered discount to cents against the given base
func (d AdditionalDiscount) Resolve(subtotalCents, itemDiscountCents int64) int64 {
	switch d.Mode {
	case enum.DiscountModePercent:
		base := discountBase(subtotalCents, itemDiscountCents)
		return roundCents(float64(base) * d.Value / 100)
	default:
		return Cents(d.Value)
	}
}

// ConvertMode losslessly re-expresses the entered discount in the other
// mode against the same discounted base, so toggling the entry mode never
// changes the effective discount.
func (d AdditionalDiscount) ConvertMode(subtotalCents, itemDiscountCents int64) AdditionalDiscount {
	base := discountBase(subtotalCents, itemDiscountCents)
	if d.Mode == enum.DiscountModePercent {
		return AdditionalDiscount{
			Mode:  enum.DiscountModeAmount,
			Value: Decimal(roundCents(float64(base) * d.Value / 100)),
		}
	}
	converted := AdditionalDiscount{Mode: enum.DiscountModePercent}
	if base != 0 {
		converted.Value = float64(Cents(d.Value)) / float64(base) * 100
	}
	return converted
}

// ComputeTotals recomputes the aggregate figures from scratch. It is run
// on every item, discount or payment mutation; there is no cached state
// to go stale. Credit miscellaneous lines carry a negative unit price and
// net out of the subtotal naturally.
func ComputeTotals(items []entity.TransactionItem, extra AdditionalDiscount, paidCents int64) Totals {
	var subtotal, itemDiscounts int64
	for _, item := range items {
		subtotal += lineBase(&item)
		itemDiscounts += item.DiscountAmount
	}

	additional := extra.Resolve(subtotal, itemDiscounts)
	total := subtotal - itemDiscounts - additional

	t := Totals{
		SubtotalCents:           subtotal,
		ItemDiscountCents:       itemDiscounts,
		AdditionalDiscountCents: additional,
		TotalCents:              total,
		PaidCents:               paidCents,
		PaymentStatus:           enum.PaymentStatusPending,
	}
	if paidCents >= total {
		t.ChangeCents = paidCents - total
		t.PaymentStatus = enum.PaymentStatusPaid
	} else if paidCents > 0 {
		t.PaymentStatus = enum.PaymentStatusPartial
	}
	return t
}

// lineBase is an item's contribution to the subtotal before discounts.
// Custom blends and volume sales price as a whole (their total already
// includes no discount); simple quantity lines contribute unit price
// times quantity.
func lineBase(item *entity.TransactionItem) int64 {
	if item.ItemType == enum.ItemTypeCustomBlend || item.SaleMode == enum.SaleModeVolume {
		return item.TotalPrice + item.DiscountAmount
	}
	return roundCents(float64(item.UnitPrice) * item.Quantity)
}
