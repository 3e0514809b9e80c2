package pricing

import (
	"fmt"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/pkg/apperror"
)

// MinimumMarginFloor is the informational minimum suggested for a blend
// selling price, as a multiple of ingredient cost. Not enforced.
const MinimumMarginFloor = 1.10

// BlendCost sums the ingredient lines of a custom blend: each line
// contributes quantity times the ingredient's per-unit selling price.
func BlendCost(ingredients []entity.BlendIngredient) int64 {
	var total int64
	for _, ing := range ingredients {
		total += roundCents(ing.Quantity * float64(ing.CostPerUnit))
	}
	return total
}

// BlendQuote is a computed blend price alongside its margin bookkeeping
type BlendQuote struct {
	TotalCostCents    int64
	MarginPercent     float64
	SellingPriceCents int64
	FloorPriceCents   int64 // informational minimum, cost * 1.10
}

// QuoteMargin prices a blend by cost plus a margin percentage
func QuoteMargin(totalCostCents int64, marginPercent float64) BlendQuote {
	markup := roundCents(float64(totalCostCents) * marginPercent / 100)
	return BlendQuote{
		TotalCostCents:    totalCostCents,
		MarginPercent:     marginPercent,
		SellingPriceCents: totalCostCents + markup,
		FloorPriceCents:   roundCents(float64(totalCostCents) * MinimumMarginFloor),
	}
}

// QuoteManual prices a blend at an operator-entered final price and
// back-computes the equivalent margin for display. The stored cost is
// untouched.
func QuoteManual(totalCostCents, finalPriceCents int64) BlendQuote {
	quote := BlendQuote{
		TotalCostCents:    totalCostCents,
		SellingPriceCents: finalPriceCents,
		FloorPriceCents:   roundCents(float64(totalCostCents) * MinimumMarginFloor),
	}
	if totalCostCents > 0 {
		quote.MarginPercent = (float64(finalPriceCents)-float64(totalCostCents)) / float64(totalCostCents) * 100
	}
	return quote
}

// DeriveMargin recovers the margin a blend was originally priced at from
// its stored unit price and ingredient cost. Re-opening the blend editor
// with refreshed ingredient costs then reproduces an equivalent price
// instead of freezing a stale absolute number.
func DeriveMargin(oldUnitPriceCents, oldTotalCostCents int64) float64 {
	if oldTotalCostCents <= 0 {
		return 0
	}
	return (float64(oldUnitPriceCents)/float64(oldTotalCostCents) - 1) * 100
}

// ValidateBlend checks a custom blend before it is committed to the
// transaction. Violations are collected and returned together.
func ValidateBlend(name, containerType string, ingredients []entity.BlendIngredient) []apperror.FieldError {
	var errs []apperror.FieldError

	if name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Blend name is required"})
	}
	if containerType == "" {
		errs = append(errs, apperror.FieldError{Field: "container_type", Message: "Container type is required"})
	}
	if len(ingredients) == 0 {
		errs = append(errs, apperror.FieldError{Field: "ingredients", Message: "At least one ingredient is required"})
	}
	for idx, ing := range ingredients {
		if ing.Quantity <= 0 {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", idx),
				Message: "Ingredient quantity must be greater than zero",
			})
		}
	}

	return errs
}
