package pricing

import (
	"fmt"

	"github.com/clinova/pos-api/internal/domain/enum"
)

// Display-only conversion ratios between unit labels. These feed the
// operator tip and never affect price or stock deduction.
const (
	DropsPerML = 20.0
	MGPerML    = 1000.0
)

// SaleComputation is the normalized result of a quantity entry for a
// product: the price the line will charge and the amount of substance
// consumed, expressed in the product's smallest tracked unit.
type SaleComputation struct {
	TotalQuantity     float64
	TotalPriceCents   int64
	ConvertedQuantity float64
}

// ComputeSale converts a user-entered quantity into a priced line.
//
// Mode quantity sells whole containers: price scales with the count and
// the converted quantity multiplies out the container capacity. Mode
// volume sells a partial amount drawn from one container: price scales
// with the fraction of a container the amount represents, and the
// converted quantity is the entered amount itself.
func ComputeSale(unitPriceCents int64, containerCapacity, quantity float64, mode enum.SaleMode) SaleComputation {
	capacity := containerCapacity
	if capacity <= 0 {
		capacity = 1
	}

	switch mode {
	case enum.SaleModeVolume:
		proportion := quantity / capacity
		return SaleComputation{
			TotalQuantity:     quantity,
			TotalPriceCents:   roundCents(proportion * float64(unitPriceCents)),
			ConvertedQuantity: quantity,
		}
	default:
		return SaleComputation{
			TotalQuantity:     quantity,
			TotalPriceCents:   roundCents(quantity * float64(unitPriceCents)),
			ConvertedQuantity: quantity * capacity,
		}
	}
}

// ConvertUnitLabel converts an amount between display labels (ml, drops,
// mg). Returns false for unknown label pairs. Conversions route through
// ml: 1 ml = 20 drops, 1000 mg = 1 ml.
func ConvertUnitLabel(amount float64, from, to string) (float64, bool) {
	if from == to {
		return amount, true
	}

	ml, ok := toML(amount, from)
	if !ok {
		return 0, false
	}
	return fromML(ml, to)
}

func toML(amount float64, label string) (float64, bool) {
	switch label {
	case "ml":
		return amount, true
	case "drops":
		return amount / DropsPerML, true
	case "mg":
		return amount / MGPerML, true
	}
	return 0, false
}

func fromML(ml float64, label string) (float64, bool) {
	switch label {
	case "ml":
		return ml, true
	case "drops":
		return ml * DropsPerML, true
	case "mg":
		return ml * MGPerML, true
	}
	return 0, false
}

// UnitTip renders the operator hint for an entered amount, e.g.
// "5 ml ≈ 100 drops". Empty when no conversion applies.
func UnitTip(amount float64, label string) string {
	var converted float64
	var target string
	var ok bool

	switch label {
	case "ml":
		converted, ok = ConvertUnitLabel(amount, "ml", "drops")
		target = "drops"
	case "drops":
		converted, ok = ConvertUnitLabel(amount, "drops", "ml")
		target = "ml"
	case "mg":
		converted, ok = ConvertUnitLabel(amount, "mg", "drops")
		target = "drops"
	default:
		return ""
	}
	if !ok {
		return ""
	}
	return fmt.Sprintf("%g %s ≈ %g %s", amount, label, converted, target)
}
