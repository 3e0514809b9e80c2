package pricing

import (
	"math"
	"testing"

	"github.com/clinova/pos-api/internal/domain/enum"
)

func TestComputeSaleQuantityMode(t *testing.T) {
	// 2 bottles of 30 ml at 50.00 each
	res := ComputeSale(Cents(50), 30, 2, enum.SaleModeQuantity)

	if res.TotalPriceCents != Cents(100) {
		t.Fatalf("expected total 10000 cents, got %d", res.TotalPriceCents)
	}
	if res.TotalQuantity != 2 {
		t.Fatalf("expected quantity 2, got %g", res.TotalQuantity)
	}
	if res.ConvertedQuantity != 60 {
		t.Fatalf("expected 60 ml consumed, got %g", res.ConvertedQuantity)
	}
}

func TestComputeSaleVolumeMode(t *testing.T) {
	// 10 ml drawn from a 30 ml container priced at 50.00
	res := ComputeSale(Cents(50), 30, 10, enum.SaleModeVolume)

	if res.TotalPriceCents != 1667 {
		t.Fatalf("expected proportional price 1667 cents, got %d", res.TotalPriceCents)
	}
	if res.ConvertedQuantity != 10 {
		t.Fatalf("expected 10 ml consumed, got %g", res.ConvertedQuantity)
	}
}

func TestComputeSaleZeroCapacityDefaultsToOne(t *testing.T) {
	res := ComputeSale(Cents(5), 0, 3, enum.SaleModeQuantity)
	if res.ConvertedQuantity != 3 {
		t.Fatalf("expected converted quantity 3, got %g", res.ConvertedQuantity)
	}
	if res.TotalPriceCents != Cents(15) {
		t.Fatalf("expected total 1500 cents, got %d", res.TotalPriceCents)
	}
}

func TestConvertUnitLabel(t *testing.T) {
	tests := []struct {
		amount   float64
		from, to string
		want     float64
		ok       bool
	}{
		{5, "ml", "drops", 100, true},
		{100, "drops", "ml", 5, true},
		{2000, "mg", "ml", 2, true},
		{1, "ml", "mg", 1000, true},
		{40, "drops", "mg", 2000, true},
		{3, "ml", "ml", 3, true},
		{1, "ml", "oz", 0, false},
		{1, "kg", "ml", 0, false},
	}

	for _, tt := range tests {
		got, ok := ConvertUnitLabel(tt.amount, tt.from, tt.to)
		if ok != tt.ok {
			t.Fatalf("%g %s -> %s: expected ok=%v, got %v", tt.amount, tt.from, tt.to, tt.ok, ok)
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%g %s -> %s: expected %g, got %g", tt.amount, tt.from, tt.to, tt.want, got)
		}
	}
}

func TestUnitTip(t *testing.T) {
	if tip := UnitTip(5, "ml"); tip != "5 ml ≈ 100 drops" {
		t.Fatalf("unexpected tip: %q", tip)
	}
	if tip := UnitTip(2, "pcs"); tip != "" {
		t.Fatalf("expected empty tip for unconvertible label, got %q", tip)
	}
}

func TestCentsRoundsHalfAwayFromZero(t *testing.T) {
	if got := Cents(0.005); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := Cents(-0.005); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := Decimal(1667); got != 16.67 {
		t.Fatalf("expected 16.67, got %g", got)
	}
}
