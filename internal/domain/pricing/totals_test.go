package pricing

import (
	"math"
	"testing"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
)

func TestComputeTotals(t *testing.T) {
	items := []entity.TransactionItem{
		{
			ItemType:       enum.ItemTypeProduct,
			SaleMode:       enum.SaleModeQuantity,
			UnitPrice:      Cents(50),
			Quantity:       2,
			DiscountAmount: Cents(20),
			TotalPrice:     Cents(80),
		},
		{
			ItemType:   enum.ItemTypeConsultation,
			SaleMode:   enum.SaleModeQuantity,
			UnitPrice:  Cents(100),
			Quantity:   1,
			TotalPrice: Cents(100),
			IsService:  true,
		},
	}

	// 200.00 subtotal, 20.00 item discounts, 10% extra on the 180.00 base
	totals := ComputeTotals(items, AdditionalDiscount{Mode: enum.DiscountModePercent, Value: 10}, Cents(200))

	if totals.SubtotalCents != Cents(200) {
		t.Fatalf("expected subtotal 20000, got %d", totals.SubtotalCents)
	}
	if totals.ItemDiscountCents != Cents(20) {
		t.Fatalf("expected item discounts 2000, got %d", totals.ItemDiscountCents)
	}
	if totals.AdditionalDiscountCents != Cents(18) {
		t.Fatalf("expected additional discount 1800, got %d", totals.AdditionalDiscountCents)
	}
	if totals.TotalCents != Cents(162) {
		t.Fatalf("expected total 16200, got %d", totals.TotalCents)
	}
	if totals.PaymentStatus != enum.PaymentStatusPaid {
		t.Fatalf("expected paid status, got %s", totals.PaymentStatus)
	}
	if totals.ChangeCents != Cents(38) {
		t.Fatalf("expected change 3800, got %d", totals.ChangeCents)
	}
}

func TestComputeTotalsPaymentStatuses(t *testing.T) {
	items := []entity.TransactionItem{
		{ItemType: enum.ItemTypeProduct, UnitPrice: Cents(100), Quantity: 1, TotalPrice: Cents(100)},
	}

	tests := []struct {
		name string
		paid int64
		want enum.PaymentStatus
	}{
		{"unpaid", 0, enum.PaymentStatusPending},
		{"partial", Cents(40), enum.PaymentStatusPartial},
		{"exact", Cents(100), enum.PaymentStatusPaid},
		{"overpaid", Cents(150), enum.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(items, AdditionalDiscount{}, tt.paid)
			if totals.PaymentStatus != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, totals.PaymentStatus)
			}
		})
	}
}

func TestComputeTotalsCreditLine(t *testing.T) {
	items := []entity.TransactionItem{
		{ItemType: enum.ItemTypeProduct, UnitPrice: Cents(80), Quantity: 1, TotalPrice: Cents(80)},
		{ItemType: enum.ItemTypeMiscellaneous, UnitPrice: Cents(-15), Quantity: 1, TotalPrice: Cents(-15)},
	}

	totals := ComputeTotals(items, AdditionalDiscount{}, 0)
	if totals.SubtotalCents != Cents(65) {
		t.Fatalf("expected credit netted subtotal 6500, got %d", totals.SubtotalCents)
	}
	if totals.TotalCents != Cents(65) {
		t.Fatalf("expected total 6500, got %d", totals.TotalCents)
	}
}

func TestComputeTotalsVolumeLineContributesProportionalBase(t *testing.T) {
	sale := ComputeSale(Cents(50), 30, 10, enum.SaleModeVolume)
	items := []entity.TransactionItem{
		{
			ItemType:   enum.ItemTypeProduct,
			SaleMode:   enum.SaleModeVolume,
			UnitPrice:  Cents(50),
			Quantity:   10,
			TotalPrice: sale.TotalPriceCents,
		},
	}

	totals := ComputeTotals(items, AdditionalDiscount{}, 0)
	if totals.SubtotalCents != 1667 {
		t.Fatalf("expected proportional subtotal 1667, got %d", totals.SubtotalCents)
	}
}

func TestConvertModeRoundTrips(t *testing.T) {
	subtotal := Cents(180)

	d := AdditionalDiscount{Mode: enum.DiscountModePercent, Value: 10}
	asAmount := d.ConvertMode(subtotal, 0)
	if asAmount.Mode != enum.DiscountModeAmount || asAmount.Value != 18 {
		t.Fatalf("expected 18.00 amount, got %v %g", asAmount.Mode, asAmount.Value)
	}

	back := asAmount.ConvertMode(subtotal, 0)
	if back.Mode != enum.DiscountModePercent || math.Abs(back.Value-10) > 1e-9 {
		t.Fatalf("expected 10%%, got %v %g", back.Mode, back.Value)
	}

	// Effective discount must be identical in either mode
	if d.Resolve(subtotal, 0) != asAmount.Resolve(subtotal, 0) {
		t.Fatal("mode toggle changed the effective discount")
	}
}

func TestConvertModeEmptyCart(t *testing.T) {
	d := AdditionalDiscount{Mode: enum.DiscountModeAmount, Value: 5}
	converted := d.ConvertMode(0, 0)
	if converted.Mode != enum.DiscountModePercent || converted.Value != 0 {
		t.Fatalf("expected zero percent on empty base, got %g", converted.Value)
	}
}
