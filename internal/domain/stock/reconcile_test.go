package stock

import (
	"errors"
	"testing"
)

func TestEnterWithinLimit(t *testing.T) {
	r := New(10)

	if err := r.Enter(5); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if r.State() != StateWithinLimit {
		t.Fatalf("expected within_limit, got %s", r.State())
	}
	if !r.Committed() {
		t.Fatal("expected entry to be committed")
	}
}

func TestEnterExactlyAvailableIsWithinLimit(t *testing.T) {
	r := New(10)
	if err := r.Enter(10); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if r.State() != StateWithinLimit {
		t.Fatalf("expected within_limit at the boundary, got %s", r.State())
	}
}

func TestOverLimitConfirmFlow(t *testing.T) {
	r := New(10)

	if err := r.Enter(15); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if r.State() != StateOverLimit {
		t.Fatalf("expected over_limit, got %s", r.State())
	}
	if r.Committed() {
		t.Fatal("over-limit entry must not commit without confirmation")
	}

	shortage, err := r.RequestConfirmation()
	if err != nil {
		t.Fatalf("request confirmation failed: %v", err)
	}
	if shortage.Requested != 15 || shortage.Available != 10 || shortage.Shortfall != 5 {
		t.Fatalf("unexpected shortage: %+v", shortage)
	}
	if r.State() != StateConfirmationPending {
		t.Fatalf("expected confirmation_pending, got %s", r.State())
	}

	if err := r.Confirm(); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !r.Committed() {
		t.Fatal("confirmed override must commit")
	}
	if r.Requested() != 15 {
		t.Fatalf("expected requested 15, got %g", r.Requested())
	}
}

func TestCancelReturnsToEntering(t *testing.T) {
	r := New(10)
	if err := r.Enter(15); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if _, err := r.RequestConfirmation(); err != nil {
		t.Fatalf("request confirmation failed: %v", err)
	}
	if err := r.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if r.State() != StateEntering {
		t.Fatalf("expected entering after cancel, got %s", r.State())
	}

	// The operator can now re-enter a quantity that fits
	if err := r.Enter(8); err != nil {
		t.Fatalf("re-enter failed: %v", err)
	}
	if !r.Committed() {
		t.Fatal("expected re-entered quantity to commit")
	}
}

func TestInvalidTransitions(t *testing.T) {
	r := New(10)

	if err := r.Enter(0); !errors.Is(err, ErrNonPositiveQuantity) {
		t.Fatalf("expected ErrNonPositiveQuantity, got %v", err)
	}
	if err := r.Enter(-2); !errors.Is(err, ErrNonPositiveQuantity) {
		t.Fatalf("expected ErrNonPositiveQuantity, got %v", err)
	}

	if err := r.Confirm(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for confirm from entering, got %v", err)
	}
	if _, err := r.RequestConfirmation(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for prompt from entering, got %v", err)
	}

	if err := r.Enter(5); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := r.Enter(6); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for double enter, got %v", err)
	}
	if err := r.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for cancel from within_limit, got %v", err)
	}
}

func TestCheckBundle(t *testing.T) {
	r, results := CheckBundle([]ConstituentAvailability{
		{ProductID: "a", Name: "Lavender", Required: 20, Available: 50},
		{ProductID: "b", Name: "Peppermint", Required: 30, Available: 10},
	})

	if r.State() != StateOverLimit {
		t.Fatalf("expected over_limit when a constituent is short, got %s", r.State())
	}
	if results[0].OK != true || results[1].OK != false {
		t.Fatalf("unexpected per-constituent results: %+v", results)
	}

	r, _ = CheckBundle([]ConstituentAvailability{
		{ProductID: "a", Required: 20, Available: 50},
	})
	if r.State() != StateWithinLimit {
		t.Fatalf("expected within_limit when all constituents fit, got %s", r.State())
	}
}
