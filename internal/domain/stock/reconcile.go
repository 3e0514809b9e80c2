// Package stock implements the quantity-versus-stock reconciliation flow.
// Stock sufficiency is never a hard block in this system: a shortage only
// raises a confirmation gate, and a confirmed override commits the sale
// letting recorded stock go negative. Physical reconciliation happens out
// of band.
package stock

import (
	"errors"
	"fmt"
)

// State of one add/edit reconciliation attempt
type State string

const (
	StateEntering            State = "entering"
	StateWithinLimit         State = "within_limit"
	StateOverLimit           State = "over_limit"
	StateConfirmationPending State = "confirmation_pending"
	StateConfirmed           State = "confirmed"
	StateCancelled           State = "cancelled"
)

var (
	// ErrNonPositiveQuantity is returned when leaving Entering with a
	// quantity that is zero or negative
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidTransition is returned for moves the state machine does
	// not allow
	ErrInvalidTransition = errors.New("invalid reconciliation transition")
)

// Shortage describes an over-limit condition for the confirmation prompt
type Shortage struct {
	Requested float64 `json:"requested"`
	Available float64 `json:"available"`
	Shortfall float64 `json:"shortfall"`
}

func (s Shortage) String() string {
	return fmt.Sprintf("requested %g, available %g, short %g", s.Requested, s.Available, s.Shortfall)
}

// Reconciliation tracks one quantity entry against available stock
type Reconciliation struct {
	state     State
	requested float64
	available float64
}

// New starts a reconciliation in the Entering state
func New(available float64) *Reconciliation {
	return &Reconciliation{state: StateEntering, available: available}
}

// State returns the current state
func (r *Reconciliation) State() State {
	return r.state
}

// Shortage returns the prompt payload; only meaningful once over limit
func (r *Reconciliation) Shortage() Shortage {
	return Shortage{
		Requested: r.requested,
		Available: r.available,
		Shortfall: r.requested - r.available,
	}
}

// Enter submits the typed quantity. A positive quantity within available
// stock moves straight to WithinLimit; one exceeding it moves to
// OverLimit awaiting the operator's decision.
func (r *Reconciliation) Enter(quantity float64) error {
	if r.state != StateEntering {
		return ErrInvalidTransition
	}
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	r.requested = quantity
	if quantity <= r.available {
		r.state = StateWithinLimit
	} else {
		r.state = StateOverLimit
	}
	return nil
}

// RequestConfirmation raises the override prompt for an over-limit entry
func (r *Reconciliation) RequestConfirmation() (Shortage, error) {
	if r.state != StateOverLimit {
		return Shortage{}, ErrInvalidTransition
	}
	r.state = StateConfirmationPending
	return r.Shortage(), nil
}

// Confirm commits the over-limit quantity. Stock is allowed to go
// negative from here on.
func (r *Reconciliation) Confirm() error {
	if r.state != StateConfirmationPending {
		return ErrInvalidTransition
	}
	r.state = StateConfirmed
	return nil
}

// Cancel abandons the override and returns to Entering so the operator
// can type a different quantity
func (r *Reconciliation) Cancel() error {
	if r.state != StateConfirmationPending && r.state != StateOverLimit {
		return ErrInvalidTransition
	}
	r.state = StateEntering
	r.requested = 0
	return nil
}

// Committed reports whether the entry may be added to the transaction
func (r *Reconciliation) Committed() bool {
	return r.state == StateWithinLimit || r.state == StateConfirmed
}

// Requested returns the entered quantity
func (r *Reconciliation) Requested() float64 {
	return r.requested
}

// ConstituentAvailability is the per-product result of a bundle check
type ConstituentAvailability struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	OK        bool    `json:"ok"`
}

// CheckBundle aggregates availability across a bundle's constituents for
// the given bundle quantity. The overall state is over limit if any
// constituent is short; the same confirmation flow then applies to the
// bundle as a whole.
func CheckBundle(constituents []ConstituentAvailability) (*Reconciliation, []ConstituentAvailability) {
	allOK := true
	results := make([]ConstituentAvailability, len(constituents))
	for i, c := range constituents {
		c.OK = c.Available >= c.Required
		if !c.OK {
			allOK = false
		}
		results[i] = c
	}

	r := &Reconciliation{state: StateEntering, available: 1}
	if !allOK {
		// Force the over-limit path with a unit shortfall marker; the
		// per-constituent results carry the real numbers.
		r.available = 0
	}
	_ = r.Enter(1)
	return r, results
}
