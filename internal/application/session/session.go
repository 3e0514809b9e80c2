package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/google/uuid"
)

// Narrow views over the application services, so tests can substitute
// in-memory fakes.
type BenefitsSource interface {
	GetBenefits(ctx context.Context, customerID *uuid.UUID) (entity.MemberBenefits, error)
}

type ProductSource interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
}

type DraftStore interface {
	SaveDraft(ctx context.Context, input *service.SaveDraftInput) (*entity.Draft, error)
}

type Submitter interface {
	CreateTransaction(ctx context.Context, input *service.CreateTransactionInput) (*entity.Transaction, error)
}

// Deps are the collaborators a session needs. All are treated as
// fallible; a failed call never tears the session down.
type Deps struct {
	Benefits BenefitsSource
	Products ProductSource
	Drafts   DraftStore
	Submit   Submitter
}

// FormData is the serialized snapshot of an in-progress transaction,
// stored verbatim in a draft row and restored on resume.
type FormData struct {
	CustomerID    *uuid.UUID               `json:"customer_id,omitempty"`
	Items         []entity.TransactionItem `json:"items"`
	DiscountMode  enum.DiscountMode        `json:"discount_mode"`
	DiscountValue float64                  `json:"discount_value"`
	PaidAmount    float64                  `json:"paid_amount"`
	PaymentMethod string                   `json:"payment_method,omitempty"`
	Notes         *string                  `json:"notes,omitempty"`
}

// Session owns one in-progress transaction. Every mutation reapplies
// discount eligibility and recomputes the totals from scratch, so
// editing a quantity or swapping the customer can never leave a stale
// figure behind. The aggregate is exclusively owned: no two sessions
// edit the same draft.
type Session struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	ClinicID uuid.UUID

	deps Deps

	mu            sync.Mutex
	draftID       *uuid.UUID
	draftName     string
	customerID    *uuid.UUID
	benefits      entity.MemberBenefits
	items         []entity.TransactionItem
	extra         pricing.AdditionalDiscount
	paidCents     int64
	paymentMethod string
	notes         *string
	totals        pricing.Totals
	closed        bool

	autosave *Debouncer

	// submitGuard is acquired synchronously before any persistence work
	// begins and released on every exit path, so a double-fired submit
	// results in exactly one create call.
	submitGuard sync.Mutex
}

// New opens an empty session for the given operator.
func New(userID, clinicID uuid.UUID, deps Deps, settleDelay time.Duration) *Session {
	return &Session{
		ID:       uuid.New(),
		UserID:   userID,
		ClinicID: clinicID,
		deps:     deps,
		extra:    pricing.AdditionalDiscount{Mode: enum.DiscountModeAmount},
		autosave: NewDebouncer(settleDelay),
	}
}

// Resume hydrates a session from a saved draft. The stored discounts are
// not trusted: the customer's current rate is refetched and every item
// re-evaluated, so a rate change since the draft was saved takes effect
// immediately.
func (s *Session) Resume(ctx context.Context, draft *entity.Draft) error {
	var form FormData
	if err := json.Unmarshal(draft.FormData, &form); err != nil {
		return apperror.NewBadRequestError("Draft data is corrupted")
	}

	benefits, err := s.deps.Benefits.GetBenefits(ctx, form.CustomerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draftID = &draft.ID
	s.draftName = draft.Name
	s.customerID = form.CustomerID
	s.benefits = benefits
	s.items = form.Items
	s.extra = pricing.AdditionalDiscount{Mode: form.DiscountMode, Value: form.DiscountValue}
	s.paidCents = pricing.Cents(form.PaidAmount)
	s.paymentMethod = form.PaymentMethod
	s.notes = form.Notes

	s.reapplyDiscountsLocked(ctx)
	s.recomputeLocked()
	return nil
}

// AddProduct builds a priced line for a catalog product and appends it.
// Mode quantity sells whole containers; mode volume sells a partial
// amount drawn from one.
func (s *Session) AddProduct(ctx context.Context, productID uuid.UUID, quantity float64, mode enum.SaleMode) (*entity.TransactionItem, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}

	product, err := s.deps.Products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sale := pricing.ComputeSale(product.SellingPrice, product.Capacity(), quantity, mode)

	item := entity.TransactionItem{
		ID:                uuid.New(),
		ItemType:          enum.ItemTypeProduct,
		Name:              product.Name,
		Quantity:          quantity,
		SaleMode:          mode,
		UnitPrice:         product.SellingPrice,
		TotalPrice:        sale.TotalPriceCents,
		UnitID:            product.UnitID,
		ConvertedQuantity: sale.ConvertedQuantity,
		IsService:         product.IsService,
		ProductID:         &product.ID,
	}
	if product.IsService {
		item.ItemType = enum.ItemTypeConsultation
	}
	if product.Unit != nil {
		item.BaseUnitLabel = product.Unit.BaseLabel
	}

	pricing.ApplyDiscount(&item, s.discountRate(), &product.Discounts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.recomputeLocked()
	s.markDirtyLocked()
	return &item, nil
}

// AddItem appends a pre-built line (custom blend, bundle, fixed blend or
// miscellaneous) after re-running discount eligibility for it.
func (s *Session) AddItem(ctx context.Context, item entity.TransactionItem) (*entity.TransactionItem, error) {
	if item.Quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	pricing.ApplyDiscount(&item, s.discountRate(), s.resolveFlags(ctx, &item))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	s.recomputeLocked()
	s.markDirtyLocked()
	return &item, nil
}

// UpdateItemQuantity re-enters a line's quantity, repricing it and
// re-running discount eligibility.
func (s *Session) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity float64, mode enum.SaleMode) error {
	if quantity <= 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be greater than zero"},
		})
	}

	s.mu.Lock()
	idx := s.findItemLocked(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return apperror.NewNotFoundError("Item")
	}
	item := s.items[idx]
	s.mu.Unlock()

	item.Quantity = quantity
	item.SaleMode = mode

	var flags *entity.DiscountFlags
	if item.ProductID != nil {
		if product, err := s.deps.Products.GetProductByID(ctx, *item.ProductID); err == nil && product != nil {
			sale := pricing.ComputeSale(product.SellingPrice, product.Capacity(), quantity, mode)
			item.UnitPrice = product.SellingPrice
			item.TotalPrice = sale.TotalPriceCents
			item.ConvertedQuantity = sale.ConvertedQuantity
			flags = &product.Discounts
		}
	} else if item.ItemType == enum.ItemTypeCustomBlend {
		// Blends price as a whole; scale the chosen selling price.
		item.TotalPrice = pricing.Cents(pricing.Decimal(item.UnitPrice) * quantity)
	}

	pricing.ApplyDiscount(&item, s.discountRate(), flags)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.findItemLocked(itemID)
	if idx < 0 {
		return apperror.NewNotFoundError("Item")
	}
	s.items[idx] = item
	s.recomputeLocked()
	s.markDirtyLocked()
	return nil
}

// RemoveItem drops a line from the transaction.
func (s *Session) RemoveItem(itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findItemLocked(itemID)
	if idx < 0 {
		return apperror.NewNotFoundError("Item")
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.recomputeLocked()
	s.markDirtyLocked()
	return nil
}

// SetCustomer switches the active customer and re-evaluates every item's
// discount against the new rate. A nil ID selects the walk-in customer,
// which clears all member discounts.
func (s *Session) SetCustomer(ctx context.Context, customerID *uuid.UUID) error {
	benefits, err := s.deps.Benefits.GetBenefits(ctx, customerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = customerID
	s.benefits = benefits
	s.reapplyDiscountsLocked(ctx)
	s.recomputeLocked()
	s.markDirtyLocked()
	return nil
}

// RefreshBenefits refetches the active customer's discount rate and, if
// it changed while the register was out of focus, re-evaluates all
// items. Returns whether anything changed.
func (s *Session) RefreshBenefits(ctx context.Context) (bool, error) {
	s.mu.Lock()
	customerID := s.customerID
	current := s.benefits.DiscountPercentage
	s.mu.Unlock()

	benefits, err := s.deps.Benefits.GetBenefits(ctx, customerID)
	if err != nil {
		return false, err
	}
	if benefits.DiscountPercentage == current {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.benefits = benefits
	s.reapplyDiscountsLocked(ctx)
	s.recomputeLocked()
	s.markDirtyLocked()
	return true, nil
}

// SetAdditionalDiscount sets the manual extra discount, entered either
// as an absolute amount or as a percent of the discounted subtotal.
func (s *Session) SetAdditionalDiscount(mode enum.DiscountMode, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = pricing.AdditionalDiscount{Mode: mode, Value: value}
	s.recomputeLocked()
	s.markDirtyLocked()
}

// ToggleDiscountMode re-expresses the entered extra discount in the
// other mode without changing its effective value.
func (s *Session) ToggleDiscountMode() pricing.AdditionalDiscount {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = s.extra.ConvertMode(s.totals.SubtotalCents, s.totals.ItemDiscountCents)
	s.recomputeLocked()
	return s.extra
}

// SetPaid records the tendered amount.
func (s *Session) SetPaid(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paidCents = pricing.Cents(amount)
	s.recomputeLocked()
	s.markDirtyLocked()
}

// SetPaymentMethod records the payment method.
func (s *Session) SetPaymentMethod(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethod = method
	s.markDirtyLocked()
}

// SetNotes records free-text notes.
func (s *Session) SetNotes(notes *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.markDirtyLocked()
}

// SetDraftName names the draft the autosave writes to.
func (s *Session) SetDraftName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftName = name
}

// Totals returns the current aggregate figures.
func (s *Session) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Items returns a copy of the current line collection.
func (s *Session) Items() []entity.TransactionItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.TransactionItem, len(s.items))
	copy(out, s.items)
	return out
}

// DraftID returns the draft identity minted by the first save, or nil
// before any save has happened.
func (s *Session) DraftID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftID
}

// CustomerID returns the active customer, nil for walk-in.
func (s *Session) CustomerID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerID
}

// Benefits returns the discount rate in effect.
func (s *Session) Benefits() entity.MemberBenefits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.benefits
}

// SaveDraft persists the current form immediately. The first save mints
// the draft identity; later saves reuse it so one row is updated in
// place.
func (s *Session) SaveDraft(ctx context.Context, name string) (*entity.Draft, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Session is closed")
	}
	if name != "" {
		s.draftName = name
	}
	input := &service.SaveDraftInput{
		UserID:   s.UserID,
		DraftID:  s.draftID,
		Name:     s.draftName,
		FormData: s.snapshotLocked(),
	}
	s.mu.Unlock()

	draft, err := s.deps.Drafts.SaveDraft(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.closed {
		s.draftID = &draft.ID
	}
	s.mu.Unlock()
	return draft, nil
}

// Submit finalizes the transaction. The guard is taken synchronously
// before any persistence work, so firing submit twice in rapid
// succession performs exactly one create; the loser gets a conflict. On
// failure the form is left untouched for retry and the guard is
// released.
func (s *Session) Submit(ctx context.Context, overrideConfirmed bool) (*entity.Transaction, error) {
	if !s.submitGuard.TryLock() {
		return nil, apperror.NewConflictError("A submission is already in progress")
	}
	defer s.submitGuard.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, apperror.NewBadRequestError("Session is closed")
	}
	items := make([]entity.TransactionItem, len(s.items))
	copy(items, s.items)
	input := &service.CreateTransactionInput{
		UserID:                 s.UserID,
		CustomerID:             s.customerID,
		DraftID:                s.draftID,
		Items:                  items,
		DiscountMode:           s.extra.Mode,
		AdditionalDiscount:     s.extra.Value,
		PaymentMethod:          s.paymentMethod,
		PaidAmount:             pricing.Decimal(s.paidCents),
		Notes:                  s.notes,
		StockOverrideConfirmed: overrideConfirmed,
	}
	s.mu.Unlock()

	txn, err := s.deps.Submit.CreateTransaction(ctx, input)
	if err != nil {
		return nil, err
	}

	// Submission ends the editing session and its draft identity.
	s.mu.Lock()
	s.closed = true
	s.draftID = nil
	s.mu.Unlock()
	s.autosave.Stop()
	return txn, nil
}

// Close abandons the editing session: pending autosave timers are
// cancelled, never fired late, and the draft identity is released. The
// draft row itself survives for later resumption.
func (s *Session) Close() {
	s.autosave.Stop()
	s.mu.Lock()
	s.closed = true
	s.draftID = nil
	s.mu.Unlock()
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) discountRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.benefits.DiscountPercentage
}

func (s *Session) findItemLocked(itemID uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// resolveFlags fetches the originating product's discount flags. An
// unresolvable product yields nil flags, which deterministically resets
// the item's discount to zero.
func (s *Session) resolveFlags(ctx context.Context, item *entity.TransactionItem) *entity.DiscountFlags {
	if item.ProductID == nil {
		return nil
	}
	product, err := s.deps.Products.GetProductByID(ctx, *item.ProductID)
	if err != nil || product == nil {
		return nil
	}
	return &product.Discounts
}

func (s *Session) reapplyDiscountsLocked(ctx context.Context) {
	rate := s.benefits.DiscountPercentage
	for i := range s.items {
		pricing.ApplyDiscount(&s.items[i], rate, s.resolveFlags(ctx, &s.items[i]))
	}
}

func (s *Session) recomputeLocked() {
	s.totals = pricing.ComputeTotals(s.items, s.extra, s.paidCents)
}

func (s *Session) snapshotLocked() []byte {
	form := FormData{
		CustomerID:    s.customerID,
		Items:         s.items,
		DiscountMode:  s.extra.Mode,
		DiscountValue: s.extra.Value,
		PaidAmount:    pricing.Decimal(s.paidCents),
		PaymentMethod: s.paymentMethod,
		Notes:         s.notes,
	}
	data, _ := json.Marshal(form)
	return data
}

// markDirtyLocked schedules a debounced autosave. Each edit cancels the
// pending timer and starts a new settle window, so a typing burst writes
// the draft once.
func (s *Session) markDirtyLocked() {
	if s.closed || (len(s.items) == 0 && s.customerID == nil) {
		return
	}
	s.autosave.Trigger(func() {
		ctx := infraRepo.WithClinic(context.Background(), s.ClinicID)
		if _, err := s.SaveDraft(ctx, ""); err != nil {
			log.Printf("Autosave failed for session %s: %v", s.ID, err)
		}
	})
}
