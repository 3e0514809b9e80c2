package session

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/pkg/apperror"
)

type fakeBenefits struct {
	rates map[uuid.UUID]float64
}

func (f *fakeBenefits) GetBenefits(_ context.Context, customerID *uuid.UUID) (entity.MemberBenefits, error) {
	if customerID == nil {
		return entity.MemberBenefits{MembershipTier: enum.MembershipTierNone}, nil
	}
	rate := f.rates[*customerID]
	return entity.MemberBenefits{MembershipTier: enum.MembershipTierGold, DiscountPercentage: rate}, nil
}

type fakeProducts struct {
	products map[uuid.UUID]*entity.Product
}

func (f *fakeProducts) GetProductByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	return p, nil
}

type fakeDrafts struct {
	mu    sync.Mutex
	saves []*service.SaveDraftInput
	id    uuid.UUID
}

func (f *fakeDrafts) SaveDraft(_ context.Context, input *service.SaveDraftInput) (*entity.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, input)
	if input.DraftID != nil {
		f.id = *input.DraftID
	} else if f.id == uuid.Nil {
		f.id = uuid.New()
	}
	return &entity.Draft{ID: f.id, Name: input.Name, FormData: input.FormData}, nil
}

func (f *fakeDrafts) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

type fakeSubmitter struct {
	calls   atomic.Int32
	release chan struct{} // when non-nil, CreateTransaction blocks on it
}

func (f *fakeSubmitter) CreateTransaction(_ context.Context, _ *service.CreateTransactionInput) (*entity.Transaction, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return &entity.Transaction{ID: uuid.New()}, nil
}

type fixture struct {
	benefits  *fakeBenefits
	products  *fakeProducts
	drafts    *fakeDrafts
	submitter *fakeSubmitter
	oil       *entity.Product
	member    uuid.UUID
}

func newFixture() *fixture {
	member := uuid.New()
	oil := &entity.Product{
		ID:                uuid.New(),
		Name:              "Lavender Oil",
		CurrentStock:      100,
		ContainerCapacity: 30,
		SellingPrice:      pricing.Cents(50),
		Discounts:         entity.PermissiveDiscountFlags(),
	}
	return &fixture{
		benefits:  &fakeBenefits{rates: map[uuid.UUID]float64{member: 20}},
		products:  &fakeProducts{products: map[uuid.UUID]*entity.Product{oil.ID: oil}},
		drafts:    &fakeDrafts{},
		submitter: &fakeSubmitter{},
		oil:       oil,
		member:    member,
	}
}

func (f *fixture) deps() Deps {
	return Deps{Benefits: f.benefits, Products: f.products, Drafts: f.drafts, Submit: f.submitter}
}

func (f *fixture) session(settle time.Duration) *Session {
	return New(uuid.New(), uuid.New(), f.deps(), settle)
}

func TestAddProductAppliesMemberDiscount(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	item, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	if item.DiscountAmount != pricing.Cents(20) {
		t.Fatalf("expected 2000 cents discount, got %d", item.DiscountAmount)
	}
	if item.TotalPrice != pricing.Cents(80) {
		t.Fatalf("expected line total 8000 cents, got %d", item.TotalPrice)
	}

	totals := s.Totals()
	if totals.TotalCents != pricing.Cents(80) {
		t.Fatalf("expected total 8000 cents, got %d", totals.TotalCents)
	}
}

func TestRemovingCustomerClearsDiscounts(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	if _, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	// Back to walk-in: every discount must reset
	if err := s.SetCustomer(ctx, nil); err != nil {
		t.Fatalf("clear customer failed: %v", err)
	}

	items := s.Items()
	if items[0].DiscountAmount != 0 {
		t.Fatalf("expected discount cleared, got %d", items[0].DiscountAmount)
	}
	if s.Totals().TotalCents != pricing.Cents(100) {
		t.Fatalf("expected undiscounted total 10000 cents, got %d", s.Totals().TotalCents)
	}
}

func TestUpdateItemQuantityReprices(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	item, err := s.AddProduct(ctx, f.oil.ID, 1, enum.SaleModeQuantity)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	// Switch the line to a 10 ml partial draw from the 30 ml container
	if err := s.UpdateItemQuantity(ctx, item.ID, 10, enum.SaleModeVolume); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	items := s.Items()
	if items[0].TotalPrice != 1667 {
		t.Fatalf("expected proportional price 1667 cents, got %d", items[0].TotalPrice)
	}
	if items[0].ConvertedQuantity != 10 {
		t.Fatalf("expected 10 ml consumed, got %g", items[0].ConvertedQuantity)
	}
}

func TestVolumeSaleNeverDiscounted(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	item, err := s.AddProduct(ctx, f.oil.ID, 10, enum.SaleModeVolume)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if item.DiscountAmount != 0 {
		t.Fatalf("expected no discount on volume sale, got %d", item.DiscountAmount)
	}
}

func TestToggleDiscountModeKeepsEffectiveValue(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	s.SetAdditionalDiscount(enum.DiscountModePercent, 10)
	before := s.Totals().TotalCents

	converted := s.ToggleDiscountMode()
	if converted.Mode != enum.DiscountModeAmount {
		t.Fatalf("expected amount mode, got %s", converted.Mode)
	}
	if s.Totals().TotalCents != before {
		t.Fatalf("toggle changed the total: %d != %d", s.Totals().TotalCents, before)
	}
}

func TestSaveDraftMintsAndReusesIdentity(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, f.oil.ID, 1, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	first, err := s.SaveDraft(ctx, "counter 1")
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if s.DraftID() == nil || *s.DraftID() != first.ID {
		t.Fatal("expected session to adopt the minted draft identity")
	}

	second, err := s.SaveDraft(ctx, "")
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected second save to reuse the draft identity")
	}
	if f.drafts.saves[1].DraftID == nil || *f.drafts.saves[1].DraftID != first.ID {
		t.Fatal("expected second save input to carry the minted identity")
	}
}

func TestAutosaveDebounceCoalescesBurst(t *testing.T) {
	f := newFixture()
	s := f.session(30 * time.Millisecond)
	ctx := context.Background()

	// A typing burst: several edits inside one settle window
	item, err := s.AddProduct(ctx, f.oil.ID, 1, enum.SaleModeQuantity)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	for q := 2.0; q <= 5; q++ {
		if err := s.UpdateItemQuantity(ctx, item.ID, q, enum.SaleModeQuantity); err != nil {
			t.Fatalf("update quantity failed: %v", err)
		}
	}

	time.Sleep(150 * time.Millisecond)

	if got := f.drafts.saveCount(); got != 1 {
		t.Fatalf("expected exactly one autosave, got %d", got)
	}

	// The saved snapshot carries the last-issued state
	var form FormData
	if err := json.Unmarshal(f.drafts.saves[0].FormData, &form); err != nil {
		t.Fatalf("snapshot unmarshal failed: %v", err)
	}
	if len(form.Items) != 1 || form.Items[0].Quantity != 5 {
		t.Fatalf("expected last quantity 5 in snapshot, got %+v", form.Items)
	}
}

func TestCloseCancelsPendingAutosave(t *testing.T) {
	f := newFixture()
	s := f.session(30 * time.Millisecond)
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, f.oil.ID, 1, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	s.Close()

	time.Sleep(100 * time.Millisecond)
	if got := f.drafts.saveCount(); got != 0 {
		t.Fatalf("expected no autosave after close, got %d", got)
	}
	if !s.Closed() {
		t.Fatal("expected session closed")
	}
}

func TestDoubleSubmitPerformsOneCreate(t *testing.T) {
	f := newFixture()
	f.submitter.release = make(chan struct{})
	s := f.session(time.Hour)
	ctx := context.Background()

	if _, err := s.AddProduct(ctx, f.oil.ID, 1, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(ctx, false)
		firstDone <- err
	}()

	// Wait until the first submit is inside the create call
	deadline := time.After(time.Second)
	for f.submitter.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first submit never reached the create call")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// The second click must be rejected without a second create
	if _, err := s.Submit(ctx, false); err == nil {
		t.Fatal("expected conflict for concurrent submit")
	}

	close(f.submitter.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	if got := f.submitter.calls.Load(); got != 1 {
		t.Fatalf("expected exactly one create call, got %d", got)
	}
	if !s.Closed() {
		t.Fatal("expected session closed after submit")
	}
	if s.DraftID() != nil {
		t.Fatal("expected draft identity released after submit")
	}
}

func TestSubmitCarriesSessionState(t *testing.T) {
	f := newFixture()
	recorder := &recordingSubmitter{}
	deps := f.deps()
	deps.Submit = recorder
	s := New(uuid.New(), uuid.New(), deps, time.Hour)
	ctx := context.Background()

	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	if _, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	s.SetAdditionalDiscount(enum.DiscountModeAmount, 5)
	s.SetPaid(100)
	s.SetPaymentMethod("cash")

	if _, err := s.Submit(ctx, true); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	in := recorder.input
	if in.CustomerID == nil || *in.CustomerID != f.member {
		t.Fatal("expected customer carried into create input")
	}
	if len(in.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(in.Items))
	}
	if in.AdditionalDiscount != 5 || in.DiscountMode != enum.DiscountModeAmount {
		t.Fatalf("unexpected discount input: %s %g", in.DiscountMode, in.AdditionalDiscount)
	}
	if in.PaidAmount != 100 || in.PaymentMethod != "cash" {
		t.Fatalf("unexpected payment input: %g %s", in.PaidAmount, in.PaymentMethod)
	}
	if !in.StockOverrideConfirmed {
		t.Fatal("expected override confirmation carried through")
	}
}

type recordingSubmitter struct {
	input *service.CreateTransactionInput
}

func (r *recordingSubmitter) CreateTransaction(_ context.Context, input *service.CreateTransactionInput) (*entity.Transaction, error) {
	r.input = input
	return &entity.Transaction{ID: uuid.New()}, nil
}

func TestResumeReappliesCurrentRate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Draft saved while the member had a 20% rate
	form := FormData{
		CustomerID: &f.member,
		Items: []entity.TransactionItem{
			{
				ID:              uuid.New(),
				ItemType:        enum.ItemTypeProduct,
				Name:            f.oil.Name,
				Quantity:        2,
				SaleMode:        enum.SaleModeQuantity,
				UnitPrice:       f.oil.SellingPrice,
				TotalPrice:      pricing.Cents(80),
				DiscountAmount:  pricing.Cents(20),
				DiscountPercent: 20,
				ProductID:       &f.oil.ID,
			},
		},
		DiscountMode: enum.DiscountModeAmount,
	}
	data, _ := json.Marshal(form)
	draft := &entity.Draft{ID: uuid.New(), Name: "held sale", FormData: data}

	// The rate dropped to 10% since the save
	f.benefits.rates[f.member] = 10

	s := f.session(time.Hour)
	if err := s.Resume(ctx, draft); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	items := s.Items()
	if items[0].DiscountAmount != pricing.Cents(10) {
		t.Fatalf("expected refreshed 1000 cents discount, got %d", items[0].DiscountAmount)
	}
	if s.Totals().TotalCents != pricing.Cents(90) {
		t.Fatalf("expected total 9000 cents, got %d", s.Totals().TotalCents)
	}
	if s.DraftID() == nil || *s.DraftID() != draft.ID {
		t.Fatal("expected resumed session to own the draft identity")
	}
}

func TestSavedDraftResumesWithPricesIntact(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s := f.session(time.Hour)
	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	if _, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	draft, err := s.SaveDraft(ctx, "held sale")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	s.Close()

	resumed := f.session(time.Hour)
	if err := resumed.Resume(ctx, draft); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	items := resumed.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].UnitPrice != pricing.Cents(50) {
		t.Fatalf("expected unit price 5000 cents after resume, got %d", items[0].UnitPrice)
	}
	if items[0].DiscountAmount != pricing.Cents(20) {
		t.Fatalf("expected discount 2000 cents after resume, got %d", items[0].DiscountAmount)
	}
	if resumed.Totals().TotalCents != pricing.Cents(80) {
		t.Fatalf("expected total 8000 cents after resume, got %d", resumed.Totals().TotalCents)
	}
}

func TestResumeRejectsCorruptedDraft(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)

	draft := &entity.Draft{ID: uuid.New(), FormData: []byte("{not json")}
	if err := s.Resume(context.Background(), draft); err == nil {
		t.Fatal("expected error for corrupted draft data")
	}
}

func TestRefreshBenefitsDetectsRateChange(t *testing.T) {
	f := newFixture()
	s := f.session(time.Hour)
	ctx := context.Background()

	if err := s.SetCustomer(ctx, &f.member); err != nil {
		t.Fatalf("set customer failed: %v", err)
	}
	if _, err := s.AddProduct(ctx, f.oil.ID, 2, enum.SaleModeQuantity); err != nil {
		t.Fatalf("add product failed: %v", err)
	}

	changed, err := s.RefreshBenefits(ctx)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if changed {
		t.Fatal("expected no change for an unchanged rate")
	}

	f.benefits.rates[f.member] = 30
	changed, err = s.RefreshBenefits(ctx)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !changed {
		t.Fatal("expected change detection for new rate")
	}
	if s.Items()[0].DiscountAmount != pricing.Cents(30) {
		t.Fatalf("expected re-evaluated discount 3000 cents, got %d", s.Items()[0].DiscountAmount)
	}
}

func TestManagerOwnershipAndEviction(t *testing.T) {
	f := newFixture()
	m := NewManager(f.deps(), time.Hour)

	owner := uuid.New()
	clinic := uuid.New()
	s := m.Open(owner, clinic)

	if _, err := m.Get(s.ID, owner); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := m.Get(s.ID, uuid.New()); err == nil {
		t.Fatal("expected forbidden for non-owner")
	}
	if _, err := m.Get(uuid.New(), owner); err == nil {
		t.Fatal("expected not found for unknown session")
	}

	if err := m.Close(s.ID, owner); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := m.Get(s.ID, owner); err == nil {
		t.Fatal("expected not found after close")
	}

	s2 := m.Open(owner, clinic)
	m.Evict(s2.ID)
	if _, err := m.Get(s2.ID, owner); err == nil {
		t.Fatal("expected not found after eviction")
	}
}
