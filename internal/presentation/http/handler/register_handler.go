package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/application/session"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/internal/presentation/http/dto/request"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/internal/presentation/http/middleware"
)

// RegisterHandler exposes the register session engine over HTTP. Each
// session owns one in-progress transaction; all mutations route through
// the session so discounts and totals stay consistent.
type RegisterHandler struct {
	sessions      *session.Manager
	draftService  *service.DraftService
	blendService  *service.BlendService
	bundleService *service.BundleService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(
	sessions *session.Manager,
	draftService *service.DraftService,
	blendService *service.BlendService,
	bundleService *service.BundleService,
) *RegisterHandler {
	return &RegisterHandler{
		sessions:      sessions,
		draftService:  draftService,
		blendService:  blendService,
		bundleService: bundleService,
	}
}

// sessionState is the canonical register snapshot sent after every
// mutation, so the client never has to derive figures itself
func sessionState(s *session.Session) gin.H {
	totals := s.Totals()
	return gin.H{
		"session_id":  s.ID,
		"draft_id":    s.DraftID(),
		"customer_id": s.CustomerID(),
		"benefits":    s.Benefits(),
		"items":       s.Items(),
		"totals": gin.H{
			"subtotal":            pricing.Decimal(totals.SubtotalCents),
			"item_discounts":      pricing.Decimal(totals.ItemDiscountCents),
			"additional_discount": pricing.Decimal(totals.AdditionalDiscountCents),
			"total":               pricing.Decimal(totals.TotalCents),
			"paid":                pricing.Decimal(totals.PaidCents),
			"change":              pricing.Decimal(totals.ChangeCents),
			"payment_status":      totals.PaymentStatus,
		},
	}
}

// Open opens a new register session, optionally resuming a saved draft
func (h *RegisterHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	clinicID := middleware.GetClinicID(c)

	var req request.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.DraftID != nil {
		draftID, err := uuid.Parse(*req.DraftID)
		if err != nil {
			response.BadRequest(c, "Invalid draft ID")
			return
		}
		draft, err := h.draftService.GetDraft(c.Request.Context(), *userID, draftID, IsSuperAdmin(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		sess, err := h.sessions.Resume(c.Request.Context(), *userID, clinicID, draft)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, "Draft resumed", sessionState(sess))
		return
	}

	sess := h.sessions.Open(*userID, clinicID)
	response.Created(c, "Register session opened", sessionState(sess))
}

// GetState returns the current session snapshot
func (h *RegisterHandler) GetState(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.OK(c, "Session state retrieved", sessionState(sess))
}

// AddProduct adds a catalog product line
func (h *RegisterHandler) AddProduct(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	mode := enum.SaleModeQuantity
	if req.SaleMode != "" {
		mode = enum.SaleMode(req.SaleMode)
		if !mode.Valid() {
			response.BadRequest(c, "Invalid sale mode: "+req.SaleMode)
			return
		}
	}

	if _, err := sess.AddProduct(c.Request.Context(), productID, req.Quantity, mode); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", sessionState(sess))
}

// AddTemplate adds a fixed blend template line
func (h *RegisterHandler) AddTemplate(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AddTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		response.BadRequest(c, "Invalid template ID")
		return
	}

	item, err := h.blendService.BuildTemplateItem(c.Request.Context(), templateID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := sess.AddItem(c.Request.Context(), *item); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", sessionState(sess))
}

// AddBlend quotes a custom blend and adds it as a line
func (h *RegisterHandler) AddBlend(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.BlendQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := blendQuoteInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.blendService.BuildBlendItem(c.Request.Context(), input, GetUserEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := sess.AddItem(c.Request.Context(), *item); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", sessionState(sess))
}

// AddBundle adds a bundle line
func (h *RegisterHandler) AddBundle(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AddBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bundleID, err := uuid.Parse(req.BundleID)
	if err != nil {
		response.BadRequest(c, "Invalid bundle ID")
		return
	}

	item, err := h.bundleService.BuildBundleItem(c.Request.Context(), bundleID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	if _, err := sess.AddItem(c.Request.Context(), *item); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", sessionState(sess))
}

// AddMisc adds a free-form line (supplies, fees, credits)
func (h *RegisterHandler) AddMisc(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.AddMiscRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item := buildMiscItem(&request.TransactionItemRequest{
		Name:         req.Name,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		MiscCategory: req.MiscCategory,
		IsTaxable:    req.IsTaxable,
	})

	if _, err := sess.AddItem(c.Request.Context(), *item); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added", sessionState(sess))
}

// UpdateQuantity changes the quantity of an existing line
func (h *RegisterHandler) UpdateQuantity(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mode := enum.SaleModeQuantity
	if m := c.Query("sale_mode"); m != "" {
		mode = enum.SaleMode(m)
		if !mode.Valid() {
			response.BadRequest(c, "Invalid sale mode: "+m)
			return
		}
	}

	if err := sess.UpdateItemQuantity(c.Request.Context(), itemID, req.Quantity, mode); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", sessionState(sess))
}

// RemoveItem deletes a line from the session
func (h *RegisterHandler) RemoveItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := sess.RemoveItem(itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed", sessionState(sess))
}

// SetCustomer attaches or detaches the customer; every line's discount
// eligibility is re-evaluated against the new benefits
func (h *RegisterHandler) SetCustomer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	if err := sess.SetCustomer(c.Request.Context(), customerID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated", sessionState(sess))
}

// RefreshBenefits re-reads the attached customer's benefits; used when
// the register regains focus after the customer record may have changed
func (h *RegisterHandler) RefreshBenefits(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	changed, err := sess.RefreshBenefits(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	state := sessionState(sess)
	state["benefits_changed"] = changed
	response.OK(c, "Benefits refreshed", state)
}

// SetDiscount sets the whole-transaction extra discount
func (h *RegisterHandler) SetDiscount(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sess.SetAdditionalDiscount(enum.DiscountMode(req.Mode), req.Value)
	response.OK(c, "Discount updated", sessionState(sess))
}

// ToggleDiscountMode re-expresses the extra discount in the other mode
// without changing the payable total
func (h *RegisterHandler) ToggleDiscountMode(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	extra := sess.ToggleDiscountMode()
	state := sessionState(sess)
	state["discount_mode"] = extra.Mode
	state["discount_value"] = extra.Value
	response.OK(c, "Discount mode toggled", state)
}

// SetPayment records the tendered amount and payment method
func (h *RegisterHandler) SetPayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sess.SetPaid(req.PaidAmount)
	if req.PaymentMethod != "" {
		sess.SetPaymentMethod(req.PaymentMethod)
	}

	response.OK(c, "Payment updated", sessionState(sess))
}

// SaveDraft persists the session as a draft immediately
func (h *RegisterHandler) SaveDraft(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}

	draft, err := sess.SaveDraft(c.Request.Context(), name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft saved", gin.H{"draft": draft})
}

// Submit finalizes the session into a transaction. Concurrent submits of
// the same session are rejected; the idempotency middleware additionally
// absorbs network-level retries.
func (h *RegisterHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req request.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.Notes != nil {
		sess.SetNotes(req.Notes)
	}

	txn, err := sess.Submit(c.Request.Context(), req.StockOverrideConfirmed)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.sessions.Evict(sess.ID)
	response.Created(c, "Transaction created successfully", txn)
}

// Close abandons the session without submitting. Any saved draft is kept.
func (h *RegisterHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.sessions.Close(sessionID, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed", nil)
}

// session resolves the session from the path, enforcing ownership
func (h *RegisterHandler) session(c *gin.Context) (*session.Session, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return nil, false
	}

	sess, err := h.sessions.Get(sessionID, *userID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return sess, true
}
