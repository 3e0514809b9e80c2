package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/pricing"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/internal/presentation/http/dto/request"
	"github.com/clinova/pos-api/internal/presentation/http/dto/response"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	productService     *service.ProductService
	blendService       *service.BlendService
	bundleService      *service.BundleService
	customerService    *service.CustomerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionService *service.TransactionService,
	productService *service.ProductService,
	blendService *service.BlendService,
	bundleService *service.BundleService,
	customerService *service.CustomerService,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		productService:     productService,
		blendService:       blendService,
		bundleService:      bundleService,
		customerService:    customerService,
	}
}

// List handles listing transactions (supports both page-based and cursor-based pagination)
func (h *TransactionHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	isSuperAdmin := IsSuperAdmin(c)

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, isSuperAdmin)
		return
	}

	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		SkipUserFilter: isSuperAdmin,
	}

	if filter.Status != "" {
		status := enum.TransactionStatus(filter.Status)
		params.Status = &status
	}
	if filter.PaymentStatus != "" {
		ps := enum.PaymentStatus(filter.PaymentStatus)
		params.PaymentStatus = &ps
	}
	if filter.CustomerID != "" {
		if custID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &custID
		}
	}
	if filter.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", filter.DateFrom); err == nil {
			params.StartDate = &t
		}
	}
	if filter.DateTo != "" {
		if t, err := time.Parse("2006-01-02", filter.DateTo); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			params.EndDate = &end
		}
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// listWithCursor handles listing transactions with cursor-based pagination
func (h *TransactionHandler) listWithCursor(c *gin.Context, userID uuid.UUID, isSuperAdmin bool) {
	limit := 15
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	params := &repository.TransactionCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		SkipUserFilter: isSuperAdmin,
	}

	if status := c.Query("status"); status != "" {
		s := enum.TransactionStatus(status)
		params.Status = &s
	}
	if custIDStr := c.Query("customer_id"); custIDStr != "" {
		if custID, err := uuid.Parse(custIDStr); err == nil {
			params.CustomerID = &custID
		}
	}

	result, err := h.transactionService.ListTransactionsWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Transactions retrieved successfully", result)
}

// Create handles the direct transaction create path. Lines arrive as
// typed payloads and are composed and priced server-side; client prices
// are never trusted.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	benefits, err := h.customerService.GetBenefits(ctx, req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.composeItems(c, benefits.DiscountPercentage, req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	mode := enum.DiscountModeAmount
	if req.DiscountMode != "" {
		mode = enum.DiscountMode(req.DiscountMode)
	}

	txn, err := h.transactionService.CreateTransaction(ctx, &service.CreateTransactionInput{
		UserID:                 *userID,
		CustomerID:             req.CustomerID,
		DraftID:                req.DraftID,
		Items:                  items,
		DiscountMode:           mode,
		AdditionalDiscount:     req.AdditionalDiscount,
		PaymentMethod:          req.PaymentMethod,
		PaidAmount:             req.PaidAmount,
		Notes:                  req.Notes,
		StockOverrideConfirmed: req.StockOverrideConfirmed,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", txn)
}

// composeItems builds fully priced transaction lines from the typed
// request payloads
func (h *TransactionHandler) composeItems(c *gin.Context, discountRate float64, reqItems []request.TransactionItemRequest) ([]entity.TransactionItem, error) {
	ctx := c.Request.Context()
	items := make([]entity.TransactionItem, 0, len(reqItems))

	for i, ri := range reqItems {
		mode := enum.SaleModeQuantity
		if ri.SaleMode != "" {
			mode = enum.SaleMode(ri.SaleMode)
		}

		var (
			item *entity.TransactionItem
			err  error
		)

		switch enum.ItemType(ri.ItemType) {
		case enum.ItemTypeProduct, enum.ItemTypeConsultation:
			if ri.ProductID == nil {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: product_id is required", i))
			}
			item, err = h.productService.BuildProductItem(ctx, *ri.ProductID, ri.Quantity, mode, discountRate)

		case enum.ItemTypeFixedBlend:
			if ri.BlendTemplateID == nil {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: blend_template_id is required", i))
			}
			item, err = h.blendService.BuildTemplateItem(ctx, *ri.BlendTemplateID, ri.Quantity)
			if err == nil {
				pricing.ApplyDiscount(item, discountRate, nil)
			}

		case enum.ItemTypeCustomBlend:
			if ri.CustomBlend == nil {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: custom_blend payload is required", i))
			}
			input, convErr := blendQuoteInput(ri.CustomBlend)
			if convErr != nil {
				return nil, convErr
			}
			item, err = h.blendService.BuildBlendItem(ctx, input, GetUserEmail(c))
			if err == nil && ri.Quantity != 1 {
				item.Quantity = ri.Quantity
				item.TotalPrice = pricing.Cents(pricing.Decimal(item.UnitPrice) * ri.Quantity)
			}

		case enum.ItemTypeBundle:
			if ri.BundleID == nil {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: bundle_id is required", i))
			}
			item, err = h.bundleService.BuildBundleItem(ctx, *ri.BundleID, ri.Quantity)

		case enum.ItemTypeMiscellaneous:
			if ri.Name == "" {
				return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: name is required", i))
			}
			item = buildMiscItem(&ri)

		default:
			return nil, apperror.NewBadRequestError(fmt.Sprintf("items[%d]: unknown item type %q", i, ri.ItemType))
		}
		if err != nil {
			return nil, err
		}

		items = append(items, *item)
	}

	return items, nil
}

// buildMiscItem composes a free-form line. Negative unit prices are kept
// as-is so credits reduce the subtotal.
func buildMiscItem(ri *request.TransactionItemRequest) *entity.TransactionItem {
	unitCents := pricing.Cents(ri.UnitPrice)
	category := enum.MiscCategoryOther
	if ri.MiscCategory != "" {
		category = enum.MiscCategory(ri.MiscCategory)
	}
	return &entity.TransactionItem{
		ID:           uuid.New(),
		ItemType:     enum.ItemTypeMiscellaneous,
		Name:         ri.Name,
		Quantity:     ri.Quantity,
		SaleMode:     enum.SaleModeQuantity,
		UnitPrice:    unitCents,
		TotalPrice:   pricing.Cents(ri.UnitPrice * ri.Quantity),
		MiscCategory: &category,
		IsTaxable:    ri.IsTaxable,
	}
}

// blendQuoteInput converts the wire payload into a service quote input
func blendQuoteInput(req *request.BlendQuoteRequest) (*service.QuoteBlendInput, error) {
	ingredients := make([]entity.BlendIngredient, 0, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		productID, err := uuid.Parse(ing.ProductID)
		if err != nil {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("ingredients[%d]: invalid product ID", i))
		}
		ingredients = append(ingredients, entity.BlendIngredient{
			ProductID: productID,
			Quantity:  ing.Quantity,
		})
	}
	return &service.QuoteBlendInput{
		Name:          req.Name,
		ContainerType: req.ContainerType,
		Ingredients:   ingredients,
		MarginPercent: req.MarginPercent,
		ManualPrice:   req.ManualPrice,
	}, nil
}

// Get handles getting a single transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// GetUnpaid handles listing transactions with an outstanding balance
func (h *TransactionHandler) GetUnpaid(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.transactionService.GetUnpaidTransactions(c.Request.Context(), *userID, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Unpaid transactions retrieved successfully", result)
}

// Cancel handles cancelling a transaction and restoring its stock
func (h *TransactionHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.CancelTransaction(c.Request.Context(), *userID, id, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction cancelled successfully", nil)
}

// PayDue handles settling an outstanding balance
func (h *TransactionHandler) PayDue(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.PayDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.transactionService.PayDue(c.Request.Context(), *userID, id, req.Amount, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", nil)
}
