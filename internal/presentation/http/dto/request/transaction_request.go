package request

import "github.com/google/uuid"

// TransactionItemRequest is one line of a direct transaction create.
// ItemType discriminates the payload: product lines carry a product_id,
// fixed blends a blend_template_id, custom blends a blend quote, bundles
// a bundle_id, and miscellaneous lines a free-form name and price.
type TransactionItemRequest struct {
	ItemType string  `json:"item_type" binding:"required,oneof=product fixed_blend custom_blend bundle consultation miscellaneous"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	SaleMode string  `json:"sale_mode" binding:"omitempty,oneof=quantity volume"`

	ProductID       *uuid.UUID         `json:"product_id"`
	BlendTemplateID *uuid.UUID         `json:"blend_template_id"`
	BundleID        *uuid.UUID         `json:"bundle_id"`
	CustomBlend     *BlendQuoteRequest `json:"custom_blend"`

	// Miscellaneous lines
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"` // negative for credit lines
	MiscCategory string  `json:"misc_category" binding:"omitempty,oneof=supply service fee credit other"`
	IsTaxable    bool    `json:"is_taxable"`
}

// CreateTransactionRequest represents a direct transaction create
type CreateTransactionRequest struct {
	CustomerID             *uuid.UUID               `json:"customer_id"`
	DraftID                *uuid.UUID               `json:"draft_id"`
	Items                  []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountMode           string                   `json:"discount_mode" binding:"omitempty,oneof=amount percent"`
	AdditionalDiscount     float64                  `json:"additional_discount" binding:"min=0"`
	PaymentMethod          string                   `json:"payment_method"`
	PaidAmount             float64                  `json:"paid_amount" binding:"min=0"`
	Notes                  *string                  `json:"notes"`
	StockOverrideConfirmed bool                     `json:"stock_override_confirmed"`
}

// TransactionFilterRequest represents transaction filter parameters
type TransactionFilterRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer_id"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
	Limit         int    `form:"limit"`
}

// PayDueRequest settles an outstanding balance
type PayDueRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}
