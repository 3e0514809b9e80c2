package request

// OpenRegisterRequest opens a register session, optionally resuming a
// saved draft
type OpenRegisterRequest struct {
	DraftID *string `json:"draft_id" binding:"omitempty,uuid"`
}

// AddProductRequest adds a catalog product line to a session
type AddProductRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	SaleMode  string  `json:"sale_mode" binding:"omitempty,oneof=quantity volume"`
}

// AddTemplateRequest adds a fixed blend template line to a session
type AddTemplateRequest struct {
	TemplateID string  `json:"template_id" binding:"required,uuid"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
}

// AddBundleRequest adds a bundle line to a session
type AddBundleRequest struct {
	BundleID string  `json:"bundle_id" binding:"required,uuid"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// AddMiscRequest adds a free-form miscellaneous line to a session.
// UnitPrice may be negative to record a credit.
type AddMiscRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	UnitPrice    float64 `json:"unit_price" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	MiscCategory string  `json:"misc_category" binding:"omitempty,oneof=supply service fee credit other"`
	IsTaxable    bool    `json:"is_taxable"`
}

// UpdateQuantityRequest changes the quantity of an existing session line
type UpdateQuantityRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// SetCustomerRequest attaches or detaches the session customer
type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id" binding:"omitempty,uuid"`
}

// SetDiscountRequest sets the whole-transaction extra discount
type SetDiscountRequest struct {
	Mode  string  `json:"mode" binding:"required,oneof=amount percent"`
	Value float64 `json:"value" binding:"min=0"`
}

// SetPaymentRequest records tendered amount and method
type SetPaymentRequest struct {
	PaidAmount    float64 `json:"paid_amount" binding:"min=0"`
	PaymentMethod string  `json:"payment_method"`
}

// SaveDraftRequest persists the session as a named draft
type SaveDraftRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
}

// SubmitRequest finalizes the session into a transaction
type SubmitRequest struct {
	StockOverrideConfirmed bool    `json:"stock_override_confirmed"`
	Notes                  *string `json:"notes"`
}
