package entity

// ReceiptHeader holds the clinic identity printed at the top of a receipt.
type ReceiptHeader struct {
	ClinicName string `json:"clinic_name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// ReceiptItem is a single printable line item.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitLabel string  `json:"unit_label,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount,omitempty"`
	Total     float64 `json:"total"`

	// Sub-lines for blend ingredients or bundle constituents.
	Details []string `json:"details,omitempty"`
}

// Receipt is the print-ready view of a completed transaction.
type Receipt struct {
	Header ReceiptHeader `json:"header"`

	InvoiceNo string `json:"invoice_no"`
	Date      string `json:"date"`
	Cashier   string `json:"cashier,omitempty"`
	Customer  string `json:"customer,omitempty"`

	Items []ReceiptItem `json:"items"`

	SubTotal           float64 `json:"subtotal"`
	ItemDiscounts      float64 `json:"item_discounts"`
	AdditionalDiscount float64 `json:"additional_discount"`
	Total              float64 `json:"total"`
	Paid               float64 `json:"paid"`
	Change             float64 `json:"change"`
	Due                float64 `json:"due"`
	PaymentMethod      string  `json:"payment_method,omitempty"`

	Footer string `json:"footer,omitempty"`
}
