package request

// BlendIngredientRequest is one ingredient in a blend quote or template
type BlendIngredientRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// BlendValidateIngredientRequest is one ingredient in a validation check.
// Quantity is deliberately unbounded here; out-of-range values come back
// as field errors instead of a rejected request.
type BlendValidateIngredientRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity"`
}

// BlendValidateRequest checks a blend's ingredient list against current stock
type BlendValidateRequest struct {
	Ingredients     []BlendValidateIngredientRequest `json:"ingredients"`
	BatchMultiplier float64                          `json:"batch_multiplier" binding:"omitempty,min=1"`
}

// BlendQuoteRequest prices a one-off custom blend. Either a margin
// percentage or a manual price is given; the manual price is still
// validated against the cost floor.
type BlendQuoteRequest struct {
	Name          string                   `json:"name" binding:"required"`
	ContainerType string                   `json:"container_type"`
	Ingredients   []BlendIngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
	MarginPercent float64                  `json:"margin_percent" binding:"min=0"`
	ManualPrice   *float64                 `json:"manual_price"`
}

// CreateBlendTemplateRequest represents blend template creation
type CreateBlendTemplateRequest struct {
	Name          string                   `json:"name" binding:"required,min=2,max=100"`
	BatchPrice    float64                  `json:"batch_price" binding:"required,gt=0"`
	ContainerType string                   `json:"container_type"`
	Ingredients   []BlendIngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
	Instructions  *string                  `json:"instructions"`
}

// UpdateBlendTemplateRequest represents blend template update
type UpdateBlendTemplateRequest struct {
	Name          *string                  `json:"name" binding:"omitempty,min=2,max=100"`
	BatchPrice    *float64                 `json:"batch_price" binding:"omitempty,gt=0"`
	ContainerType *string                  `json:"container_type"`
	Ingredients   []BlendIngredientRequest `json:"ingredients" binding:"omitempty,min=1,dive"`
	Instructions  *string                  `json:"instructions"`
	IsActive      *bool                    `json:"is_active"`
}
