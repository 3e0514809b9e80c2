package request

// BundleProductRequest is one constituent of a bundle
type BundleProductRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// CreateBundleRequest represents bundle creation
type CreateBundleRequest struct {
	Name        string                 `json:"name" binding:"required,min=2,max=100"`
	BundlePrice float64                `json:"bundle_price" binding:"required,gt=0"`
	Description *string                `json:"description"`
	Products    []BundleProductRequest `json:"products" binding:"required,min=1,dive"`
}

// UpdateBundleRequest represents bundle update
type UpdateBundleRequest struct {
	Name        *string                `json:"name" binding:"omitempty,min=2,max=100"`
	BundlePrice *float64               `json:"bundle_price" binding:"omitempty,gt=0"`
	Description *string                `json:"description"`
	IsActive    *bool                  `json:"is_active"`
	Products    []BundleProductRequest `json:"products" binding:"omitempty,min=1,dive"`
}
