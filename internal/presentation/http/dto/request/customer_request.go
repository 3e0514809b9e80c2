package request

// CreateCustomerRequest represents customer creation
type CreateCustomerRequest struct {
	Name               string  `json:"name" binding:"required,min=2,max=100"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	MembershipTier     string  `json:"membership_tier" binding:"omitempty,oneof=none standard silver gold"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"min=0,max=100"`
	Notes              *string `json:"notes"`
}

// UpdateCustomerRequest represents customer update
type UpdateCustomerRequest struct {
	Name               *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Email              *string  `json:"email" binding:"omitempty,email"`
	Phone              *string  `json:"phone"`
	Address            *string  `json:"address"`
	MembershipTier     *string  `json:"membership_tier" binding:"omitempty,oneof=none standard silver gold"`
	DiscountPercentage *float64 `json:"discount_percentage" binding:"omitempty,min=0,max=100"`
	Notes              *string  `json:"notes"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search         string `form:"search"`
	MembershipTier string `form:"membership_tier"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}
