package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/internal/infrastructure/cache"
	infraRepo "github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations. Membership
// benefits are cached because the discount engine reads them on every
// item mutation at the register.
type CustomerService struct {
	customerRepo  repository.CustomerRepository
	benefitsCache cache.BenefitsCache
	cacheTTL      time.Duration
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, benefitsCache cache.BenefitsCache, cacheTTL time.Duration) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		benefitsCache: benefitsCache,
		cacheTTL:      cacheTTL,
	}
}

func benefitsCacheKey(customerID uuid.UUID) string {
	return fmt.Sprintf("customer:benefits:%s", customerID)
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID             uuid.UUID
	Name               string
	Email              *string
	Phone              *string
	Address            *string
	MembershipTier     enum.MembershipTier
	DiscountPercentage float64
	Notes              *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	clinicID, ok := infraRepo.GetClinicID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Clinic context required")
	}

	if input.Email != nil && *input.Email != "" {
		existing, err := s.customerRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer email already exists")
		}
	}

	tier := input.MembershipTier
	if tier == "" {
		tier = enum.MembershipTierNone
	}

	customer := &entity.Customer{
		ClinicID: clinicID,
		UserID:   input.UserID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Benefits: entity.MemberBenefits{
			MembershipTier:     tier,
			DiscountPercentage: input.DiscountPercentage,
		},
		Notes: input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetBenefits returns a customer's membership benefits, from cache when
// possible. A nil customer ID means walk-in: no benefits.
func (s *CustomerService) GetBenefits(ctx context.Context, customerID *uuid.UUID) (entity.MemberBenefits, error) {
	if customerID == nil {
		return entity.MemberBenefits{MembershipTier: enum.MembershipTierNone}, nil
	}

	cached, hit, err := s.benefitsCache.Get(ctx, benefitsCacheKey(*customerID))
	if err == nil && hit {
		return *cached, nil
	}

	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return entity.MemberBenefits{}, err
	}
	if customer == nil {
		return entity.MemberBenefits{}, apperror.NewNotFoundError("Customer")
	}

	benefits := customer.Benefits
	_ = s.benefitsCache.Set(ctx, benefitsCacheKey(*customerID), &benefits, s.cacheTTL)

	return benefits, nil
}

// ListCustomers lists customers with page-based pagination
func (s *CustomerService) ListCustomers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers with cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string, skipUserFilter bool) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	customers, err := s.customerRepo.ListWithCursor(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(customers, params.Limit,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	UserID             uuid.UUID
	CustomerID         uuid.UUID
	SkipUserCheck      bool
	Name               *string
	Email              *string
	Phone              *string
	Address            *string
	MembershipTier     *enum.MembershipTier
	DiscountPercentage *float64
	Notes              *string
}

// UpdateCustomer updates a customer and invalidates any cached benefits
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if !input.SkipUserCheck && customer.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.MembershipTier != nil {
		customer.Benefits.MembershipTier = *input.MembershipTier
	}
	if input.DiscountPercentage != nil {
		customer.Benefits.DiscountPercentage = *input.DiscountPercentage
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	// Stale benefits would let the register apply an outdated rate
	_ = s.benefitsCache.Delete(ctx, benefitsCacheKey(customer.ID))

	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID, skipUserCheck bool) error {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if !skipUserCheck && customer.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		return err
	}

	_ = s.benefitsCache.Delete(ctx, benefitsCacheKey(customerID))
	return nil
}
