package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// CustomerInput is used for both create and patch; nil fields are left unchanged.
type CustomerInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Pincode   *string `json:"pincode"`
	GSTNumber *string `json:"gstNumber"`
	IsActive  *bool   `json:"isActive"`
}

type CustomerService struct {
	Customers *repository.CustomerRepository
	Audit     *Auditor
}

func NewCustomerService(customers *repository.CustomerRepository, audit *Auditor) *CustomerService {
	return &CustomerService{Customers: customers, Audit: audit}
}

func (s *CustomerService) List(ctx context.Context, filter repository.ListFilter) (repository.Page[model.Customer], error) {
	ctx, span := startSpan(ctx, "customer.list",
		attribute.String("filter.keyword", filter.Keyword),
		attribute.Int("filter.page", filter.Page))
	page, err := s.Customers.List(ctx, filter)
	endSpan(span, err)
	return page, err
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	ctx, span := startSpan(ctx, "customer.get", idAttr(id))
	customer, err := s.Customers.GetByID(ctx, id)
	endSpan(span, err)
	return customer, err
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (_ *model.Customer, err error) {
	ctx, span := startSpan(ctx, "customer.create")
	defer func() { endSpan(span, err) }()

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("Customer name is required")
	}

	customer := &model.Customer{IsActive: true}
	if err := s.apply(ctx, customer, in); err != nil {
		return nil, err
	}
	if err := s.Customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("customer", "create")
	s.Audit.Record(ctx, ActionCreate, "customer", customer.ID, fmt.Sprintf("Created customer %q", customer.Name))
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (_ *model.Customer, err error) {
	ctx, span := startSpan(ctx, "customer.update", idAttr(id))
	defer func() { endSpan(span, err) }()

	customer, err := s.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("Customer name is required")
	}
	if err := s.apply(ctx, customer, in); err != nil {
		return nil, err
	}
	if err := s.Customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("customer", "update")
	s.Audit.Record(ctx, ActionUpdate, "customer", customer.ID, fmt.Sprintf("Updated customer %q", customer.Name))
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "customer.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	if err := s.Customers.SoftDelete(ctx, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("customer", "delete")
	s.Audit.Record(ctx, ActionDelete, "customer", id, "Deleted customer")
	return nil
}

func (s *CustomerService) apply(ctx context.Context, customer *model.Customer, in CustomerInput) error {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" && !strings.EqualFold(email, customer.Email) {
			taken, err := s.Customers.EmailTaken(ctx, email, customer.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperror.Duplicate("Customer with this email already exists")
			}
		}
		customer.Email = email
	}
	if in.Name != nil {
		customer.Name = strings.TrimSpace(*in.Name)
	}
	assign(&customer.Phone, in.Phone)
	assign(&customer.Address, in.Address)
	assign(&customer.City, in.City)
	assign(&customer.State, in.State)
	assign(&customer.Pincode, in.Pincode)
	assign(&customer.GSTNumber, in.GSTNumber)
	if in.IsActive != nil {
		customer.IsActive = *in.IsActive
	}
	return nil
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
