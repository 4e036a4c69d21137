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

// SupplierInput is used for both create and patch; nil fields are left unchanged.
type SupplierInput struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	GSTNumber     *string `json:"gstNumber"`
	IsActive      *bool   `json:"isActive"`
}

type SupplierService struct {
	Suppliers *repository.SupplierRepository
	Audit     *Auditor
}

func NewSupplierService(suppliers *repository.SupplierRepository, audit *Auditor) *SupplierService {
	return &SupplierService{Suppliers: suppliers, Audit: audit}
}

func (s *SupplierService) List(ctx context.Context, filter repository.ListFilter) (repository.Page[model.Supplier], error) {
	ctx, span := startSpan(ctx, "supplier.list",
		attribute.String("filter.keyword", filter.Keyword),
		attribute.Int("filter.page", filter.Page))
	page, err := s.Suppliers.List(ctx, filter)
	endSpan(span, err)
	return page, err
}

func (s *SupplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	ctx, span := startSpan(ctx, "supplier.get", idAttr(id))
	supplier, err := s.Suppliers.GetByID(ctx, id)
	endSpan(span, err)
	return supplier, err
}

func (s *SupplierService) Create(ctx context.Context, in SupplierInput) (_ *model.Supplier, err error) {
	ctx, span := startSpan(ctx, "supplier.create")
	defer func() { endSpan(span, err) }()

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("Supplier name is required")
	}

	supplier := &model.Supplier{IsActive: true}
	if err := s.apply(ctx, supplier, in); err != nil {
		return nil, err
	}
	if err := s.Suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("supplier", "create")
	s.Audit.Record(ctx, ActionCreate, "supplier", supplier.ID, fmt.Sprintf("Created supplier %q", supplier.Name))
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id uint, in SupplierInput) (_ *model.Supplier, err error) {
	ctx, span := startSpan(ctx, "supplier.update", idAttr(id))
	defer func() { endSpan(span, err) }()

	supplier, err := s.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("Supplier name is required")
	}
	if err := s.apply(ctx, supplier, in); err != nil {
		return nil, err
	}
	if err := s.Suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("supplier", "update")
	s.Audit.Record(ctx, ActionUpdate, "supplier", supplier.ID, fmt.Sprintf("Updated supplier %q", supplier.Name))
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "supplier.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	if err := s.Suppliers.SoftDelete(ctx, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("supplier", "delete")
	s.Audit.Record(ctx, ActionDelete, "supplier", id, "Deleted supplier")
	return nil
}

func (s *SupplierService) apply(ctx context.Context, supplier *model.Supplier, in SupplierInput) error {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" && !strings.EqualFold(email, supplier.Email) {
			taken, err := s.Suppliers.EmailTaken(ctx, email, supplier.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperror.Duplicate("Supplier with this email already exists")
			}
		}
		supplier.Email = email
	}
	if in.Name != nil {
		supplier.Name = strings.TrimSpace(*in.Name)
	}
	assign(&supplier.ContactPerson, in.ContactPerson)
	assign(&supplier.Phone, in.Phone)
	assign(&supplier.Address, in.Address)
	assign(&supplier.City, in.City)
	assign(&supplier.State, in.State)
	assign(&supplier.GSTNumber, in.GSTNumber)
	if in.IsActive != nil {
		supplier.IsActive = *in.IsActive
	}
	return nil
}
