package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/White1313devil/medicals/prometheus"
	"go.uber.org/zap"
)

// CategoryInput is used for both create and patch; nil fields are left unchanged.
type CategoryInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Slug         *string `json:"slug"`
	IsActive     *bool   `json:"isActive"`
	DisplayOrder *int    `json:"displayOrder"`
}

type CategoryService struct {
	Categories *repository.CategoryRepository
	Audit      *Auditor
}

func NewCategoryService(categories *repository.CategoryRepository, audit *Auditor) *CategoryService {
	return &CategoryService{Categories: categories, Audit: audit}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	ctx, span := startSpan(ctx, "category.list")
	categories, err := s.Categories.List(ctx)
	endSpan(span, err)
	return categories, err
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	ctx, span := startSpan(ctx, "category.get", idAttr(id))
	category, err := s.Categories.GetByID(ctx, id)
	endSpan(span, err)
	return category, err
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (_ *model.Category, err error) {
	ctx, span := startSpan(ctx, "category.create")
	defer func() { endSpan(span, err) }()

	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return nil, apperror.Validation("Category name is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:     name,
		IsActive: boolOr(in.IsActive, true),
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.DisplayOrder != nil {
		category.DisplayOrder = *in.DisplayOrder
	}
	category.Slug = slugFor(in.Slug, name)

	if err := s.Categories.Create(ctx, category); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("category", "create")
	s.Audit.Record(ctx, ActionCreate, "category", category.ID, fmt.Sprintf("Created category %q", category.Name))
	logger.FromContext(ctx).Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (_ *model.Category, err error) {
	ctx, span := startSpan(ctx, "category.update", idAttr(id))
	defer func() { endSpan(span, err) }()

	category, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.Validation("Category name is required")
		}
		if !strings.EqualFold(name, category.Name) {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Slug != nil {
		category.Slug = slugFor(in.Slug, category.Name)
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if in.DisplayOrder != nil {
		category.DisplayOrder = *in.DisplayOrder
	}

	if err := s.Categories.Save(ctx, category); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("category", "update")
	s.Audit.Record(ctx, ActionUpdate, "category", category.ID, fmt.Sprintf("Updated category %q", category.Name))
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "category.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	if err := s.Categories.SoftDelete(ctx, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category", "delete")
	s.Audit.Record(ctx, ActionDelete, "category", id, "Deleted category")
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, excludeID uint) error {
	taken, err := s.Categories.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Duplicate("Category already exists")
	}
	return nil
}

// slugFor returns the slug to store: the requested one when it has any
// usable characters, otherwise one derived from name.
func slugFor(requested *string, name string) *string {
	if requested != nil {
		if s := Slugify(*requested); s != "" {
			return &s
		}
	}
	if s := Slugify(name); s != "" {
		return &s
	}
	return nil
}

// Slugify lowercases s and joins its runs of letters and digits with '-'.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
