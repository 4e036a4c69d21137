package service

import (
	"context"
	"testing"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "baby-care", Slugify("Baby Care"))
	assert.Equal(t, "vitamins-supplements", Slugify("  Vitamins & Supplements! "))
	assert.Equal(t, "", Slugify("---"))
}

func TestCategoryCreateGeneratesSlug(t *testing.T) {
	ts := newTestServices(t)

	category := ts.category(t, "Personal Care")
	require.NotNil(t, category.Slug)
	assert.Equal(t, "personal-care", *category.Slug)
	assert.True(t, category.IsActive)

	_, err := ts.categories.Create(asAdmin(), CategoryInput{Name: ptr("personal care")})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	_, err = ts.categories.Create(asAdmin(), CategoryInput{Name: ptr("   ")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCategoryUpdateKeepsAbsentFields(t *testing.T) {
	ts := newTestServices(t)
	category, err := ts.categories.Create(asAdmin(), CategoryInput{
		Name:         ptr("Medicines"),
		Description:  ptr("Tablets and syrups"),
		DisplayOrder: ptr(3),
	})
	require.NoError(t, err)

	updated, err := ts.categories.Update(asAdmin(), category.ID, CategoryInput{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Medicines", updated.Name)
	assert.Equal(t, "Tablets and syrups", updated.Description)
	assert.Equal(t, 3, updated.DisplayOrder)
}

func TestCategoryDeleteTwice(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Devices")

	require.NoError(t, ts.categories.Delete(asAdmin(), category.ID))
	err := ts.categories.Delete(asAdmin(), category.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = ts.categories.Get(context.Background(), category.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestProductFinalPrice(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Medicines")

	product, err := ts.products.Create(asAdmin(), ProductInput{
		Name:       ptr("Paracetamol"),
		Rate:       dec("450"),
		Discount:   dec("50"),
		CategoryID: ptr(category.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "400.00", product.FinalPrice.StringFixed(2))
	assert.True(t, product.InStock)
	assert.Equal(t, "Medicines", product.CategoryName)

	product, err = ts.products.Update(asAdmin(), product.ID, ProductInput{Discount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, "0.00", product.FinalPrice.StringFixed(2))
	assert.Equal(t, "450.00", product.Rate.StringFixed(2))
	assert.Equal(t, "Paracetamol", product.Name)
}

func TestProductCreateValidation(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Medicines")

	tests := []struct {
		name  string
		input ProductInput
		kind  apperror.Kind
	}{
		{"missing name", ProductInput{Rate: dec("10"), CategoryID: ptr(category.ID)}, apperror.KindValidation},
		{"missing rate", ProductInput{Name: ptr("A"), CategoryID: ptr(category.ID)}, apperror.KindValidation},
		{"missing category", ProductInput{Name: ptr("A"), Rate: dec("10")}, apperror.KindValidation},
		{"unknown category", ProductInput{Name: ptr("A"), Rate: dec("10"), CategoryID: ptr(uint(999))}, apperror.KindValidation},
		{"negative rate", ProductInput{Name: ptr("A"), Rate: dec("-1"), CategoryID: ptr(category.ID)}, apperror.KindValidation},
		{"rate too large", ProductInput{Name: ptr("A"), Rate: dec("1000000000"), CategoryID: ptr(category.ID)}, apperror.KindValidation},
		{"negative stock", ProductInput{Name: ptr("A"), Rate: dec("1"), CategoryID: ptr(category.ID), StockQuantity: ptr(-2)}, apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.products.Create(asAdmin(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestProductDeletedCategoryRejected(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Old")
	require.NoError(t, ts.categories.Delete(asAdmin(), category.ID))

	_, err := ts.products.Create(asAdmin(), ProductInput{Name: ptr("A"), Rate: dec("1"), CategoryID: ptr(category.ID)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestProductDuplicateSKU(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Medicines")

	first, err := ts.products.Create(asAdmin(), ProductInput{Name: ptr("A"), Rate: dec("1"), CategoryID: ptr(category.ID), SKU: ptr("SKU-1")})
	require.NoError(t, err)

	_, err = ts.products.Create(asAdmin(), ProductInput{Name: ptr("B"), Rate: dec("1"), CategoryID: ptr(category.ID), SKU: ptr("SKU-1")})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	// Re-sending its own SKU is not a conflict.
	_, err = ts.products.Update(asAdmin(), first.ID, ProductInput{SKU: ptr("SKU-1")})
	assert.NoError(t, err)
}

func TestProductListAfterSoftDelete(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Medicines")

	product, err := ts.products.Create(asAdmin(), ProductInput{Name: ptr("Syrup"), Rate: dec("5"), CategoryID: ptr(category.ID)})
	require.NoError(t, err)
	require.NoError(t, ts.products.Delete(asAdmin(), product.ID))

	page, err := ts.products.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.TotalCount)

	assert.True(t, apperror.Is(ts.products.Delete(asAdmin(), product.ID), apperror.KindNotFound))
}

func TestCustomerEmailUniqueness(t *testing.T) {
	ts := newTestServices(t)

	first, err := ts.customers.Create(asAdmin(), CustomerInput{Name: ptr("Asha"), Email: ptr("asha@example.com")})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	_, err = ts.customers.Create(asAdmin(), CustomerInput{Name: ptr("Other"), Email: ptr("ASHA@example.com")})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	updated, err := ts.customers.Update(asAdmin(), first.ID, CustomerInput{City: ptr("Pune"), Email: ptr("asha@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, "Asha", updated.Name)

	require.NoError(t, ts.customers.Delete(asAdmin(), first.ID))
	_, err = ts.customers.Create(asAdmin(), CustomerInput{Name: ptr("Other"), Email: ptr("asha@example.com")})
	assert.NoError(t, err)
}

func TestSupplierCreateRequiresName(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.suppliers.Create(asAdmin(), SupplierInput{ContactPerson: ptr("Ravi")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	supplier, err := ts.suppliers.Create(asAdmin(), SupplierInput{Name: ptr("MedSupply"), ContactPerson: ptr("Ravi")})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", supplier.ContactPerson)
}

func TestCatalogMutationsAreAudited(t *testing.T) {
	ts := newTestServices(t)
	category := ts.category(t, "Medicines")
	require.NoError(t, ts.categories.Delete(asAdmin(), category.ID))

	entries, err := ts.audit.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionDelete, entries[0].Action)
	assert.Equal(t, "category", entries[0].Entity)
	require.NotNil(t, entries[0].AdminID)
	assert.Equal(t, uint(1), *entries[0].AdminID)
	assert.Equal(t, "127.0.0.1", entries[0].IPAddress)
	assert.Equal(t, "test", entries[0].UserAgent)
}
