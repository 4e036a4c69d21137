package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item. FinalPrice is derived from Rate and
// Discount and is never written directly by callers.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CategoryID    uint            `json:"categoryId" gorm:"index;not null"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	SKU           *string         `json:"sku" gorm:"column:sku;type:varchar(100);uniqueIndex"`
	Rate          decimal.Decimal `json:"rate" gorm:"type:decimal(10,2);not null;default:0"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null;default:0"`
	FinalPrice    decimal.Decimal `json:"finalPrice" gorm:"type:decimal(10,2);not null;default:0"`
	InStock       bool            `json:"inStock" gorm:"not null"`
	StockQuantity int             `json:"stockQuantity" gorm:"default:0"`
	MinStockLevel int             `json:"minStockLevel" gorm:"default:0"`
	Manufacturer  string          `json:"manufacturer" gorm:"type:varchar(255)"`
	ExpiryDate    *time.Time      `json:"expiryDate" gorm:"type:date"`
	BatchNumber   string          `json:"batchNumber" gorm:"type:varchar(100)"`
	ImageURL      string          `json:"imageUrl" gorm:"column:image_url;type:varchar(500)"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `json:"deletedAt,omitempty" gorm:"index"`

	// Category is loaded including soft-deleted rows; nil means the row is gone.
	Category     *Category `json:"-" gorm:"foreignKey:CategoryID"`
	CategoryName string    `json:"categoryName" gorm:"-"`
}

// ResolveCategoryName fills CategoryName from the loaded Category.
func (p *Product) ResolveCategoryName() {
	if p.Category != nil {
		p.CategoryName = p.Category.Name
		return
	}
	p.CategoryName = UnknownCategory
}

// IsLowStock reports whether the stock level has reached the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}
