package model

import (
	"time"

	"gorm.io/gorm"
)

// UnknownCategory is displayed for products whose category row no longer exists.
const UnknownCategory = "Unknown"

// Category groups products in the catalog
type Category struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  string         `json:"description" gorm:"type:text"`
	Slug         *string        `json:"slug" gorm:"type:varchar(255);uniqueIndex"`
	IsActive     bool           `json:"isActive" gorm:"not null"`
	DisplayOrder int            `json:"displayOrder" gorm:"default:0"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}
