package model

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents a vendor the pharmacy buys stock from
type Supplier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null;index"`
	ContactPerson string         `json:"contactPerson" gorm:"type:varchar(255)"`
	Email         string         `json:"email" gorm:"type:varchar(255);index"`
	Phone         string         `json:"phone" gorm:"type:varchar(20)"`
	Address       string         `json:"address" gorm:"type:text"`
	City          string         `json:"city" gorm:"type:varchar(100)"`
	State         string         `json:"state" gorm:"type:varchar(100)"`
	GSTNumber     string         `json:"gstNumber" gorm:"column:gst_number;type:varchar(20)"`
	IsActive      bool           `json:"isActive" gorm:"not null"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}
