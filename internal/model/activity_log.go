package model

import "time"

// ActivityLog is an append-only audit record of an admin action.
type ActivityLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AdminID       *uint     `json:"adminId" gorm:"index"`
	AdminUsername string    `json:"adminUsername" gorm:"type:varchar(255)"`
	Action        string    `json:"action" gorm:"type:varchar(100);not null"`
	Entity        string    `json:"entity" gorm:"type:varchar(100)"`
	EntityID      *uint     `json:"entityId"`
	Description   string    `json:"description" gorm:"type:text"`
	IPAddress     string    `json:"ipAddress" gorm:"type:varchar(45)"`
	UserAgent     string    `json:"userAgent" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
}
