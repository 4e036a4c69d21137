package model

import (
	"time"

	"gorm.io/gorm"
)

// AdminRole is the permission level of a back-office account.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleManager    AdminRole = "manager"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// Admin is a back-office account. Password always holds a bcrypt hash once
// persisted; SetPassword stages a plaintext value and marks it dirty so the
// auth service hashes it exactly once before the next save.
type Admin struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"type:varchar(255);not null;uniqueIndex"`
	Email     *string        `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      AdminRole      `json:"role" gorm:"type:varchar(20);not null;default:'admin'"`
	IsActive  bool           `json:"isActive" gorm:"not null"`
	LastLogin *time.Time     `json:"lastLogin"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	passwordDirty bool
}

// SetPassword stages a new plaintext password.
func (a *Admin) SetPassword(plain string) {
	a.Password = plain
	a.passwordDirty = true
}

// PasswordDirty reports whether Password holds an unhashed value.
func (a *Admin) PasswordDirty() bool {
	return a.passwordDirty
}

// MarkPasswordHashed replaces the staged plaintext with its hash.
func (a *Admin) MarkPasswordHashed(hash string) {
	a.Password = hash
	a.passwordDirty = false
}
