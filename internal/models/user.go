package models

import "time"

type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleAdmin         Role = "ADMIN"
	RoleManager       Role = "MANAGER"
	RoleDeliveryAgent Role = "DELIVERY_AGENT"
	RoleCustomer      Role = "CUSTOMER"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleDeliveryAgent, RoleCustomer:
		return r, true
	}
	return "", false
}

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null"  json:"username"`
	Email        string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null"                      json:"-"`
	Role         Role       `gorm:"size:20;not null"              json:"role"`
	Active       bool       `gorm:"not null"                      json:"active"`
	TokenVersion int64      `gorm:"not null;default:0"            json:"-"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
