// Package policy decides which roles may perform which back-office actions.
package policy

import (
	"slices"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

type Action string

const (
	CatalogWrite     Action = "catalog:write"
	CatalogImport    Action = "catalog:import"
	CategoriesWrite  Action = "categories:write"
	CategoriesDelete Action = "categories:delete"
	OrdersRead       Action = "orders:read"
	OrdersStatus     Action = "orders:status"
	OrdersDelete     Action = "orders:delete"
	DeliveryWork     Action = "delivery:work"
	UsersRead        Action = "users:read"
	UsersWrite       Action = "users:write"
	SliderWrite      Action = "slider:write"
	UploadsWrite     Action = "uploads:write"
	SettingsWrite    Action = "settings:write"
	DashboardRead    Action = "dashboard:read"
	DashboardReset   Action = "dashboard:reset"
)

var (
	admins     = []models.Role{models.RoleSuperAdmin, models.RoleAdmin}
	backOffice = []models.Role{models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager}
	superOnly  = []models.Role{models.RoleSuperAdmin}
)

var table = map[Action][]models.Role{
	CatalogWrite:     admins,
	CatalogImport:    backOffice,
	CategoriesWrite:  admins,
	CategoriesDelete: superOnly,
	OrdersRead:       backOffice,
	OrdersStatus:     backOffice,
	OrdersDelete:     admins,
	DeliveryWork:     {models.RoleDeliveryAgent, models.RoleAdmin, models.RoleSuperAdmin},
	UsersRead:        admins,
	UsersWrite:       superOnly,
	SliderWrite:      backOffice,
	UploadsWrite:     backOffice,
	SettingsWrite:    admins,
	DashboardRead:    admins,
	DashboardReset:   superOnly,
}

// Allowed reports whether role may perform action. Unknown actions are denied.
func Allowed(role models.Role, action Action) bool {
	return slices.Contains(table[action], role)
}
