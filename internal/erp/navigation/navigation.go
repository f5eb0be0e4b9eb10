// Package navigation holds the role list and the sidebar table that decides
// which sections each role sees.
package navigation

import "slices"

// 角色
const (
	RoleAdmin               = "Admin"
	RoleUser                = "User"
	RoleInventoryManager    = "Inventory Manager"
	RoleSalesRepresentative = "Sales Representative"
	RoleWarehouseStaff      = "Warehouse Staff"
	RoleLogistics           = "Logistics"
	RoleSecurityGuard       = "Security Guard"
	RoleAccounts            = "Accounts"
)

// Roles 全部角色
var Roles = []string{
	RoleAdmin, RoleUser, RoleInventoryManager, RoleSalesRepresentative,
	RoleWarehouseStaff, RoleLogistics, RoleSecurityGuard, RoleAccounts,
}

// 分组
const (
	GroupPrimary = "primary"
	GroupMore    = "more"
)

// Item 侧边栏菜单项
type Item struct {
	Path  string   `json:"path"`
	Label string   `json:"label"`
	Group string   `json:"group"`
	Roles []string `json:"roles"`
}

var items = []Item{
	{"/", "Dashboard", GroupPrimary, Roles},
	{"/sales", "Sales", GroupPrimary, []string{RoleAdmin, RoleUser, RoleSalesRepresentative, RoleAccounts}},
	{"/purchases", "Purchases", GroupPrimary, []string{RoleAdmin, RoleUser, RoleInventoryManager, RoleAccounts}},
	{"/materials", "Materials", GroupPrimary, []string{RoleAdmin, RoleInventoryManager}},
	{"/vendors", "Vendors", GroupPrimary, []string{RoleAdmin, RoleInventoryManager, RoleUser}},

	{"/inventory", "Inventory", GroupMore, []string{RoleAdmin, RoleUser, RoleInventoryManager, RoleWarehouseStaff}},
	{"/warehouses", "Warehouses", GroupMore, []string{RoleAdmin, RoleUser, RoleWarehouseStaff}},
	{"/fulfillment", "Fulfillment", GroupMore, []string{RoleAdmin, RoleUser, RoleLogistics, RoleSecurityGuard}},
	{"/audit", "Audit", GroupMore, []string{RoleAdmin}},
	{"/reports", "Reports & Analytics", GroupMore, []string{RoleAdmin, RoleInventoryManager}},
	{"/notifications", "Notifications", GroupMore, []string{RoleAdmin, RoleUser, RoleInventoryManager, RoleSalesRepresentative, RoleWarehouseStaff, RoleLogistics, RoleSecurityGuard}},
	{"/settings", "Settings", GroupMore, []string{RoleAdmin, RoleUser, RoleInventoryManager, RoleSalesRepresentative, RoleWarehouseStaff, RoleLogistics, RoleSecurityGuard}},
}

// Items 完整菜单表
func Items() []Item {
	return slices.Clone(items)
}

// Visible 返回用户任一角色可见的菜单项，保持表内顺序
func Visible(userRoles []string) []Item {
	out := []Item{}
	for _, it := range items {
		if slices.ContainsFunc(userRoles, func(r string) bool { return slices.Contains(it.Roles, r) }) {
			out = append(out, it)
		}
	}
	return out
}

// RolesFor 菜单路径对应的角色；未知路径返回 nil
func RolesFor(path string) []string {
	for _, it := range items {
		if it.Path == path {
			return slices.Clone(it.Roles)
		}
	}
	return nil
}

// IsKnownRole 是否系统角色
func IsKnownRole(role string) bool {
	return slices.Contains(Roles, role)
}
