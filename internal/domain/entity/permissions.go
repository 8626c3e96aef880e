package entity

// Permission capacidad atómica que un rol puede tener.
type Permission string

const (
	PermManageCompanies    Permission = "manage_companies"
	PermManageUsers        Permission = "manage_users"
	PermManageProducts     Permission = "manage_products"
	PermAdjustStock        Permission = "adjust_stock"
	PermManageCustomers    Permission = "manage_customers"
	PermSell               Permission = "sell"
	PermCancelSales        Permission = "cancel_sales"
	PermManageEntries      Permission = "manage_entries"
	PermManageReceivables  Permission = "manage_receivables"
	PermReceivePayments    Permission = "receive_payments"
	PermViewReports        Permission = "view_reports"
	PermManageCashRegister Permission = "manage_cash_register"
)

var allPermissions = []Permission{
	PermManageCompanies, PermManageUsers, PermManageProducts, PermAdjustStock,
	PermManageCustomers, PermSell, PermCancelSales, PermManageEntries,
	PermManageReceivables, PermReceivePayments, PermViewReports, PermManageCashRegister,
}

// rolePermissions función pura rol -> capacidades.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: allPermissions,
	RoleOwner: {
		PermManageUsers, PermManageProducts, PermAdjustStock, PermManageCustomers,
		PermSell, PermCancelSales, PermManageEntries, PermManageReceivables,
		PermReceivePayments, PermViewReports, PermManageCashRegister,
	},
	RoleEmployee: {
		PermManageCustomers, PermSell, PermReceivePayments, PermManageCashRegister,
	},
}

// PermissionsFor devuelve una copia de las capacidades del rol.
func PermissionsFor(r Role) []Permission {
	src := rolePermissions[r]
	out := make([]Permission, len(src))
	copy(out, src)
	return out
}

// RoleHas indica si el rol incluye la capacidad.
func RoleHas(r Role, p Permission) bool {
	for _, x := range rolePermissions[r] {
		if x == p {
			return true
		}
	}
	return false
}
