package entity

import "time"

// Role rol de un usuario dentro de su empresa.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "admin"    // administrador de la plataforma
	RoleOwner    Role = "owner"    // dueño de la empresa
	RoleEmployee Role = "employee" // operador de caja
)

// ValidRole indica si el rol es conocido.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
// Los permisos no se persisten: se derivan del rol en cada lectura (ver Permissions).
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Permissions capacidades del usuario según su rol.
func (u *User) Permissions() []Permission {
	return PermissionsFor(u.Role)
}

// Can indica si el usuario tiene la capacidad indicada.
func (u *User) Can(p Permission) bool {
	return RoleHas(u.Role, p)
}

// Caller identidad resuelta de quien ejecuta una operación (viene del token).
type Caller struct {
	UserID    string
	CompanyID string
	Role      Role
}

// IsAdmin indica si el caller es administrador de la plataforma.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanAccess regla de multi-tenancy: misma empresa o administrador.
func (c Caller) CanAccess(companyID string) bool {
	return c.CompanyID == companyID || c.IsAdmin()
}

// Can indica si el rol del caller tiene la capacidad.
func (c Caller) Can(p Permission) bool { return RoleHas(c.Role, p) }
