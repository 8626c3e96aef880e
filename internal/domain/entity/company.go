package entity

import "time"

// CompanyStatus estado de aprobación del tenant.
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "pending"
	CompanyApproved CompanyStatus = "approved"
	CompanyRejected CompanyStatus = "rejected"
	CompanyInactive CompanyStatus = "inactive"
)

// Planes de suscripción.
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

var companyTransitions = transitions[CompanyStatus]{
	CompanyPending:  {CompanyApproved, CompanyRejected},
	CompanyApproved: {CompanyInactive},
	CompanyInactive: {CompanyApproved},
	CompanyRejected: {CompanyApproved},
}

// Company representa una organización/tenant del sistema. CNPJ y Email son únicos globalmente.
type Company struct {
	ID           string
	CNPJ         string // solo dígitos (14)
	LegalName    string
	TradeName    string
	OwnerName    string
	Email        string
	Phone        string
	Status       CompanyStatus
	Plan         string
	StatusReason string
	ApprovedAt   *time.Time
	ApprovedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsApproved indica si la empresa puede operar.
func (c *Company) IsApproved() bool {
	return c.Status == CompanyApproved
}

// ChangeStatus aplica una transición validada por la tabla de estados.
func (c *Company) ChangeStatus(to CompanyStatus, by, reason string, now time.Time) error {
	if err := companyTransitions.check("company", c.Status, to); err != nil {
		return err
	}
	c.Status = to
	c.StatusReason = reason
	if to == CompanyApproved {
		c.ApprovedAt = &now
		c.ApprovedBy = by
	}
	c.UpdatedAt = now
	return nil
}

// ValidPlan indica si el plan es uno de los soportados.
func ValidPlan(p string) bool {
	switch p {
	case PlanBasic, PlanProfessional, PlanEnterprise:
		return true
	}
	return false
}
