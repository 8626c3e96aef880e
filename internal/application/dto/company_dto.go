package dto

import "time"

// RegisterCompanyRequest alta de empresa (queda pending) junto con su usuario owner.
type RegisterCompanyRequest struct {
	CNPJ          string `json:"cnpj" validate:"required,cnpj"`
	LegalName     string `json:"legal_name" validate:"required,min=1,max=200"`
	TradeName     string `json:"trade_name" validate:"omitempty,max=200"`
	OwnerName     string `json:"owner_name" validate:"required,min=1,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
	Plan          string `json:"plan" validate:"omitempty,oneof=basic professional enterprise"`
	OwnerPassword string `json:"owner_password" validate:"required,min=8"`
}

// CompanyStatusRequest motivo opcional de un cambio de estado.
type CompanyStatusRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string     `json:"id"`
	CNPJ         string     `json:"cnpj"`
	LegalName    string     `json:"legal_name"`
	TradeName    string     `json:"trade_name,omitempty"`
	OwnerName    string     `json:"owner_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Status       string     `json:"status"`
	Plan         string     `json:"plan"`
	StatusReason string     `json:"status_reason,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RegisterCompanyResponse resultado del alta.
type RegisterCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Owner   UserResponse    `json:"owner"`
}
