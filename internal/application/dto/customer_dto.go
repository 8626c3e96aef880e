package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressDTO dirección postal.
type AddressDTO struct {
	Street     string `json:"street" validate:"omitempty,max=200"`
	Number     string `json:"number" validate:"omitempty,max=20"`
	Complement string `json:"complement" validate:"omitempty,max=100"`
	District   string `json:"district" validate:"omitempty,max=100"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,len=2"`
	ZipCode    string `json:"zip_code" validate:"omitempty,max=9"`
}

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=200"`
	Document string     `json:"document" validate:"required,cpfcnpj"`
	Email    string     `json:"email" validate:"omitempty,email"`
	Phone    string     `json:"phone" validate:"omitempty,max=30"`
	Address  AddressDTO `json:"address"`
}

// UpdateCustomerRequest cambios parciales de un cliente.
type UpdateCustomerRequest struct {
	Name     *string     `json:"name" validate:"omitempty,min=1,max=200"`
	Document *string     `json:"document" validate:"omitempty,cpfcnpj"`
	Email    *string     `json:"email" validate:"omitempty,email"`
	Phone    *string     `json:"phone" validate:"omitempty,max=30"`
	Address  *AddressDTO `json:"address"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	Document       string          `json:"document"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        AddressDTO      `json:"address"`
	Active         bool            `json:"active"`
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	LastPurchaseAt *time.Time      `json:"last_purchase_at,omitempty"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
