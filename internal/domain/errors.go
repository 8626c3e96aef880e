package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrUserInactive        = errors.New("usuario inactivo")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("pagos insuficientes para cubrir el total")
	ErrAlreadyCancelled    = errors.New("el documento ya fue cancelado")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrNumberConflict      = errors.New("conflicto al asignar el número secuencial, reintente")
	ErrCompanyNotApproved  = errors.New("la empresa no está aprobada")
	ErrRegisterAlreadyOpen = errors.New("el usuario ya tiene una caja abierta")
	ErrNoOpenRegister      = errors.New("no hay caja abierta")
	ErrReceivablePaid      = errors.New("la cuenta por cobrar ya está pagada")
)

// FieldError describe un problema puntual de un campo de entrada.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa errores por campo. Envuelve ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add agrega un problema de campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil devuelve nil cuando no hay campos acumulados.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockError identifica el ítem que no tiene stock suficiente. Envuelve ErrInsufficientStock.
type StockError struct {
	ProductID   string
	Description string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %s, disponible %s",
		e.Description, e.Requested.String(), e.Available.String())
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
