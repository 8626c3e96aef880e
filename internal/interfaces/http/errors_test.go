package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
)

func TestRespondError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("items", "es obligatorio"), 400, "VALIDATION"},
		{fmt.Errorf("x: %w", domain.ErrInvalidInput), 400, "VALIDATION"},
		{domain.ErrUserNotFound, 401, "UNAUTHORIZED"},
		{domain.ErrForbidden, 403, "FORBIDDEN"},
		{domain.ErrCompanyNotApproved, 403, "COMPANY_NOT_APPROVED"},
		{fmt.Errorf("venta: %w", domain.ErrNotFound), 404, "NOT_FOUND"},
		{domain.ErrEmailAlreadyExists, 409, "EMAIL_EXISTS"},
		{domain.ErrDuplicate, 409, "DUPLICATE"},
		{&domain.StockError{ProductID: "p1", Description: "Arroz"}, 422, "INSUFFICIENT_STOCK"},
		{domain.ErrInsufficientPayment, 422, "INSUFFICIENT_PAYMENT"},
		{domain.ErrAlreadyCancelled, 409, "ALREADY_CANCELLED"},
		{domain.ErrRegisterAlreadyOpen, 409, "REGISTER_ALREADY_OPEN"},
		{domain.ErrReceivablePaid, 409, "RECEIVABLE_PAID"},
		{domain.ErrNumberConflict, 409, "NUMBER_CONFLICT"},
		{errors.New("pgx: conexión rechazada en 10.0.0.3"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, body.Code)
			if tc.code == "NUMBER_CONFLICT" {
				assert.True(t, body.Retryable)
			}
			if tc.status == 500 {
				assert.NotContains(t, body.Message, "10.0.0.3", "no filtra detalles internos")
			}
		})
	}
}

func TestValidator_FieldPaths(t *testing.T) {
	v := NewValidator()
	err := v.Struct(dto.CreateSaleRequest{
		CustomerID: "no-uuid",
		Items:      []dto.SaleItemRequest{{ProductID: "00000000-0000-0000-0000-000000000001"}},
		Payments:   []dto.SalePaymentRequest{{Method: "cheque"}},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "customer_id")
	assert.Contains(t, fields, "items[0].quantity")
	assert.Contains(t, fields, "payments[0].method")
	assert.Contains(t, fields, "payments[0].amount")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidator_BrazilianDocuments(t *testing.T) {
	v := NewValidator()
	in := dto.CreateCustomerRequest{Name: "Ana", Document: "123.456.789-09"}
	assert.NoError(t, v.Struct(in))

	in.Document = "123.456.789-00"
	assert.Error(t, v.Struct(in))
}
