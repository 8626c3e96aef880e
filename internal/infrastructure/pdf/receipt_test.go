package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/pdf"
)

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0,00",
		"9.9":     "R$ 9,90",
		"1234.5":  "R$ 1.234,50",
		"1000000": "R$ 1.000.000,00",
		"-42.125": "-R$ 42,13",
		"999.999": "R$ 1.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatBRL(decimal.RequireFromString(in)), in)
	}
}

func TestReceiptRenderer_Render(t *testing.T) {
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID:         "5f0c6d2e-1111-4c3a-9a55-000000000001",
		SaleNumber: "VND-000001",
		Items: []entity.SaleItem{
			{Description: "Arroz 5kg", Unit: entity.UnitUND, UnitPrice: decimal.RequireFromString("24.90"), Quantity: decimal.NewFromInt(2), Total: decimal.RequireFromString("49.80")},
			{Description: "Queijo", Unit: entity.UnitKG, UnitPrice: decimal.RequireFromString("50"), Quantity: decimal.RequireFromString("0.350"), Total: decimal.RequireFromString("17.50")},
		},
		Subtotal: decimal.RequireFromString("67.30"),
		Discount: decimal.RequireFromString("0.30"),
		Total:    decimal.NewFromInt(67),
		Payments: []entity.SalePayment{
			{ID: "p1", Method: entity.PaymentCash, Amount: decimal.NewFromInt(50), Status: entity.PaymentPaid},
			{ID: "p2", Method: entity.PaymentCrediario, Amount: decimal.NewFromInt(20), Status: entity.PaymentPending, Installments: 2, DueDate: &due},
		},
		Change:    decimal.NewFromInt(3),
		Status:    entity.SaleCompleted,
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	data := sales.ReceiptData{
		Company:  &entity.Company{CNPJ: "11222333000181", LegalName: "Mercado Bom Preço LTDA", TradeName: "Bom Preço"},
		Customer: &entity.Customer{Name: "Maria", Document: "52998224725"},
		Sale:     sale,
	}

	out, err := pdf.NewReceiptRenderer(nil).Render(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	sale.Status = entity.SaleCancelled
	sale.CancelReason = "cliente desistiu"
	out, err = pdf.NewReceiptRenderer(time.UTC).Render(context.Background(), sales.ReceiptData{Company: data.Company, Sale: sale})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestReceiptRenderer_RequiresSaleAndCompany(t *testing.T) {
	_, err := pdf.NewReceiptRenderer(nil).Render(context.Background(), sales.ReceiptData{})
	assert.Error(t, err)
}
