package dto

import (
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Conversores entidad -> respuesta compartidos por los casos de uso.

func NewCompanyResponse(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:           c.ID,
		CNPJ:         c.CNPJ,
		LegalName:    c.LegalName,
		TradeName:    c.TradeName,
		OwnerName:    c.OwnerName,
		Email:        c.Email,
		Phone:        c.Phone,
		Status:       string(c.Status),
		Plan:         c.Plan,
		StatusReason: c.StatusReason,
		ApprovedAt:   c.ApprovedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	perms := u.Permissions()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	return &UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: names,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func NewCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		Name:           c.Name,
		Document:       c.Document,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        AddressDTO(c.Address),
		Active:         c.Active,
		TotalPurchases: c.TotalPurchases,
		TotalSpent:     c.TotalSpent,
		LastPurchaseAt: c.LastPurchaseAt,
		DeletedAt:      c.DeletedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Barcode:      p.Barcode,
		Description:  p.Description,
		Brand:        p.Brand,
		Group:        p.Group,
		Subgroup:     p.Subgroup,
		Unit:         p.Unit,
		Quantity:     p.Quantity,
		MinQuantity:  p.MinQuantity,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		LowStock:     p.LowStock(),
		Active:       p.Active,
		TotalSold:    p.TotalSold,
		TotalEntries: p.TotalEntries,
		DeletedAt:    p.DeletedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Type:         m.Type,
		Reason:       m.Reason,
		Quantity:     m.Quantity,
		BalanceAfter: m.BalanceAfter,
		Reference:    m.Reference,
		Notes:        m.Notes,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

func NewLowStockItem(p *entity.Product) LowStockItem {
	return LowStockItem{
		ProductID:   p.ID,
		Barcode:     p.Barcode,
		Description: p.Description,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Deficit:     decimal.Max(p.MinQuantity.Sub(p.Quantity), decimal.Zero),
		Unit:        p.Unit,
	}
}

func NewSaleResponse(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse(it))
	}
	payments := make([]SalePaymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, SalePaymentResponse(p))
	}
	return &SaleResponse{
		ID:             s.ID,
		CompanyID:      s.CompanyID,
		SaleNumber:     s.SaleNumber,
		CustomerID:     s.CustomerID,
		UserID:         s.UserID,
		CashRegisterID: s.CashRegisterID,
		Items:          items,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Total:          s.Total,
		Payments:       payments,
		AmountPaid:     s.AmountPaid,
		Change:         s.Change,
		Status:         string(s.Status),
		Notes:          s.Notes,
		CancelledAt:    s.CancelledAt,
		CancelledBy:    s.CancelledBy,
		CancelReason:   s.CancelReason,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func NewEntryResponse(e *entity.Entry) *EntryResponse {
	if e == nil {
		return nil
	}
	items := make([]EntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, EntryItemResponse(it))
	}
	return &EntryResponse{
		ID:             e.ID,
		CompanyID:      e.CompanyID,
		EntryNumber:    e.EntryNumber,
		FiscalDocument: e.FiscalDocument,
		Supplier:       SupplierDTO(e.Supplier),
		InvoiceValue:   e.InvoiceValue,
		Items:          items,
		TotalCost:      e.TotalCost,
		Status:         string(e.Status),
		Notes:          e.Notes,
		UserID:         e.UserID,
		CompletedAt:    e.CompletedAt,
		CancelledAt:    e.CancelledAt,
		CancelReason:   e.CancelReason,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func NewReceivableResponse(r *entity.Receivable) *ReceivableResponse {
	if r == nil {
		return nil
	}
	inst := make([]InstallmentResponse, 0, len(r.Installments))
	for _, i := range r.Installments {
		inst = append(inst, InstallmentResponse(i))
	}
	pays := make([]ReceivablePaymentResponse, 0, len(r.Payments))
	for _, p := range r.Payments {
		pays = append(pays, ReceivablePaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount,
			Method:      p.Method,
			PaidAt:      p.PaidAt,
			UserID:      p.UserID,
			Notes:       p.Notes,
			Installment: p.InstallmentNumber,
		})
	}
	return &ReceivableResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		SaleID:         r.SaleID,
		PaymentID:      r.PaymentID,
		SaleNumber:     r.SaleNumber,
		CustomerID:     r.CustomerID,
		Method:         r.Method,
		OriginalAmount: r.OriginalAmount,
		CurrentAmount:  r.CurrentAmount,
		DueDate:        r.DueDate,
		Status:         string(r.Status),
		Installments:   inst,
		Payments:       pays,
		PaidAt:         r.PaidAt,
		CancelledAt:    r.CancelledAt,
		CancelReason:   r.CancelReason,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewCashRegisterResponse(c *entity.CashRegister) *CashRegisterResponse {
	if c == nil {
		return nil
	}
	return &CashRegisterResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		UserID:          c.UserID,
		Status:          string(c.Status),
		OpeningBalance:  c.OpeningBalance,
		ClosingBalance:  c.ClosingBalance,
		ExpectedBalance: c.ExpectedBalance,
		Difference:      c.Difference,
		TotalSales:      c.TotalSales,
		TotalCash:       c.TotalCash,
		TotalCard:       c.TotalCard,
		TotalOther:      c.TotalOther,
		TotalChange:     c.TotalChange,
		SalesCount:      c.SalesCount,
		Notes:           c.Notes,
		OpenedAt:        c.OpenedAt,
		ClosedAt:        c.ClosedAt,
	}
}
