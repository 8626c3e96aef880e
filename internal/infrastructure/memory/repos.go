package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/numbering"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/textnorm"
)

// ─── Companies ───────────────────────────────────────────────

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ base }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	defer r.lock()()
	for _, x := range r.d().companies {
		if x.CNPJ == c.CNPJ || strings.EqualFold(x.Email, c.Email) {
			return domain.ErrDuplicate
		}
	}
	x := *c
	r.d().companies[c.ID] = &x
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	defer r.lock()()
	c, ok := r.d().companies[id]
	if !ok {
		return nil, nil
	}
	x := *c
	return &x, nil
}

func (r *CompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Company, error) {
	defer r.lock()()
	for _, c := range r.d().companies {
		if c.CNPJ == cnpj {
			x := *c
			return &x, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	defer r.lock()()
	if _, ok := r.d().companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	x := *c
	r.d().companies[c.ID] = &x
	return nil
}

func (r *CompanyRepo) List(_ context.Context, status entity.CompanyStatus, limit, offset int) ([]*entity.Company, error) {
	defer r.lock()()
	var out []*entity.Company
	for _, c := range r.d().companies {
		if status != "" && c.Status != status {
			continue
		}
		x := *c
		out = append(out, &x)
	}
	sortByCreatedDesc(out, func(c *entity.Company) int64 { return c.CreatedAt.UnixNano() })
	return paginate(out, limit, offset), nil
}

// ─── Users ───────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.lock()()
	for _, x := range r.d().users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	x := *u
	r.d().users[u.ID] = &x
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.d().users[id]
	if !ok {
		return nil, nil
	}
	x := *u
	return &x, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.d().users {
		if strings.EqualFold(u.Email, email) {
			x := *u
			return &x, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.lock()()
	if _, ok := r.d().users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.d().users {
		if x.ID != u.ID && strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	x := *u
	r.d().users[u.ID] = &x
	return nil
}

func (r *UserRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	defer r.lock()()
	u, ok := r.d().users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	defer r.lock()()
	var out []*entity.User
	for _, u := range r.d().users {
		if u.CompanyID == companyID {
			x := *u
			out = append(out, &x)
		}
	}
	sortByCreatedDesc(out, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() })
	return paginate(out, limit, offset), nil
}

// ─── Customers ───────────────────────────────────────────────

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ base }

func (r *CustomerRepo) documentTaken(c *entity.Customer) bool {
	for _, x := range r.d().customers {
		if x.ID != c.ID && x.CompanyID == c.CompanyID && x.Document == c.Document && !x.IsDeleted() {
			return true
		}
	}
	return false
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.lock()()
	if r.documentTaken(c) {
		return domain.ErrDuplicate
	}
	r.d().customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.lock()()
	c, ok := r.d().customers[id]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(c), nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) GetByDocument(_ context.Context, companyID, document string) (*entity.Customer, error) {
	defer r.lock()()
	for _, c := range r.d().customers {
		if c.CompanyID == companyID && c.Document == document && !c.IsDeleted() {
			return cloneCustomer(c), nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.lock()()
	cur, ok := r.d().customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.documentTaken(c) {
		return domain.ErrDuplicate
	}
	x := cloneCustomer(c)
	// los acumulados solo se escriben con UpdateTotals
	x.TotalPurchases, x.TotalSpent, x.LastPurchaseAt = cur.TotalPurchases, cur.TotalSpent, cur.LastPurchaseAt
	r.d().customers[c.ID] = x
	return nil
}

func (r *CustomerRepo) UpdateTotals(_ context.Context, c *entity.Customer) error {
	defer r.lock()()
	cur, ok := r.d().customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.TotalPurchases = c.TotalPurchases
	cur.TotalSpent = c.TotalSpent
	cur.LastPurchaseAt = c.LastPurchaseAt
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	defer r.lock()()
	search := textnorm.Fold(f.Search)
	var out []*entity.Customer
	for _, c := range r.d().customers {
		if c.CompanyID != f.CompanyID || (c.IsDeleted() && !f.IncludeDeleted) {
			continue
		}
		if search != "" && !strings.Contains(textnorm.Fold(c.Name), search) && !strings.Contains(c.Document, search) {
			continue
		}
		out = append(out, cloneCustomer(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, f.Limit, f.Offset), nil
}

// ─── Products ────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) barcodeTaken(p *entity.Product) bool {
	if p.Barcode == "" {
		return false
	}
	for _, x := range r.d().products {
		if x.ID != p.ID && x.CompanyID == p.CompanyID && x.Barcode == p.Barcode && !x.IsDeleted() {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	if r.barcodeTaken(p) {
		return domain.ErrDuplicate
	}
	r.d().products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.d().products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByBarcode(_ context.Context, companyID, barcode string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.d().products {
		if p.CompanyID == companyID && p.Barcode == barcode && !p.IsDeleted() {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.d().products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.barcodeTaken(p) {
		return domain.ErrDuplicate
	}
	x := cloneProduct(p)
	x.Quantity, x.TotalSold, x.TotalEntries, x.CostPrice = cur.Quantity, cur.TotalSold, cur.TotalEntries, cur.CostPrice
	r.d().products[p.ID] = x
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.d().products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Quantity.IsNegative() {
		return domain.ErrInsufficientStock
	}
	cur.Quantity = p.Quantity
	cur.TotalSold = p.TotalSold
	cur.TotalEntries = p.TotalEntries
	cur.CostPrice = p.CostPrice
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.lock()()
	search := textnorm.Fold(f.Search)
	var out []*entity.Product
	for _, p := range r.d().products {
		if p.CompanyID != f.CompanyID || (p.IsDeleted() && !f.IncludeDeleted) {
			continue
		}
		if f.Group != "" && !strings.EqualFold(p.Group, f.Group) {
			continue
		}
		if search != "" && !strings.Contains(p.SearchKey, search) && p.Barcode != f.Search {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SearchKey < out[j].SearchKey })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) lowStock(companyID string) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.d().products {
		if p.CompanyID == companyID && !p.IsDeleted() && p.LowStock() {
			out = append(out, cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].MinQuantity.Sub(out[i].Quantity)
		dj := out[j].MinQuantity.Sub(out[j].Quantity)
		return di.GreaterThan(dj)
	})
	return out
}

func (r *ProductRepo) ListLowStock(_ context.Context, companyID string, limit int) ([]*entity.Product, error) {
	defer r.lock()()
	return paginate(r.lowStock(companyID), limit, 0), nil
}

func (r *ProductRepo) CountLowStock(_ context.Context, companyID string) (int, error) {
	defer r.lock()()
	return len(r.lowStock(companyID)), nil
}

// ─── Stock movements ─────────────────────────────────────────

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de stock en memoria.
type StockMovementRepo struct{ base }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.lock()()
	x := *m
	r.s.d.movements = append(r.s.d.movements, &x)
	return nil
}

func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.lock()()
	var out []*entity.StockMovement
	for i := len(r.d().movements) - 1; i >= 0; i-- {
		m := r.d().movements[i]
		if m.ProductID == productID {
			x := *m
			out = append(out, &x)
		}
	}
	return paginate(out, limit, offset), nil
}

// ─── Sales ───────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ base }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.lock()()
	for _, x := range r.d().sales {
		if x.CompanyID == s.CompanyID && x.SaleNumber == s.SaleNumber {
			return domain.ErrNumberConflict
		}
	}
	r.d().sales[s.ID] = cloneSale(s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.lock()()
	s, ok := r.d().sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) Update(_ context.Context, s *entity.Sale) error {
	defer r.lock()()
	cur, ok := r.d().sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	x := cloneSale(s)
	x.Items = cur.Items
	r.d().sales[s.ID] = x
	return nil
}

func (r *SaleRepo) matches(s *entity.Sale, f repository.SaleFilter) bool {
	switch {
	case s.CompanyID != f.CompanyID:
		return false
	case f.CustomerID != "" && s.CustomerID != f.CustomerID:
		return false
	case f.UserID != "" && s.UserID != f.UserID:
		return false
	case f.Status != "" && s.Status != f.Status:
		return false
	case f.From != nil && s.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !s.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.lock()()
	var out []*entity.Sale
	for _, s := range r.d().sales {
		if r.matches(s, f) {
			out = append(out, cloneSale(s))
		}
	}
	sortByCreatedDesc(out, func(s *entity.Sale) int64 { return s.CreatedAt.UnixNano() })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *SaleRepo) LastNumber(_ context.Context, companyID string) (string, error) {
	defer r.lock()()
	var last *entity.Sale
	for _, s := range r.d().sales {
		if s.CompanyID == companyID && (last == nil || s.CreatedAt.After(last.CreatedAt)) {
			last = s
		}
	}
	if last == nil {
		return "", nil
	}
	return last.SaleNumber, nil
}

func (r *SaleRepo) Totals(_ context.Context, companyID string, from, to time.Time) (repository.SalesTotals, error) {
	defer r.lock()()
	t := repository.SalesTotals{Total: decimal.Zero}
	for _, s := range r.d().sales {
		if s.CompanyID != companyID || s.Status == entity.SaleCancelled {
			continue
		}
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		t.Count++
		t.Total = t.Total.Add(s.Total)
	}
	return t, nil
}

func (r *SaleRepo) TopProducts(_ context.Context, companyID string, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	defer r.lock()()
	agg := map[string]*repository.ProductSales{}
	for _, s := range r.d().sales {
		if s.CompanyID != companyID || s.Status == entity.SaleCancelled {
			continue
		}
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		for _, it := range s.Items {
			ps, ok := agg[it.ProductID]
			if !ok {
				ps = &repository.ProductSales{ProductID: it.ProductID, Description: it.Description, Quantity: decimal.Zero, Total: decimal.Zero}
				agg[it.ProductID] = ps
			}
			ps.Quantity = ps.Quantity.Add(it.Quantity)
			ps.Total = ps.Total.Add(it.Total)
		}
	}
	out := make([]repository.ProductSales, 0, len(agg))
	for _, ps := range agg {
		out = append(out, *ps)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Description < out[j].Description
		}
		return out[i].Quantity.GreaterThan(out[j].Quantity)
	})
	return paginate(out, limit, 0), nil
}

// ─── Entries ─────────────────────────────────────────────────

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo entradas en memoria.
type EntryRepo struct{ base }

func (r *EntryRepo) Create(_ context.Context, e *entity.Entry) error {
	defer r.lock()()
	for _, x := range r.d().entries {
		if x.CompanyID == e.CompanyID && x.EntryNumber == e.EntryNumber {
			return domain.ErrNumberConflict
		}
	}
	r.d().entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *EntryRepo) GetByID(_ context.Context, id string) (*entity.Entry, error) {
	defer r.lock()()
	e, ok := r.d().entries[id]
	if !ok {
		return nil, nil
	}
	return cloneEntry(e), nil
}

func (r *EntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Entry, error) {
	return r.GetByID(ctx, id)
}

func (r *EntryRepo) Update(_ context.Context, e *entity.Entry) error {
	defer r.lock()()
	if _, ok := r.d().entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.d().entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *EntryRepo) List(_ context.Context, f repository.EntryFilter) ([]*entity.Entry, error) {
	defer r.lock()()
	var out []*entity.Entry
	for _, e := range r.d().entries {
		if e.CompanyID != f.CompanyID || (f.Status != "" && e.Status != f.Status) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sortByCreatedDesc(out, func(e *entity.Entry) int64 { return e.CreatedAt.UnixNano() })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *EntryRepo) LastNumber(_ context.Context, companyID string) (string, error) {
	defer r.lock()()
	var last *entity.Entry
	for _, e := range r.d().entries {
		if e.CompanyID == companyID && (last == nil || e.CreatedAt.After(last.CreatedAt)) {
			last = e
		}
	}
	if last == nil {
		return "", nil
	}
	return last.EntryNumber, nil
}

// ─── Receivables ─────────────────────────────────────────────

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo cuentas por cobrar en memoria.
type ReceivableRepo struct{ base }

func (r *ReceivableRepo) Create(_ context.Context, rc *entity.Receivable) error {
	defer r.lock()()
	for _, x := range r.d().receivables {
		if x.SaleID == rc.SaleID && x.PaymentID == rc.PaymentID {
			return domain.ErrDuplicate
		}
	}
	r.d().receivables[rc.ID] = cloneReceivable(rc)
	return nil
}

func (r *ReceivableRepo) GetByID(_ context.Context, id string) (*entity.Receivable, error) {
	defer r.lock()()
	rc, ok := r.d().receivables[id]
	if !ok {
		return nil, nil
	}
	return cloneReceivable(rc), nil
}

func (r *ReceivableRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receivable, error) {
	return r.GetByID(ctx, id)
}

func (r *ReceivableRepo) GetBySalePayment(_ context.Context, saleID, paymentID string) (*entity.Receivable, error) {
	defer r.lock()()
	for _, rc := range r.d().receivables {
		if rc.SaleID == saleID && rc.PaymentID == paymentID {
			return cloneReceivable(rc), nil
		}
	}
	return nil, nil
}

func (r *ReceivableRepo) Update(_ context.Context, rc *entity.Receivable) error {
	defer r.lock()()
	if _, ok := r.d().receivables[rc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.d().receivables[rc.ID] = cloneReceivable(rc)
	return nil
}

func (r *ReceivableRepo) List(_ context.Context, f repository.ReceivableFilter) ([]*entity.Receivable, error) {
	defer r.lock()()
	var out []*entity.Receivable
	for _, rc := range r.d().receivables {
		switch {
		case rc.CompanyID != f.CompanyID,
			f.CustomerID != "" && rc.CustomerID != f.CustomerID,
			f.SaleID != "" && rc.SaleID != f.SaleID,
			f.Status != "" && rc.Status != f.Status:
			continue
		}
		out = append(out, cloneReceivable(rc))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ReceivableRepo) ListOpenDue(_ context.Context, companyID string, now time.Time, limit int) ([]*entity.Receivable, error) {
	defer r.lock()()
	var out []*entity.Receivable
	for _, rc := range r.d().receivables {
		if (companyID != "" && rc.CompanyID != companyID) || !rc.IsOpen() {
			continue
		}
		for _, inst := range rc.Installments {
			if inst.Status == entity.InstallmentPending && now.After(inst.DueDate) {
				out = append(out, cloneReceivable(rc))
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return paginate(out, limit, 0), nil
}

func (r *ReceivableRepo) Summary(_ context.Context, companyID string) (repository.ReceivableSummary, error) {
	defer r.lock()()
	s := repository.ReceivableSummary{PendingTotal: decimal.Zero, OverdueTotal: decimal.Zero, PaidTotal: decimal.Zero}
	for _, rc := range r.d().receivables {
		if rc.CompanyID != companyID {
			continue
		}
		switch rc.Status {
		case entity.ReceivablePending:
			s.PendingCount++
			s.PendingTotal = s.PendingTotal.Add(rc.CurrentAmount)
		case entity.ReceivableOverdue:
			s.OverdueCount++
			s.OverdueTotal = s.OverdueTotal.Add(rc.CurrentAmount)
		case entity.ReceivablePaid:
			s.PaidCount++
			s.PaidTotal = s.PaidTotal.Add(rc.OriginalAmount)
		}
	}
	return s, nil
}

// ─── Cash registers ──────────────────────────────────────────

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo sesiones de caja en memoria.
type CashRegisterRepo struct{ base }

func (r *CashRegisterRepo) Create(_ context.Context, c *entity.CashRegister) error {
	defer r.lock()()
	for _, x := range r.d().registers {
		if x.CompanyID == c.CompanyID && x.UserID == c.UserID && x.IsOpen() {
			return domain.ErrRegisterAlreadyOpen
		}
	}
	x := *c
	r.d().registers[c.ID] = &x
	return nil
}

func (r *CashRegisterRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	defer r.lock()()
	c, ok := r.d().registers[id]
	if !ok {
		return nil, nil
	}
	x := *c
	return &x, nil
}

func (r *CashRegisterRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.GetByID(ctx, id)
}

func (r *CashRegisterRepo) GetOpenForUpdate(_ context.Context, companyID, userID string) (*entity.CashRegister, error) {
	defer r.lock()()
	for _, c := range r.d().registers {
		if c.CompanyID == companyID && c.UserID == userID && c.IsOpen() {
			x := *c
			return &x, nil
		}
	}
	return nil, nil
}

func (r *CashRegisterRepo) Update(_ context.Context, c *entity.CashRegister) error {
	defer r.lock()()
	if _, ok := r.d().registers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	x := *c
	r.d().registers[c.ID] = &x
	return nil
}

func (r *CashRegisterRepo) List(_ context.Context, companyID, userID string, limit, offset int) ([]*entity.CashRegister, error) {
	defer r.lock()()
	var out []*entity.CashRegister
	for _, c := range r.d().registers {
		if c.CompanyID != companyID || (userID != "" && c.UserID != userID) {
			continue
		}
		x := *c
		out = append(out, &x)
	}
	sortByCreatedDesc(out, func(c *entity.CashRegister) int64 { return c.OpenedAt.UnixNano() })
	return paginate(out, limit, offset), nil
}

// ─── Counters ────────────────────────────────────────────────

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo contadores de numeración en memoria.
type CounterRepo struct{ base }

// Next siembra el contador desde el último documento cuando aún no existe.
func (r *CounterRepo) Next(_ context.Context, companyID string, kind numbering.Kind) (int64, error) {
	if !kind.Valid() {
		return 0, domain.ErrInvalidInput
	}
	defer r.lock()()
	key := counterKey{companyID: companyID, kind: kind}
	cur, ok := r.d().counters[key]
	if !ok {
		cur = numbering.SeedFrom(kind, r.lastNumber(companyID, kind))
	}
	cur++
	r.d().counters[key] = cur
	return cur, nil
}

func (r *CounterRepo) lastNumber(companyID string, kind numbering.Kind) string {
	var (
		last   string
		lastAt time.Time
	)
	switch kind {
	case numbering.KindSale:
		for _, s := range r.d().sales {
			if s.CompanyID == companyID && s.CreatedAt.After(lastAt) {
				last, lastAt = s.SaleNumber, s.CreatedAt
			}
		}
	case numbering.KindEntry:
		for _, e := range r.d().entries {
			if e.CompanyID == companyID && e.CreatedAt.After(lastAt) {
				last, lastAt = e.EntryNumber, e.CreatedAt
			}
		}
	}
	return last
}
