// Package memory implementa los puertos de persistencia en memoria (modo demo APP_STORE=memory y tests).
// Las transacciones se serializan con un mutex global y se deshacen restaurando una copia del estado.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/numbering"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

type counterKey struct {
	companyID string
	kind      numbering.Kind
}

type data struct {
	companies   map[string]*entity.Company
	users       map[string]*entity.User
	customers   map[string]*entity.Customer
	products    map[string]*entity.Product
	movements   []*entity.StockMovement
	sales       map[string]*entity.Sale
	entries     map[string]*entity.Entry
	receivables map[string]*entity.Receivable
	registers   map[string]*entity.CashRegister
	counters    map[counterKey]int64
}

func newData() *data {
	return &data{
		companies:   map[string]*entity.Company{},
		users:       map[string]*entity.User{},
		customers:   map[string]*entity.Customer{},
		products:    map[string]*entity.Product{},
		sales:       map[string]*entity.Sale{},
		entries:     map[string]*entity.Entry{},
		receivables: map[string]*entity.Receivable{},
		registers:   map[string]*entity.CashRegister{},
		counters:    map[counterKey]int64{},
	}
}

// snapshot copia profunda usada para deshacer una transacción fallida.
func (d *data) snapshot() *data {
	c := newData()
	for k, v := range d.companies {
		x := *v
		c.companies[k] = &x
	}
	for k, v := range d.users {
		x := *v
		c.users[k] = &x
	}
	for k, v := range d.customers {
		c.customers[k] = cloneCustomer(v)
	}
	for k, v := range d.products {
		c.products[k] = cloneProduct(v)
	}
	c.movements = append(c.movements, d.movements...)
	for k, v := range d.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range d.entries {
		c.entries[k] = cloneEntry(v)
	}
	for k, v := range d.receivables {
		c.receivables[k] = cloneReceivable(v)
	}
	for k, v := range d.registers {
		x := *v
		c.registers[k] = &x
	}
	for k, v := range d.counters {
		c.counters[k] = v
	}
	return c
}

// Store almacenamiento en memoria. Seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// enter toma el lock salvo que la llamada ocurra dentro de una transacción (que ya lo posee).
func (s *Store) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	b := base{s: s, tx: inTx}
	return repository.Repos{
		Companies:      &CompanyRepo{b},
		Users:          &UserRepo{b},
		Customers:      &CustomerRepo{b},
		Products:       &ProductRepo{b},
		StockMovements: &StockMovementRepo{b},
		Sales:          &SaleRepo{b},
		Entries:        &EntryRepo{b},
		Receivables:    &ReceivableRepo{b},
		CashRegisters:  &CashRegisterRepo{b},
		Counters:       &CounterRepo{b},
	}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con semántica todo-o-nada sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa la transacción; si fn falla (o entra en pánico) restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	saved := r.s.d.snapshot()
	defer func() {
		if p := recover(); p != nil {
			r.s.d = saved
			err = fmt.Errorf("memory tx panic: %v", p)
			return
		}
		if err != nil {
			r.s.d = saved
		}
	}()
	return fn(r.s.repos(true))
}

type base struct {
	s  *Store
	tx bool
}

func (b base) lock() func() { return b.s.enter(b.tx) }

func (b base) d() *data { return b.s.d }

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortByCreatedDesc[T any](list []T, created func(T) int64) {
	sort.SliceStable(list, func(i, j int) bool { return created(list[i]) > created(list[j]) })
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	x := *c
	return &x
}

func cloneProduct(p *entity.Product) *entity.Product {
	x := *p
	return &x
}

func cloneSale(s *entity.Sale) *entity.Sale {
	x := *s
	x.Items = append([]entity.SaleItem(nil), s.Items...)
	x.Payments = append([]entity.SalePayment(nil), s.Payments...)
	return &x
}

func cloneEntry(e *entity.Entry) *entity.Entry {
	x := *e
	x.Items = append([]entity.EntryItem(nil), e.Items...)
	return &x
}

func cloneReceivable(r *entity.Receivable) *entity.Receivable {
	x := *r
	x.Installments = append([]entity.Installment(nil), r.Installments...)
	x.Payments = append([]entity.ReceivablePayment(nil), r.Payments...)
	return &x
}
