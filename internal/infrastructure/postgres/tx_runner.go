package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La consistencia de stock y contadores la dan los SELECT ... FOR UPDATE de los repositorios.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye todos los adaptadores sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Companies:      NewCompanyRepository(q),
		Users:          NewUserRepository(q),
		Customers:      NewCustomerRepository(q),
		Products:       NewProductRepository(q),
		StockMovements: NewStockMovementRepository(q),
		Sales:          NewSaleRepository(q),
		Entries:        NewEntryRepository(q),
		Receivables:    NewReceivableRepository(q),
		CashRegisters:  NewCashRegisterRepository(q),
		Counters:       NewCounterRepository(q),
	}
}
