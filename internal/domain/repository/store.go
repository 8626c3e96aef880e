package repository

import "context"

// Repos conjunto de repositorios atados a una misma transacción (o al pool fuera de ella).
type Repos struct {
	Companies      CompanyRepository
	Users          UserRepository
	Customers      CustomerRepository
	Products       ProductRepository
	StockMovements StockMovementRepository
	Sales          SaleRepository
	Entries        EntryRepository
	Receivables    ReceivableRepository
	CashRegisters  CashRegisterRepository
	Counters       CounterRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
