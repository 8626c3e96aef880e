package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, cnpj, legal_name, trade_name, owner_name, email, phone, status, plan,
	status_reason, approved_at, approved_by, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.CNPJ, &c.LegalName, &c.TradeName, &c.OwnerName, &c.Email, &c.Phone, &c.Status, &c.Plan,
		&c.StatusReason, &c.ApprovedAt, &c.ApprovedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. CNPJ o email repetido devuelve ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CNPJ, c.LegalName, c.TradeName, c.OwnerName, c.Email, c.Phone, c.Status, c.Plan,
		c.StatusReason, c.ApprovedAt, c.ApprovedBy, c.CreatedAt, c.UpdatedAt,
	)
	return mapWriteError("insert company", err)
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByCNPJ obtiene una empresa por CNPJ (solo dígitos).
func (r *CompanyRepo) GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE cnpj = $1`, cnpj))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by cnpj: %w", err)
	}
	return c, nil
}

// Update actualiza datos y estado de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET legal_name = $2, trade_name = $3, owner_name = $4, email = $5, phone = $6,
			status = $7, plan = $8, status_reason = $9, approved_at = $10, approved_by = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.LegalName, c.TradeName, c.OwnerName, c.Email, c.Phone,
		c.Status, c.Plan, c.StatusReason, c.ApprovedAt, c.ApprovedBy, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update company", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas (más recientes primero), filtrando por estado si se indica.
func (r *CompanyRepo) List(ctx context.Context, status entity.CompanyStatus, limit, offset int) ([]*entity.Company, error) {
	var w where
	if status != "" {
		w.add("status = $%d", status)
	}
	query := `SELECT ` + companyColumns + ` FROM companies` + w.String() + ` ORDER BY created_at DESC` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
