package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homni_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyNotFoundMsg = "company not found"

// Repository provides database operations for companies.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new companies repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Company struct {
	ID             uuid.UUID
	Name           string
	OrgNumber      string
	ContactName    string
	ContactEmail   string
	ContactPhone   *string
	City           *string
	Active         bool
	EnabledModules []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CompanyUpdate struct {
	ID           uuid.UUID
	Name         *string
	OrgNumber    *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	City         *string
	Active       *bool
}

const companyColumns = `
	id, name, org_number, contact_name, contact_email, contact_phone,
	city, active, enabled_modules, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, company Company) (Company, error) {
	query := `
		INSERT INTO companies (
			name, org_number, contact_name, contact_email, contact_phone,
			city, active, enabled_modules
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + companyColumns

	row := r.pool.QueryRow(ctx, query,
		company.Name,
		company.OrgNumber,
		company.ContactName,
		company.ContactEmail,
		company.ContactPhone,
		company.City,
		company.Active,
		company.EnabledModules,
	)
	created, err := scanCompany(row)
	if err != nil {
		return Company{}, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	company, err := scanCompany(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMsg)
		}
		return Company{}, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

func (r *Repository) List(ctx context.Context) ([]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	items := make([]Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		items = append(items, company)
	}
	return items, rows.Err()
}

func (r *Repository) Update(ctx context.Context, update CompanyUpdate) (Company, error) {
	query := `
		UPDATE companies
		SET
			name = COALESCE($2, name),
			org_number = COALESCE($3, org_number),
			contact_name = COALESCE($4, contact_name),
			contact_email = COALESCE($5, contact_email),
			contact_phone = COALESCE($6, contact_phone),
			city = COALESCE($7, city),
			active = COALESCE($8, active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns

	row := r.pool.QueryRow(ctx, query,
		update.ID,
		update.Name,
		update.OrgNumber,
		update.ContactName,
		update.ContactEmail,
		update.ContactPhone,
		update.City,
		update.Active,
	)
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMsg)
		}
		return Company{}, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(companyNotFoundMsg)
	}
	return nil
}

// SetEnabledModules replaces the set of product modules a company can use.
func (r *Repository) SetEnabledModules(ctx context.Context, id uuid.UUID, modules []string) (Company, error) {
	query := `
		UPDATE companies
		SET enabled_modules = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns

	company, err := scanCompany(r.pool.QueryRow(ctx, query, id, modules))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMsg)
		}
		return Company{}, fmt.Errorf("set company modules: %w", err)
	}
	return company, nil
}

func scanCompany(row pgx.Row) (Company, error) {
	var company Company
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.OrgNumber,
		&company.ContactName,
		&company.ContactEmail,
		&company.ContactPhone,
		&company.City,
		&company.Active,
		&company.EnabledModules,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	return company, err
}
