package repository

import (
	"context"
	"encoding/json"
	"errors"

	"homni_backend/internal/leads/domain"
	"homni_backend/internal/leads/pipeline"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, title, description, category, customer_name, customer_email, customer_phone,
	service_type, status, submitted_by, company_id, metadata, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type CreateLeadParams struct {
	Title         string
	Description   string
	Category      string
	CustomerName  string
	CustomerEmail *string
	CustomerPhone *string
	ServiceType   *string
	SubmittedBy   *uuid.UUID
	Metadata      map[string]any
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	metadata, err := marshalMetadata(params.Metadata)
	if err != nil {
		return domain.Lead{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (title, description, category, customer_name, customer_email, customer_phone,
			service_type, status, submitted_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		params.Title, params.Description, params.Category, params.CustomerName,
		params.CustomerEmail, params.CustomerPhone, params.ServiceType,
		string(domain.StatusNew), params.SubmittedBy, metadata,
	)

	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND deleted_at IS NULL
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// ListLeads returns the full lead set for the scope. No ordering is
// guaranteed; the pipeline board orders its own projection.
func (r *Repository) ListLeads(ctx context.Context, scope pipeline.Scope) ([]domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads WHERE deleted_at IS NULL`
	args := []any{}

	if scope.CompanyID != nil {
		query += ` AND company_id = $1`
		args = append(args, *scope.CompanyID)
	} else if scope.SubmitterID != nil {
		query += ` AND submitted_by = $1`
		args = append(args, *scope.SubmitterID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

// UpdateLeadStatus persists a single lead's raw status. The caller has
// already decided the transition; nothing is validated here.
func (r *Repository) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status domain.RawStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountLeadsByStatus buckets the scope's leads into the four pipeline
// stages with a single aggregate query. Statuses outside the canonical set
// fall into the new bucket, matching domain.NormalizeStatus.
func (r *Repository) CountLeadsByStatus(ctx context.Context, scope pipeline.Scope) (pipeline.StageCounts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status IN ('qualified', 'contacted', 'negotiating', 'paused')) AS in_progress,
			COUNT(*) FILTER (WHERE status = 'converted') AS won,
			COUNT(*) FILTER (WHERE status = 'lost') AS lost
		FROM leads WHERE deleted_at IS NULL`
	args := []any{}

	if scope.CompanyID != nil {
		query += ` AND company_id = $1`
		args = append(args, *scope.CompanyID)
	} else if scope.SubmitterID != nil {
		query += ` AND submitted_by = $1`
		args = append(args, *scope.SubmitterID)
	}

	var total int
	var counts pipeline.StageCounts
	err := r.pool.QueryRow(ctx, query, args...).Scan(&total, &counts.InProgress, &counts.Won, &counts.Lost)
	if err != nil {
		return pipeline.StageCounts{}, err
	}

	counts.New = total - counts.InProgress - counts.Won - counts.Lost
	return counts, nil
}

// SetSubmitter records the owning end user on a lead.
func (r *Repository) SetSubmitter(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET submitted_by = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignCompany sets the buying company on a lead.
func (r *Repository) AssignCompany(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET company_id = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+leadColumns,
		id, companyID,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return json.Marshal(metadata)
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status string
	var metadata []byte

	err := row.Scan(
		&lead.ID, &lead.Title, &lead.Description, &lead.Category,
		&lead.CustomerName, &lead.CustomerEmail, &lead.CustomerPhone,
		&lead.ServiceType, &status, &lead.SubmittedBy, &lead.CompanyID,
		&metadata, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	// The raw persisted value is carried as-is; normalization happens at
	// the pipeline boundary so fallbacks stay observable.
	lead.Status = domain.RawStatus(status)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &lead.Metadata); err != nil {
			return domain.Lead{}, err
		}
	}

	return lead, nil
}
