package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentowl/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Tenant, error)
	ListActive(ctx context.Context) ([]*models.Tenant, error)

	UpdateIfVersion(ctx context.Context, t *models.Tenant, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error

	// AddCredit is a persisted increment, not an overwrite, so that
	// concurrent overpayments accumulate instead of clobbering.
	AddCredit(ctx context.Context, id uuid.UUID, amount int64) error
}

/* ───────────── implementation ───────────── */

type tenantRepo struct {
	*BaseVersionedRepo[*models.Tenant]
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	r := &tenantRepo{db: db}
	selectStmt := baseSelectTenant() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanTenant)
	return r
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (
			id, property_id, first_name, last_name, email, phone_number,
			unit_label, unit_type, floor_name, rent, deposit, credit,
			moved_in_at, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
	`, t.ID, t.PropertyID, t.FirstName, t.LastName, t.Email, t.PhoneNumber,
		t.UnitLabel, t.UnitType, t.FloorName, t.Rent, t.Deposit, t.Credit, t.MovedInAt)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *tenantRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" WHERE property_id=$1 AND deleted_at IS NULL ORDER BY unit_label", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTenants(rows)
}

func (r *tenantRepo) ListActive(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" WHERE moved_out_at IS NULL AND deleted_at IS NULL ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTenants(rows)
}

func (r *tenantRepo) UpdateIfVersion(ctx context.Context, t *models.Tenant, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE tenants
		SET first_name=$1, last_name=$2, email=$3, phone_number=$4,
		    unit_label=$5, unit_type=$6, floor_name=$7, rent=$8, deposit=$9,
		    moved_out_at=$10, updated_at=NOW(), row_version=row_version+1
		WHERE id=$11 AND row_version=$12
	`, t.FirstName, t.LastName, t.Email, t.PhoneNumber,
		t.UnitLabel, t.UnitType, t.FloorName, t.Rent, t.Deposit,
		t.MovedOutAt, t.ID, expected)
}

func (r *tenantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenant) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *tenantRepo) AddCredit(ctx context.Context, id uuid.UUID, amount int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tenants SET credit = credit + $1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL
	`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectTenant() string {
	return `
		SELECT id, property_id, first_name, last_name, email, phone_number,
		unit_label, unit_type, floor_name, rent, deposit, credit,
		moved_in_at, moved_out_at, created_at, updated_at, deleted_at, row_version
		FROM tenants`
}

func (r *tenantRepo) scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(
		&t.ID, &t.PropertyID, &t.FirstName, &t.LastName, &t.Email, &t.PhoneNumber,
		&t.UnitLabel, &t.UnitType, &t.FloorName, &t.Rent, &t.Deposit, &t.Credit,
		&t.MovedInAt, &t.MovedOutAt, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt, &t.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *tenantRepo) scanTenants(rows pgx.Rows) ([]*models.Tenant, error) {
	var out []*models.Tenant
	for rows.Next() {
		t, err := r.scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
