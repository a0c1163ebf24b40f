package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentowl/backend/internal/models"
)

type MaintenanceRequestRepository interface {
	Create(ctx context.Context, m *models.MaintenanceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.MaintenanceRequest, error)
	ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.MaintenanceRequest, error)
	UpdateIfVersion(ctx context.Context, m *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error
}

type maintenanceRepo struct {
	*BaseVersionedRepo[*models.MaintenanceRequest]
	db DB
}

func NewMaintenanceRequestRepository(db DB) MaintenanceRequestRepository {
	r := &maintenanceRepo{db: db}
	selectStmt := baseSelectMaintenance() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanRequest)
	return r
}

func (r *maintenanceRepo) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO maintenance_requests (
			id, tenant_id, property_id, unit_label, title, description, status,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
	`, m.ID, m.TenantID, m.PropertyID, m.UnitLabel, m.Title, m.Description, m.Status)
	return err
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *maintenanceRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectMaintenance()+" WHERE property_id=$1 ORDER BY created_at DESC", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRequests(rows)
}

func (r *maintenanceRepo) ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectMaintenance()+" WHERE tenant_id=$1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRequests(rows)
}

func (r *maintenanceRepo) UpdateIfVersion(ctx context.Context, m *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE maintenance_requests
		SET title=$1, description=$2, status=$3, resolved_at=$4,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$5 AND row_version=$6
	`, m.Title, m.Description, m.Status, m.ResolvedAt, m.ID, expected)
}

func (r *maintenanceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectMaintenance() string {
	return `
		SELECT id, tenant_id, property_id, unit_label, title, description, status,
		resolved_at, created_at, updated_at, row_version
		FROM maintenance_requests`
}

func (r *maintenanceRepo) scanRequest(row pgx.Row) (*models.MaintenanceRequest, error) {
	var m models.MaintenanceRequest
	if err := row.Scan(
		&m.ID, &m.TenantID, &m.PropertyID, &m.UnitLabel, &m.Title, &m.Description, &m.Status,
		&m.ResolvedAt, &m.CreatedAt, &m.UpdatedAt, &m.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *maintenanceRepo) scanRequests(rows pgx.Rows) ([]*models.MaintenanceRequest, error) {
	var out []*models.MaintenanceRequest
	for rows.Next() {
		m, err := r.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
