package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentowl/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)

	// FindOpenByType returns the single open (UNPAID/PARTIAL) obligation
	// of the given type for (tenant, property), or nil when none exists.
	FindOpenByType(ctx context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error)

	// FindLatestByType returns the most recently due obligation of the
	// given type for (tenant, property) regardless of status, or nil.
	FindLatestByType(ctx context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error)

	ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Payment, error)
	ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Payment, error)

	UpdateIfVersion(ctx context.Context, p *models.Payment, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Payment) error) error
}

/* ───────────── implementation ───────────── */

type paymentRepo struct {
	*BaseVersionedRepo[*models.Payment]
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	r := &paymentRepo{db: db}
	selectStmt := baseSelectPayment() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanPayment)
	return r
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (
			id, tenant_id, property_id, type, amount, amount_paid, status,
			due_date, payment_date, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
	`, p.ID, p.TenantID, p.PropertyID, p.Type, p.Amount, p.AmountPaid, p.Status, p.DueDate, p.PaymentDate)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *paymentRepo) FindOpenByType(ctx context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+`
		WHERE tenant_id=$1 AND property_id=$2 AND type=$3 AND status IN ($4,$5)
		ORDER BY due_date LIMIT 1
	`, tenantID, propID, typ, models.PaymentStatusUnpaid, models.PaymentStatusPartial)
	return r.scanPayment(row)
}

func (r *paymentRepo) FindLatestByType(ctx context.Context, tenantID, propID uuid.UUID, typ models.PaymentType) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+`
		WHERE tenant_id=$1 AND property_id=$2 AND type=$3
		ORDER BY due_date DESC LIMIT 1
	`, tenantID, propID, typ)
	return r.scanPayment(row)
}

func (r *paymentRepo) ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE tenant_id=$1 ORDER BY due_date", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *paymentRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE property_id=$1 ORDER BY due_date, created_at", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *paymentRepo) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+`
		WHERE status IN ($1,$2) AND due_date < $3 ORDER BY due_date
	`, models.PaymentStatusUnpaid, models.PaymentStatusPartial, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *paymentRepo) UpdateIfVersion(ctx context.Context, p *models.Payment, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE payments
		SET amount=$1, amount_paid=$2, status=$3, due_date=$4, payment_date=$5,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7
	`, p.Amount, p.AmountPaid, p.Status, p.DueDate, p.PaymentDate, p.ID, expected)
}

func (r *paymentRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Payment) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

func baseSelectPayment() string {
	return `
		SELECT id, tenant_id, property_id, type, amount, amount_paid, status,
		due_date, payment_date, created_at, updated_at, row_version
		FROM payments`
}

func (r *paymentRepo) scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.PropertyID, &p.Type, &p.Amount, &p.AmountPaid, &p.Status,
		&p.DueDate, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) scanPayments(rows pgx.Rows) ([]*models.Payment, error) {
	var out []*models.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
