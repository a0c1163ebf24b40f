package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentowl/backend/internal/models"
)

type LandlordRepository interface {
	Create(ctx context.Context, l *models.Landlord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Landlord, error)
	UpdateIfVersion(ctx context.Context, l *models.Landlord, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Landlord) error) error
}

type landlordRepo struct {
	*BaseVersionedRepo[*models.Landlord]
	db DB
}

func NewLandlordRepository(db DB) LandlordRepository {
	r := &landlordRepo{db: db}
	selectStmt := baseSelectLandlord() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanLandlord)
	return r
}

func (r *landlordRepo) Create(ctx context.Context, l *models.Landlord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO landlords (
			id, email, phone_number, first_name, last_name, business_name,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
	`, l.ID, l.Email, l.PhoneNumber, l.FirstName, l.LastName, l.BusinessName)
	return err
}

func (r *landlordRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Landlord, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *landlordRepo) UpdateIfVersion(ctx context.Context, l *models.Landlord, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE landlords
		SET email=$1, phone_number=$2, first_name=$3, last_name=$4, business_name=$5,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7
	`, l.Email, l.PhoneNumber, l.FirstName, l.LastName, l.BusinessName, l.ID, expected)
}

func (r *landlordRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Landlord) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectLandlord() string {
	return `
		SELECT id, email, phone_number, first_name, last_name, business_name,
		created_at, updated_at, deleted_at, row_version
		FROM landlords`
}

func (r *landlordRepo) scanLandlord(row pgx.Row) (*models.Landlord, error) {
	var l models.Landlord
	if err := row.Scan(
		&l.ID, &l.Email, &l.PhoneNumber, &l.FirstName, &l.LastName, &l.BusinessName,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt, &l.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
