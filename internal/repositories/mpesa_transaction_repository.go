package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/utils"
)

type MpesaTransactionRepository interface {
	Create(ctx context.Context, tx *models.MpesaTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MpesaTransaction, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.MpesaTransaction, error)
	UpdateIfVersion(ctx context.Context, tx *models.MpesaTransaction, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MpesaTransaction) error) error
}

type mpesaTxRepo struct {
	*BaseVersionedRepo[*models.MpesaTransaction]
	db DB
}

func NewMpesaTransactionRepository(db DB) MpesaTransactionRepository {
	r := &mpesaTxRepo{db: db}
	selectStmt := baseSelectMpesaTx() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanTx)
	return r
}

func (r *mpesaTxRepo) Create(ctx context.Context, tx *models.MpesaTransaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mpesa_transactions (
			id, tenant_id, property_id, checkout_request_id, merchant_request_id,
			phone_number, amount, apply_deposit, status, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
	`, tx.ID, tx.TenantID, tx.PropertyID, tx.CheckoutRequestID, tx.MerchantRequestID,
		tx.PhoneNumber, tx.Amount, tx.ApplyDeposit, tx.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on checkout_request_id
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return utils.ErrTransactionExists
		}
		return err
	}
	return nil
}

func (r *mpesaTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MpesaTransaction, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *mpesaTxRepo) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*models.MpesaTransaction, error) {
	row := r.db.QueryRow(ctx, baseSelectMpesaTx()+" WHERE checkout_request_id=$1 LIMIT 1", checkoutRequestID)
	return r.scanTx(row)
}

func (r *mpesaTxRepo) UpdateIfVersion(ctx context.Context, tx *models.MpesaTransaction, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE mpesa_transactions
		SET status=$1, mpesa_receipt=$2, result_code=$3, result_desc=$4, settled_at=$5,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7
	`, tx.Status, tx.MpesaReceipt, tx.ResultCode, tx.ResultDesc, tx.SettledAt, tx.ID, expected)
}

func (r *mpesaTxRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MpesaTransaction) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectMpesaTx() string {
	return `
		SELECT id, tenant_id, property_id, checkout_request_id, merchant_request_id,
		phone_number, amount, apply_deposit, status, mpesa_receipt, result_code, result_desc,
		settled_at, created_at, updated_at, row_version
		FROM mpesa_transactions`
}

func (r *mpesaTxRepo) scanTx(row pgx.Row) (*models.MpesaTransaction, error) {
	var tx models.MpesaTransaction
	if err := row.Scan(
		&tx.ID, &tx.TenantID, &tx.PropertyID, &tx.CheckoutRequestID, &tx.MerchantRequestID,
		&tx.PhoneNumber, &tx.Amount, &tx.ApplyDeposit, &tx.Status, &tx.MpesaReceipt,
		&tx.ResultCode, &tx.ResultDesc, &tx.SettledAt, &tx.CreatedAt, &tx.UpdatedAt, &tx.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}
