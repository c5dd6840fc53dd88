package repository

import (
	"context"
	"errors"
	"time"

	"catotel/internal/pkg/pgconv"
	"catotel/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRepository struct {
	db *pgxpool.Pool
}

func NewIdempotencyRepository(db *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// TryInsert claims the key and reports whether the claim succeeded. An
// existing live key is left untouched (claimed = false); an expired one is
// recycled for the new request.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	var claimed uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO UPDATE
		SET endpoint = EXCLUDED.endpoint,
		    request_hash = EXCLUDED.request_hash,
		    status = 'processing',
		    result_reservation_id = NULL,
		    response_body_hash = NULL,
		    expires_at = EXCLUDED.expires_at,
		    created_at = now()
		WHERE idempotency_keys.expires_at < now()
		RETURNING key`,
		key, userID, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt),
	).Scan(&claimed)
	if err != nil {
		// A live key blocks the upsert, so RETURNING yields no row.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, classify("failed to claim idempotency key", err)
	}
	return true, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	record := shared.IdempotencyRecord{Key: key, UserID: userID}
	var (
		resultID  pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT status, request_hash, result_reservation_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND user_id = $2`,
		key, userID,
	).Scan(&record.Status, &record.RequestHash, &resultID, &expiresAt)
	if err != nil {
		return nil, classify("failed to load idempotency key", err)
	}
	record.ResultReservationID = pgconv.UUIDPtrFromPgtype(resultID)
	record.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &record, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx pgx.Tx, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', response_body_hash = $3, result_reservation_id = $4
		WHERE key = $1 AND user_id = $2`,
		key, userID, responseBodyHash, resultReservationID)
	if err != nil {
		return classify("failed to complete idempotency key", err)
	}
	return nil
}

// DeleteExpired reaps keys past their TTL; the maintenance loop runs it on
// an interval.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < now()`)
	if err != nil {
		return 0, classify("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
