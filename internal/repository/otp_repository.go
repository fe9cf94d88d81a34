package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/model"
)

type OTPRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{
		db: db,
	}
}

// Upsert replaces any pending code for (phone, intent) in a single statement.
// A previous code for the same key stops working the moment this commits.
func (r *OTPRepository) Upsert(ctx context.Context, rec *model.OTPVerification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_verifications (phone, email, otp_code, type, expires_at, verified, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, 0, NOW())
		ON CONFLICT (phone, type) DO UPDATE SET
			email = EXCLUDED.email,
			otp_code = EXCLUDED.otp_code,
			expires_at = EXCLUDED.expires_at,
			verified = FALSE,
			attempts = 0,
			created_at = NOW()`,
		rec.Phone, rec.Email, rec.Code, string(rec.Intent), rec.ExpiresAt)
	return err
}

// Get returns the record for (phone, intent), or nil if none exists.
// It returns an error only for database failures, not for missing rows.
func (r *OTPRepository) Get(ctx context.Context, phone string, intent constant.OTPIntent) (*model.OTPVerification, error) {
	var rec model.OTPVerification
	var intentStr string
	err := r.db.QueryRowContext(ctx, `
		SELECT phone, email, otp_code, type, expires_at, verified, attempts, created_at
		FROM otp_verifications
		WHERE phone = $1 AND type = $2`,
		phone, string(intent)).
		Scan(&rec.Phone, &rec.Email, &rec.Code, &intentStr, &rec.ExpiresAt, &rec.Verified, &rec.Attempts, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Intent = constant.OTPIntent(intentStr)
	return &rec, nil
}

// IncrementAttempts bumps the attempt counter only while the record is still
// consumable (not verified, not expired, under the cap), so concurrent
// submissions cannot push the counter past the limit or revive a verified
// record. Returns the new counter value and whether a row was updated.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, phone string, intent constant.OTPIntent) (int, bool, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx, `
		UPDATE otp_verifications
		SET attempts = attempts + 1
		WHERE phone = $1 AND type = $2
		  AND verified = FALSE
		  AND attempts < $3
		  AND expires_at > NOW()
		RETURNING attempts`,
		phone, string(intent), constant.MaxOTPAttempts).
		Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return attempts, true, nil
}

// Consume marks the record verified if and only if the submitted code matches
// and the record is still live. The single conditional update is the
// compare-and-swap that keeps a double-submit of the same code from
// succeeding twice.
func (r *OTPRepository) Consume(ctx context.Context, phone string, intent constant.OTPIntent, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE otp_verifications
		SET verified = TRUE
		WHERE phone = $1 AND type = $2 AND otp_code = $3
		  AND verified = FALSE
		  AND attempts < $4
		  AND expires_at > NOW()`,
		phone, string(intent), code, constant.MaxOTPAttempts)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// DeleteExpiredBefore removes rows whose expiry passed before cutoff. Expiry is
// enforced at read time; this is hygiene for the scheduler, not correctness.
func (r *OTPRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM otp_verifications WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
