package job

import (
	"context"
	"log/slog"
	"time"

	"DreamEventsAPI/internal/repository"
)

// RunOTPCleanup deletes records whose expiry passed more than a day ago. The
// verifier already rejects expired codes at read time; this only keeps the
// table from accumulating dead rows.
func RunOTPCleanup(ctx context.Context, otpRepo *repository.OTPRepository) error {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	slog.Info("Running OTP Cleanup", "cutoff", cutoff)

	deleted, err := otpRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to delete expired OTP records", "error", err)
		return err
	}

	slog.Info("Deleted expired OTP records", "count", deleted)
	return nil
}
