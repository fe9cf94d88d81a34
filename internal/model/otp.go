package model

import (
	"time"

	"DreamEventsAPI/internal/constant"
)

// OTPVerification is the pending-code record, keyed by (phone, intent). Issuing
// a new code for the same key overwrites the previous record in place.
type OTPVerification struct {
	Phone     string
	Email     string
	Code      string
	Intent    constant.OTPIntent
	ExpiresAt time.Time
	Verified  bool
	Attempts  int
	CreatedAt time.Time
}
