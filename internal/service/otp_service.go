package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"time"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"

	"github.com/go-playground/validator/v10"
)

// OTPStore is the persistent record store for pending codes. Upsert and the
// conditional updates must each be atomic; the verifier relies on them to
// close the race windows between concurrent submissions.
type OTPStore interface {
	Upsert(ctx context.Context, rec *model.OTPVerification) error
	Get(ctx context.Context, phone string, intent constant.OTPIntent) (*model.OTPVerification, error)
	IncrementAttempts(ctx context.Context, phone string, intent constant.OTPIntent) (int, bool, error)
	Consume(ctx context.Context, phone string, intent constant.OTPIntent, code string) (bool, error)
}

type SMSSender interface {
	SendOTP(phone string, code string) error
}

// IntentPolicy is the post-verification behavior for one intent. The protocol
// up to the verified transition is shared; everything after it is the policy.
type IntentPolicy interface {
	OnVerified(ctx context.Context, rec *model.OTPVerification, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error)
}

type OTPService struct {
	store       OTPStore
	sms         SMSSender
	cfg         *config.AppConfig
	validator   *validator.Validate
	rateLimiter *config.RateLimiter
	policies    map[constant.OTPIntent]IntentPolicy
}

func NewOTPService(store OTPStore, sms SMSSender, cfg *config.AppConfig, validator *validator.Validate, rateLimiter *config.RateLimiter, policies map[constant.OTPIntent]IntentPolicy) *OTPService {
	return &OTPService{
		store:       store,
		sms:         sms,
		cfg:         cfg,
		validator:   validator,
		rateLimiter: rateLimiter,
		policies:    policies,
	}
}

func (s *OTPService) SendOTP(ctx context.Context, req model.SendOTPRequest) (*model.SendOTPResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err)
		return nil, helper.NewBadRequestError("Phone number is required")
	}

	phone := helper.NormalizePhone(req.Phone)
	intent := constant.OTPIntent(req.Type)

	if s.rateLimiter != nil {
		allowed, retryAfter := s.rateLimiter.Allow(phone)
		if !allowed {
			minutes := int(math.Ceil(retryAfter.Minutes()))
			return nil, helper.NewTooManyRequestsError(fmt.Sprintf("Too many requests. Please try again in %d minutes.", minutes))
		}
	}

	code, err := generateCode()
	if err != nil {
		slog.Error("Failed to generate OTP code", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	rec := &model.OTPVerification{
		Phone:     phone,
		Email:     req.Email,
		Code:      code,
		Intent:    intent,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.OTPExp) * time.Second),
	}

	if err := s.store.Upsert(ctx, rec); err != nil {
		slog.Error("Failed to save OTP record", "error", err, "phone", phone)
		return nil, helper.NewInternalServerError("Failed to store OTP")
	}

	// A send failure here leaves a pending record with an undelivered code.
	// The next issue call overwrites it, so the caller just retries.
	if err := s.sms.SendOTP(phone, code); err != nil {
		slog.Error("Failed to send OTP SMS", "error", err, "phone", phone)
		return nil, helper.NewInternalServerError("Failed to send OTP SMS")
	}

	slog.Info("OTP sent", "phone", phone, "intent", intent)

	return &model.SendOTPResponse{
		Success:   true,
		Message:   "OTP sent successfully",
		Phone:     phone,
		ExpiresIn: s.cfg.OTPExp,
	}, nil
}

func (s *OTPService) VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err)
		return nil, helper.NewBadRequestError(verifyValidationMessage(err))
	}

	phone := helper.NormalizePhone(req.Phone)
	intent := constant.OTPIntent(req.Type)

	rec, err := s.store.Get(ctx, phone, intent)
	if err != nil {
		slog.Error("Failed to load OTP record", "error", err, "phone", phone)
		return nil, helper.NewInternalServerError("")
	}
	if rec == nil {
		return nil, helper.NewNotFoundError("OTP not found. Please request a new one.")
	}

	if !time.Now().Before(rec.ExpiresAt) {
		return nil, helper.NewBadRequestError("OTP has expired. Please request a new one.")
	}

	// Checked before the comparison so an exhausted record never consumes
	// another attempt, even with the correct code.
	if rec.Attempts >= constant.MaxOTPAttempts {
		return nil, helper.NewBadRequestError("Too many failed attempts. Please request a new OTP.")
	}

	consumed, err := s.store.Consume(ctx, phone, intent, req.OTP)
	if err != nil {
		slog.Error("Failed to update OTP record", "error", err, "phone", phone)
		return nil, helper.NewInternalServerError("")
	}
	if !consumed {
		if _, _, err := s.store.IncrementAttempts(ctx, phone, intent); err != nil {
			slog.Error("Failed to increment OTP attempts", "error", err, "phone", phone)
			return nil, helper.NewInternalServerError("")
		}
		return nil, helper.NewBadRequestError("Invalid OTP. Please try again.")
	}

	slog.Info("OTP verified", "phone", phone, "intent", intent)

	policy, ok := s.policies[intent]
	if !ok {
		return &model.VerifyOTPResponse{Success: true, Message: "OTP verified successfully", Verified: true}, nil
	}

	return policy.OnVerified(ctx, rec, req)
}

// verifyValidationMessage distinguishes a code of the wrong shape from missing
// fields, so the client knows whether to fix the input or resubmit the form.
func verifyValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "OTP" && fe.Tag() != "required" {
				return "OTP must be a 6-digit code"
			}
		}
	}
	return "Phone and OTP are required"
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
