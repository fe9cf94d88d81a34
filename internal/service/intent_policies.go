package service

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"
)

// Accounts is the slice of the account service the intent policies need.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password, fullName, phone string) (*model.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*model.AuthResponse, error)
	FindByPhone(ctx context.Context, phone string) (*model.UserDTO, error)
}

// SignupPolicy creates the account for a freshly verified phone number. The
// users table uniqueness constraint is the backstop against a verified signup
// being replayed into a second account.
type SignupPolicy struct {
	accounts Accounts
}

func NewSignupPolicy(accounts Accounts) *SignupPolicy {
	return &SignupPolicy{accounts: accounts}
}

func (p *SignupPolicy) OnVerified(ctx context.Context, rec *model.OTPVerification, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, helper.NewBadRequestError("Email and password are required for signup")
	}

	auth, err := p.accounts.CreateAccount(ctx, req.Email, req.Password, req.FullName, rec.Phone)
	if err != nil {
		return nil, err
	}

	return &model.VerifyOTPResponse{
		Success: true,
		Message: "Signup successful",
		Session: auth.Session,
		User:    auth.User,
	}, nil
}

// LoginPolicy acknowledges the verified phone and hands the client off to
// password login instead of minting a session. Keeping the two-step exchange
// forces a second factor on returning users.
type LoginPolicy struct {
	accounts Accounts
}

func NewLoginPolicy(accounts Accounts) *LoginPolicy {
	return &LoginPolicy{accounts: accounts}
}

func (p *LoginPolicy) OnVerified(ctx context.Context, rec *model.OTPVerification, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	user, err := p.accounts.FindByPhone(ctx, rec.Phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helper.NewNotFoundError("No account found with this phone number")
	}

	return &model.VerifyOTPResponse{
		Success:               true,
		Message:               "OTP verified successfully",
		Verified:              true,
		UserID:                user.ID.String(),
		Email:                 user.Email,
		RequiresPasswordLogin: true,
	}, nil
}

// AdminPolicy gates the single operator account: the verified phone and the
// supplied password must both match the configured admin credentials before a
// session is issued. A valid OTP alone never grants admin access, and the
// failure message does not say which half of the pair was wrong.
type AdminPolicy struct {
	accounts   Accounts
	cfg        *config.AppConfig
	adminPhone string
}

func NewAdminPolicy(accounts Accounts, cfg *config.AppConfig) *AdminPolicy {
	// The record phone is always E.164; the configured value may not be.
	// Normalizing here keeps the comparison aligned with the seeded account.
	return &AdminPolicy{
		accounts:   accounts,
		cfg:        cfg,
		adminPhone: helper.NormalizePhone(cfg.AdminPhone),
	}
}

func (p *AdminPolicy) OnVerified(ctx context.Context, rec *model.OTPVerification, req model.VerifyOTPRequest) (*model.VerifyOTPResponse, error) {
	phoneOK := subtle.ConstantTimeCompare([]byte(rec.Phone), []byte(p.adminPhone)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(p.cfg.AdminPassword)) == 1
	if !phoneOK || !passwordOK {
		slog.Warn("Admin credential check failed", "phone", rec.Phone)
		return nil, helper.NewForbiddenError("Invalid admin credentials")
	}

	auth, err := p.accounts.SignIn(ctx, p.cfg.AdminEmail, req.Password)
	if err != nil {
		return nil, err
	}

	return &model.VerifyOTPResponse{
		Success: true,
		Message: "Admin login successful",
		Session: auth.Session,
		User:    auth.User,
		IsAdmin: true,
	}, nil
}
