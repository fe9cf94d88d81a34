package service

import (
	"context"
	"log/slog"
	"time"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type SessionStore interface {
	BlacklistToken(ctx context.Context, tokenString string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenString string) bool
}

// AccountService is the account/session collaborator behind the OTP protocol:
// it owns password hashing and session token minting, nothing OTP-specific.
type AccountService struct {
	users     UserStore
	sessions  SessionStore
	cfg       *config.AppConfig
	validator *validator.Validate
}

func NewAccountService(users UserStore, sessions SessionStore, cfg *config.AppConfig, validator *validator.Validate) *AccountService {
	return &AccountService{
		users:     users,
		sessions:  sessions,
		cfg:       cfg,
		validator: validator,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, email, password, fullName, phone string) (*model.AuthResponse, error) {
	email = helper.NormalizeEmail(email)

	hash, err := helper.HashPassword(password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Phone:        phone,
		FullName:     fullName,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, helper.NewConflictError("An account with this email or phone already exists")
		}
		slog.Error("Failed to create user", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	slog.Info("Account created", "userID", u.ID, "phone", phone)

	return s.newAuthResponse(u)
}

func (s *AccountService) SignIn(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, helper.NormalizeEmail(email))
	if err != nil {
		slog.Error("Failed to query user", "error", err)
		return nil, helper.NewInternalServerError("")
	}
	if u == nil || !helper.CheckPasswordHash(password, u.PasswordHash) {
		return nil, helper.NewUnauthorizedError("Invalid email or password")
	}

	return s.newAuthResponse(u)
}

func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err)
		return nil, helper.NewBadRequestError("")
	}
	return s.SignIn(ctx, req.Email, req.Password)
}

// FindByPhone returns nil when no account carries the phone number.
func (s *AccountService) FindByPhone(ctx context.Context, phone string) (*model.UserDTO, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		slog.Error("Failed to query user by phone", "error", err)
		return nil, helper.NewInternalServerError("")
	}
	if u == nil {
		return nil, nil
	}
	return userDTO(u), nil
}

// VerifyUser resolves a bearer token to its account, rejecting blacklisted
// tokens. Used by the auth middleware.
func (s *AccountService) VerifyUser(ctx context.Context, tokenString string) (*model.UserDTO, error) {
	claims, err := helper.ParseJWT(s.cfg.JWTSecret, tokenString)
	if err != nil {
		return nil, helper.NewUnauthorizedError("")
	}

	if s.sessions.IsTokenBlacklisted(ctx, tokenString) {
		return nil, helper.NewUnauthorizedError("")
	}

	u, err := s.users.GetByID(ctx, claims.UserID.String())
	if err != nil {
		slog.Error("Failed to query user", "error", err)
		return nil, helper.NewInternalServerError("")
	}
	if u == nil {
		return nil, helper.NewUnauthorizedError("")
	}

	return userDTO(u), nil
}

// Logout blacklists the token for whatever lifetime it has left.
func (s *AccountService) Logout(ctx context.Context, tokenString string) error {
	claims, err := helper.ParseJWT(s.cfg.JWTSecret, tokenString)
	if err != nil {
		return helper.NewUnauthorizedError("")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.BlacklistToken(ctx, tokenString, ttl); err != nil {
		slog.Error("Failed to blacklist token", "error", err)
		return helper.NewInternalServerError("")
	}
	return nil
}

func (s *AccountService) newAuthResponse(u *model.User) (*model.AuthResponse, error) {
	token, err := helper.GenerateJWT(s.cfg.JWTSecret, s.cfg.JWTExp, u.ID, u.IsAdmin)
	if err != nil {
		slog.Error("Failed to generate JWT token", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	return &model.AuthResponse{
		Success: true,
		Session: &model.SessionDTO{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   s.cfg.JWTExp,
		},
		User: userDTO(u),
	}, nil
}

func userDTO(u *model.User) *model.UserDTO {
	return &model.UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
		IsAdmin:  u.IsAdmin,
	}
}
