package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/middleware"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/service"
)

type AuthController struct {
	accountService *service.AccountService
}

func NewAuthController(accountService *service.AccountService) *AuthController {
	return &AuthController{
		accountService: accountService,
	}
}

// Login godoc
// @Summary      Password login
// @Description  Exchanges email and password for a session. Completes the two-step flow after a login-intent OTP verification.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login Request"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Router       /api/auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.accountService.Login(r.Context(), req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.UserDTO
// @Failure      401  {object}  helper.ResponseError
// @Router       /api/auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	helper.WriteSuccess(w, user)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the presented token for the remainder of its lifetime.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  helper.ResponseError
// @Router       /api/auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token == "" {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	if err := c.accountService.Logout(r.Context(), token); err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, map[string]interface{}{"success": true, "message": "Logged out"})
}
