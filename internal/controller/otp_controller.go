package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/service"
)

type OTPController struct {
	otpService *service.OTPService
}

func NewOTPController(otpService *service.OTPService) *OTPController {
	return &OTPController{
		otpService: otpService,
	}
}

// SendOTP godoc
// @Summary      Send OTP
// @Description  Generates a 6-digit code for the phone number and dispatches it over SMS. A new code replaces any pending one for the same phone and intent.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        request body model.SendOTPRequest true "Send OTP Request"
// @Success      200  {object}  model.SendOTPResponse
// @Failure      400  {object}  helper.ResponseError
// @Failure      429  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Router       /api/otp/send [post]
func (c *OTPController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req model.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.otpService.SendOTP(r.Context(), req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// VerifyOTP godoc
// @Summary      Verify OTP
// @Description  Checks the submitted code against the pending record and runs the intent-specific follow-up (admin session, signup, or login handoff).
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        request body model.VerifyOTPRequest true "Verify OTP Request"
// @Success      200  {object}  model.VerifyOTPResponse
// @Failure      400  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Router       /api/otp/verify [post]
func (c *OTPController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.otpService.VerifyOTP(r.Context(), req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}
