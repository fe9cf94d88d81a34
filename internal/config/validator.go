package config

import (
	"DreamEventsAPI/internal/constant"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("otp_intent", validateOTPIntent)
	return v
}

func validateOTPIntent(fl validator.FieldLevel) bool {
	switch constant.OTPIntent(fl.Field().String()) {
	case constant.IntentSignup, constant.IntentLogin, constant.IntentAdminLogin:
		return true
	}
	return false
}
