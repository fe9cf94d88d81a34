package model

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Type  string `json:"type" validate:"required,otp_intent"`
}

type SendOTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Phone     string `json:"phone"`
	ExpiresIn int    `json:"expiresIn"`
}

type VerifyOTPRequest struct {
	Phone    string `json:"phone" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Type     string `json:"type" validate:"required,otp_intent"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// VerifyOTPResponse covers all three intent outcomes; unused fields are omitted
// from the payload.
type VerifyOTPResponse struct {
	Success               bool        `json:"success"`
	Message               string      `json:"message,omitempty"`
	Session               *SessionDTO `json:"session,omitempty"`
	User                  *UserDTO    `json:"user,omitempty"`
	IsAdmin               bool        `json:"isAdmin,omitempty"`
	Verified              bool        `json:"verified,omitempty"`
	UserID                string      `json:"userId,omitempty"`
	Email                 string      `json:"email,omitempty"`
	RequiresPasswordLogin bool        `json:"requiresPasswordLogin,omitempty"`
}
