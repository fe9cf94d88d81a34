package model

type SendNotificationRequest struct {
	Type          string  `json:"type" validate:"required,oneof=booking_confirmation plan_approval payment_success event_completed"`
	Email         string  `json:"email" validate:"required,email"`
	UserName      string  `json:"userName" validate:"required"`
	EventType     string  `json:"eventType"`
	EventDate     string  `json:"eventDate"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

type SendNotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
