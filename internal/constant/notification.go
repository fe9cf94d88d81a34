package constant

type NotificationType string

const (
	NotificationBookingConfirmation NotificationType = "booking_confirmation"
	NotificationPlanApproval        NotificationType = "plan_approval"
	NotificationPaymentSuccess      NotificationType = "payment_success"
	NotificationEventCompleted      NotificationType = "event_completed"
)
