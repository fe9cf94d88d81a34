package service

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"

	"github.com/go-playground/validator/v10"
)

//go:embed template
var templateFS embed.FS

const (
	contactPhone = "8766353710"
	contactEmail = "thedreamersevents1@gmail.com"
)

type EmailSender interface {
	Send(to []string, subject string, body string) error
}

type NotificationService struct {
	emailAdapter EmailSender
	cfg          *config.AppConfig
	validator    *validator.Validate
}

func NewNotificationService(emailAdapter EmailSender, cfg *config.AppConfig, validator *validator.Validate) *NotificationService {
	return &NotificationService{
		emailAdapter: emailAdapter,
		cfg:          cfg,
		validator:    validator,
	}
}

func (s *NotificationService) Send(ctx context.Context, req model.SendNotificationRequest) (*model.SendNotificationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err)
		return nil, helper.NewBadRequestError("")
	}

	subject, paragraphs := composeNotification(req)

	templateData := struct {
		Paragraphs   []string
		ContactPhone string
		ContactEmail string
		Year         int
	}{
		Paragraphs:   paragraphs,
		ContactPhone: contactPhone,
		ContactEmail: contactEmail,
		Year:         time.Now().Year(),
	}

	body, err := helper.GenerateEmailBody(templateFS, "template/notification.html", templateData)
	if err != nil {
		slog.Error("Failed to generate notification body", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	sendEmail := func() {
		if err := s.emailAdapter.Send([]string{req.Email}, subject, body); err != nil {
			slog.Error("Failed to send notification email", "error", err, "type", req.Type, "to", req.Email)
		}
	}

	if s.cfg.SMTPAsync {
		go sendEmail()
	} else {
		sendEmail()
	}

	slog.Info("Notification dispatched", "type", req.Type, "to", req.Email)

	return &model.SendNotificationResponse{
		Success: true,
		Message: fmt.Sprintf("%s notification sent successfully", req.Type),
	}, nil
}

func composeNotification(req model.SendNotificationRequest) (string, []string) {
	greeting := fmt.Sprintf("Dear %s,", req.UserName)
	signoff := "Best regards,"
	team := "The Dreamers Event Team"

	switch constant.NotificationType(req.Type) {
	case constant.NotificationBookingConfirmation:
		return "Booking Confirmed - The Dreamers Event", []string{
			greeting,
			fmt.Sprintf("Your %s event booking for %s has been confirmed. Our team will review your requirements and create personalized plans for you.", req.EventType, req.EventDate),
			signoff, team,
		}
	case constant.NotificationPlanApproval:
		return "Your Event Plan is Ready - The Dreamers Event", []string{
			greeting,
			"Great news! Your personalized event plan has been approved and is ready for review. Please login to your dashboard to view the details.",
			signoff, team,
		}
	case constant.NotificationPaymentSuccess:
		return "Payment Received - The Dreamers Event", []string{
			greeting,
			fmt.Sprintf("We have received your payment of ₹%.2f.", req.Amount),
			fmt.Sprintf("Transaction ID: %s", req.TransactionID),
			"Thank you for choosing The Dreamers Event!",
			signoff, team,
		}
	default:
		return "Event Completed - Share Your Feedback - The Dreamers Event", []string{
			greeting,
			fmt.Sprintf("We hope you had an amazing %s! Your event photos and album are now available in your dashboard.", req.EventType),
			"Please take a moment to share your feedback and help us improve.",
			signoff, team,
		}
	}
}
