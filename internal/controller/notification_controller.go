package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"DreamEventsAPI/internal/helper"
	"DreamEventsAPI/internal/model"
	"DreamEventsAPI/internal/service"
)

type NotificationController struct {
	notificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// Send godoc
// @Summary      Send notification email
// @Description  Dispatches a transactional email for a booking, plan, payment, or completed event.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.SendNotificationRequest true "Send Notification Request"
// @Success      200  {object}  model.SendNotificationResponse
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Router       /api/notifications/send [post]
func (c *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.notificationService.Send(r.Context(), req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}
