package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/pagination"
	"github.com/PvUtrix/shked-sub003/internal/services"
)

// Notification types accepted by the admin endpoint.
const (
	NotificationTest           = "test"
	NotificationBroadcastAll   = "broadcast_all"
	NotificationBroadcastGroup = "broadcast_group"
	NotificationCustom         = "custom"
)

// TestNotificationText is delivered by the "test" notification type.
const TestNotificationText = "Тестовое уведомление Шкед. Если вы его видите, уведомления работают."

// NotificationHandler serves the admin notification endpoints.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	messengerService    services.MessengerServicer
	auditService        services.AuditServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer, messengerService services.MessengerServicer, auditService services.AuditServicer) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		messengerService:    messengerService,
		auditService:        auditService,
	}
}

// SendNotificationRequest is the admin notification payload.
type SendNotificationRequest struct {
	Type        string      `json:"type" binding:"required,notification_type"`
	Message     string      `json:"message" binding:"max=4096"`
	TargetGroup string      `json:"targetGroup" binding:"max=100"`
	TargetRole  models.Role `json:"targetRole" binding:"omitempty,role"`
	TestUserID  string      `json:"testUserId"`
}

// SendNotificationResponse reports a delivery outcome.
type SendNotificationResponse struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Send delivers an admin notification
// @Summary     Send notification
// @Description Send a test, custom or broadcast notification to linked messenger accounts
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SendNotificationRequest true "Notification"
// @Success     200 {object} SendNotificationResponse "Delivery outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /admin/notifications [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// The fan-out outlives an admin closing the tab; the service applies its own deadline.
	ctx := context.WithoutCancel(c.Request.Context())

	var resp SendNotificationResponse
	switch req.Type {
	case NotificationTest:
		target := req.TestUserID
		if target == "" {
			target = adminID
		}
		resp = singleResult(h.notificationService.SendToUser(ctx, target, TestNotificationText))

	case NotificationCustom:
		if req.Message == "" || req.TestUserID == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "message and testUserId are required"))
			return
		}
		resp = singleResult(h.notificationService.SendToUser(ctx, req.TestUserID, req.Message))

	case NotificationBroadcastAll:
		if req.Message == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required"))
			return
		}
		resp = broadcastResult(h.notificationService.BroadcastAll(ctx, req.Message, req.TargetRole))

	case NotificationBroadcastGroup:
		if req.Message == "" || req.TargetGroup == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "message and targetGroup are required"))
			return
		}
		result, err := h.notificationService.BroadcastGroup(ctx, req.TargetGroup, req.Message)
		if err != nil {
			respondWithError(c, err)
			return
		}
		resp = broadcastResult(result)
	}

	h.auditService.Log(adminID, models.AuditSendNotification, "notification", req.Type, c.ClientIP(), map[string]interface{}{
		"target_group": req.TargetGroup,
		"target_role":  req.TargetRole,
		"sent":         resp.Sent,
		"total":        resp.Total,
	})

	c.JSON(http.StatusOK, resp)
}

func singleResult(delivered bool) SendNotificationResponse {
	if delivered {
		return SendNotificationResponse{Success: true, Sent: 1, Total: 1, Message: "Notification delivered"}
	}
	return SendNotificationResponse{Success: false, Sent: 0, Total: 1, Message: "Notification could not be delivered"}
}

func broadcastResult(r services.DeliveryResult) SendNotificationResponse {
	return SendNotificationResponse{
		Success: true,
		Sent:    r.Sent,
		Total:   r.Total,
		Message: fmt.Sprintf("Delivered to %d of %d recipients", r.Sent, r.Total),
	}
}

// ListMessengerAccounts lists every known messenger account
// @Summary     List messenger accounts
// @Description Paginated registry listing for administrators
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.MessengerAccount] "Paginated accounts"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/messenger/accounts [get]
func (h *NotificationHandler) ListMessengerAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.messengerService.ListAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
