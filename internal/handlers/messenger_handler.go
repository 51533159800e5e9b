package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/services"
)

const linkInstructions = "Отправьте боту Шкед в Telegram или Max команду /link %s. Код действует %d минут."

// MessengerHandler serves the web side of messenger linking.
type MessengerHandler struct {
	linkService      services.LinkServicer
	messengerService services.MessengerServicer
	auditService     services.AuditServicer
}

// NewMessengerHandler creates a new MessengerHandler.
func NewMessengerHandler(linkService services.LinkServicer, messengerService services.MessengerServicer, auditService services.AuditServicer) *MessengerHandler {
	return &MessengerHandler{
		linkService:      linkService,
		messengerService: messengerService,
		auditService:     auditService,
	}
}

// LinkTokenResponse is returned when a link token is issued.
type LinkTokenResponse struct {
	Token        string `json:"token"`
	ExpiresIn    int    `json:"expiresIn"`
	Instructions string `json:"instructions"`
}

// CheckLinkRequest carries a token to validate.
type CheckLinkRequest struct {
	Token string `json:"token" binding:"required,link_token"`
}

// IssueLinkToken issues a link token for the caller
// @Summary     Issue messenger link token
// @Description Issue a short-lived code the user sends to the bot with /link
// @Tags        messenger
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} LinkTokenResponse "Token issued"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /messenger/link [get]
func (h *MessengerHandler) IssueLinkToken(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lt, err := h.linkService.IssueToken(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	minutes := int(time.Until(lt.ExpiresAt).Round(time.Minute) / time.Minute)
	h.auditService.Log(userID, models.AuditIssueLinkToken, "link_token", lt.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, LinkTokenResponse{
		Token:        lt.Token,
		ExpiresIn:    minutes,
		Instructions: fmt.Sprintf(linkInstructions, lt.Token, minutes),
	})
}

// CheckLink validates a token without consuming it
// @Summary     Check messenger link
// @Description Validate a link token without consuming it and report the caller's links
// @Tags        messenger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CheckLinkRequest true "Token to check"
// @Success     200 {object} services.LinkStatus "Link status"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /messenger/link [post]
func (h *MessengerHandler) CheckLink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CheckLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	status, err := h.linkService.Status(userID, req.Token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListAccounts lists the caller's linked messenger accounts
// @Summary     List linked messenger accounts
// @Tags        messenger
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} object "Linked accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /messenger/accounts [get]
func (h *MessengerHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.messengerService.ListByWebAccount(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if accounts == nil {
		accounts = []models.MessengerAccount{}
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Unlink detaches the caller's account on a platform
// @Summary     Unlink messenger account
// @Tags        messenger
// @Produce     json
// @Security    BearerAuth
// @Param       platform path string true "telegram or max"
// @Success     200 {object} object "Unlinked"
// @Failure     400 {object} ErrorResponse "Unsupported platform"
// @Failure     404 {object} ErrorResponse "Not linked"
// @Router      /messenger/link/{platform} [delete]
func (h *MessengerHandler) Unlink(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	platform, err := parsePlatform(c, "platform")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.messengerService.UnlinkByWebAccount(userID, platform); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUnlinkMessenger, "messenger_account", string(platform), c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Messenger account unlinked"})
}
