package handler

import (
	"errors"
	"net/http"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/service"
	apperrors "ticket-ledger/pkg/app_errors"
	"ticket-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RedemptionHandler struct {
	service service.RedemptionService
}

func NewRedemptionHandler(service service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{service: service}
}

func (h *RedemptionHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("redemptions/validate", h.ValidateTicket)
		router.POST("redemptions", h.RedeemTicket)
	}
}

// ValidateTicket is the scanner's first step: it checks ownership and status
// and issues a token for the redeem step.
func (h *RedemptionHandler) ValidateTicket(c *gin.Context) {
	var req model.ValidateRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	token, err := h.service.Validate(c, req)
	if err != nil {
		h.handleRedemptionError(c, err, "ValidateTicket")
		return
	}

	c.JSON(http.StatusOK, token)
}

// RedeemTicket burns the ticket. A double scan surfaces as 409, never as a
// silent success.
func (h *RedemptionHandler) RedeemTicket(c *gin.Context) {
	var req model.RedeemRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.Redeem(c, req.Token); err != nil {
		h.handleRedemptionError(c, err, "RedeemTicket")
		return
	}

	c.Status(http.StatusOK)
}

func (h *RedemptionHandler) handleRedemptionError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Operator is not authorized for this event",
		})
	case errors.Is(err, apperrors.ErrOwnershipMismatch):
		log.Warn("Ownership mismatch")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Presenter does not own this ticket",
		})
	case errors.Is(err, apperrors.ErrTicketUsed):
		log.Warn("Ticket already used")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ticket has already been used",
		})
	case errors.Is(err, apperrors.ErrAlreadyUsed):
		log.Warn("Double redemption attempt")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ticket was already redeemed",
		})
	case errors.Is(err, apperrors.ErrUnknownEvent):
		log.Warn("Unknown event")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown event",
		})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Ticket not found",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
