package handler

import (
	"errors"
	"net/http"
	"strconv"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/service"
	apperrors "ticket-ledger/pkg/app_errors"
	"ticket-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:event_id/tickets", h.MintTicket)
		router.GET("events/:event_id/tickets/:ticket_no", h.GetTicket)
		router.GET("events/:event_id/tickets/:ticket_no/metadata", h.GetTicketMetadata)
		router.GET("wallets/:wallet/tickets", h.GetWalletTickets)
	}
}

func (h *TicketHandler) MintTicket(c *gin.Context) {
	eventID, ok := ParamUUID(c, "event_id")
	if !ok {
		return
	}

	var req model.MintTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	ticket, err := h.service.Mint(c, eventID, req)
	if err != nil {
		h.handleTicketError(c, err, "MintTicket")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	ref, ok := h.ticketRef(c)
	if !ok {
		return
	}

	ticket, err := h.service.Get(c, ref)
	if err != nil {
		h.handleTicketError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) GetTicketMetadata(c *gin.Context) {
	ref, ok := h.ticketRef(c)
	if !ok {
		return
	}

	metadata, err := h.service.Metadata(c, ref)
	if err != nil {
		h.handleTicketError(c, err, "GetTicketMetadata")
		return
	}

	c.JSON(http.StatusOK, metadata)
}

func (h *TicketHandler) GetWalletTickets(c *gin.Context) {
	tickets, err := h.service.ListByOwner(c, c.Param("wallet"))
	if err != nil {
		h.handleTicketError(c, err, "GetWalletTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) ticketRef(c *gin.Context) (model.TicketRef, bool) {
	eventID, ok := ParamUUID(c, "event_id")
	if !ok {
		return model.TicketRef{}, false
	}

	ticketNo, err := strconv.Atoi(c.Param("ticket_no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ticket_no",
		})
		return model.TicketRef{}, false
	}

	return model.TicketRef{EventID: eventID, TicketNo: ticketNo}, true
}

func (h *TicketHandler) handleTicketError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Caller is not the event organizer",
		})
	case errors.Is(err, apperrors.ErrInvalidPrice):
		log.Warn("Invalid price")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Price must be > 0",
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
