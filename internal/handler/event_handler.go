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

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.GetEvents)
		router.GET("events/:event_id", h.GetEvent)
		router.POST("events", h.CreateEvent)
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Create(c, req)
	if err != nil {
		h.handleEventError(c, err, "CreateEvent")
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := ParamUUID(c, "event_id")
	if !ok {
		return
	}

	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleEventError(c, err, "GetEvent")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleEventError(c, err, "GetEvents")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrUnknownEvent):
		log.Warn("Unknown event")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Unknown event",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
