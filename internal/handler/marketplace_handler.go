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

type MarketplaceHandler struct {
	service service.MarketplaceService
}

func NewMarketplaceHandler(service service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{service: service}
}

func (h *MarketplaceHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("listings", h.GetListings)
		router.POST("listings", h.CreateListing)
		router.POST("listings/:listing_id/purchase", h.PurchaseListing)
		router.DELETE("listings/:listing_id", h.DeleteListing)
	}
}

func (h *MarketplaceHandler) GetListings(c *gin.Context) {
	listings, err := h.service.ActiveListings(c)
	if err != nil {
		h.handleMarketplaceError(c, err, "GetListings")
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	var req model.CreateListingRequest

	if err := BindJson(c, &req); err != nil {
		return
	}

	listing, err := h.service.List(c, req)
	if err != nil {
		h.handleMarketplaceError(c, err, "CreateListing")
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *MarketplaceHandler) PurchaseListing(c *gin.Context) {
	listingID, ok := ParamUUID(c, "listing_id")
	if !ok {
		return
	}

	var req model.PurchaseRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.Buy(c, listingID, req); err != nil {
		h.handleMarketplaceError(c, err, "PurchaseListing")
		return
	}

	c.Status(http.StatusOK)
}

func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	listingID, ok := ParamUUID(c, "listing_id")
	if !ok {
		return
	}

	var req model.UnlistRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.Unlist(c, listingID, req.Caller); err != nil {
		h.handleMarketplaceError(c, err, "DeleteListing")
		return
	}

	c.Status(http.StatusOK)
}

func (h *MarketplaceHandler) handleMarketplaceError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNotYourTicket):
		log.Warn("Not your ticket")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not your ticket",
		})
	case errors.Is(err, apperrors.ErrNotLister):
		log.Warn("Not the lister")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not the lister",
		})
	case errors.Is(err, apperrors.ErrInvalidPrice):
		log.Warn("Invalid price")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Price must be > 0",
		})
	case errors.Is(err, apperrors.ErrPriceExceedsCap):
		log.Warn("Price exceeds resale cap")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Price exceeds resale cap",
		})
	case errors.Is(err, apperrors.ErrResaleLimitExceeded):
		log.Warn("Resale count exceeded")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Resale count exceeded",
		})
	case errors.Is(err, apperrors.ErrIncorrectAmount):
		log.Warn("Incorrect payment amount")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Payment must match the listing price exactly",
		})
	case errors.Is(err, apperrors.ErrTicketUsed):
		log.Warn("Ticket already used")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ticket has already been used",
		})
	case errors.Is(err, apperrors.ErrAlreadyListed):
		log.Warn("Ticket already listed")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ticket already has an active listing",
		})
	case errors.Is(err, apperrors.ErrNotListed):
		log.Warn("Listing not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not listed",
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
	case errors.Is(err, apperrors.ErrSettlementFailed):
		log.Error("Settlement failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Settlement failed, purchase was not completed",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
