package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ticket-ledger/internal/model"
	"ticket-ledger/internal/service/mocks"
	apperrors "ticket-ledger/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupMarketplaceTestRouter(mockService *mocks.MarketplaceServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	NewMarketplaceHandler(mockService).RegisterRoutes(router)
	return router
}

func TestCreateListing(t *testing.T) {
	listingRequest := model.CreateListingRequest{
		EventID:  uuid.New(),
		TicketNo: 1,
		Seller:   "0xalice",
		Price:    decimal.NewFromFloat(2.0),
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(&model.Listing{
			ListingID: uuid.New(),
			Seller:    "0xalice",
			Price:     decimal.NewFromFloat(2.0),
		}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrNotYourTicket", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotYourTicket).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrPriceExceedsCap", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.ErrPriceExceedsCap).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrResaleLimitExceeded", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.ErrResaleLimitExceeded).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrTicketUsed", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.ErrTicketUsed).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrAlreadyListed", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("List", mock.Anything, mock.Anything).Return(nil, apperrors.ErrAlreadyListed).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings", listingRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/listings", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "List")
	})
}

func TestPurchaseListing(t *testing.T) {
	listingID := uuid.New()
	purchaseRequest := model.PurchaseRequest{
		Buyer:   "0xbob",
		Payment: decimal.NewFromFloat(2.0),
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Buy", mock.Anything, listingID, mock.Anything).Return(nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings/"+listingID.String()+"/purchase", purchaseRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrIncorrectAmount", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Buy", mock.Anything, listingID, mock.Anything).Return(apperrors.ErrIncorrectAmount).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings/"+listingID.String()+"/purchase", purchaseRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrNotListed", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Buy", mock.Anything, listingID, mock.Anything).Return(apperrors.ErrNotListed).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings/"+listingID.String()+"/purchase", purchaseRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrSettlementFailed", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Buy", mock.Anything, listingID, mock.Anything).Return(apperrors.ErrSettlementFailed).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/listings/"+listingID.String()+"/purchase", purchaseRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - InvalidListingID", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/listings/not-a-uuid/purchase", purchaseRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Buy")
	})
}

func TestDeleteListing(t *testing.T) {
	listingID := uuid.New()
	unlistRequest := model.UnlistRequest{Caller: "0xalice"}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Unlist", mock.Anything, listingID, "0xalice").Return(nil).Once()

		req := createJSONHTTPRequest("DELETE", "/api/v1/listings/"+listingID.String(), unlistRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrNotLister", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("Unlist", mock.Anything, listingID, "0xalice").Return(apperrors.ErrNotLister).Once()

		req := createJSONHTTPRequest("DELETE", "/api/v1/listings/"+listingID.String(), unlistRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetListings(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("ActiveListings", mock.Anything).Return([]*model.Listing{
			{ListingID: uuid.New(), Seller: "0xalice", Price: decimal.NewFromFloat(2.0)},
			{ListingID: uuid.New(), Seller: "0xbob", Price: decimal.NewFromFloat(1.0)},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - InternalServerError", func(t *testing.T) {
		mockService := mocks.NewMarketplaceServiceMock()
		router := setupMarketplaceTestRouter(mockService)

		mockService.On("ActiveListings", mock.Anything).Return(nil, apperrors.ErrInternalServerError).Once()

		req := httptest.NewRequest("GET", "/api/v1/listings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockService.AssertExpectations(t)
	})
}
