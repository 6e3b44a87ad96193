package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doctorsportal/booking-api/internal/handler"
	"github.com/doctorsportal/booking-api/internal/middleware"
	"github.com/doctorsportal/booking-api/internal/model"
	bookingService "github.com/doctorsportal/booking-api/internal/service/booking"
)

type Handler struct {
	service *bookingService.Service
}

func NewHandler(service *bookingService.Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking handles a reservation attempt. AlreadyBooked comes back
// as 200 with created=false and the existing booking; a fresh
// reservation is 201.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	outcome, err := h.service.Reserve(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	c.JSON(status, handler.NewSuccessResponse(outcome))
}

// ListBookings returns the caller's own bookings. The email query must
// match the credential's email claim.
func (h *Handler) ListBookings(c *gin.Context) {
	requested := c.Query("email")
	if requested == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("email query parameter is required"))
		return
	}

	if requested != middleware.CallerEmail(c) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden"))
		return
	}

	bookings, err := h.service.ListForPatient(c.Request.Context(), requested)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	intent, err := h.service.CreatePaymentIntent(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(intent))
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req model.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	booking, err := h.service.ConfirmPayment(c.Request.Context(), id, req.TransactionID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

// RegisterPublicRoutes registers the unauthenticated booking routes
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
}

// RegisterRoutes registers the credential-protected booking routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/payment-intent", h.CreatePaymentIntent)
		bookings.PATCH("/:id/payment", h.ConfirmPayment)
	}
}
