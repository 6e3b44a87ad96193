package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/doctorsportal/booking-api/internal/handler"
	"github.com/doctorsportal/booking-api/internal/model"
	catalogService "github.com/doctorsportal/booking-api/internal/service/catalog"
)

const servicesCacheKey = "services"

type Handler struct {
	service *catalogService.Service
	// The catalog is immutable at runtime, so the /services response is
	// cached. Availability is never cached: slot state must be re-read
	// on every request.
	cache *gocache.Cache
}

func NewHandler(service *catalogService.Service) *Handler {
	return &Handler{
		service: service,
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	if cached, ok := h.cache.Get(servicesCacheKey); ok {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(cached))
		return
	}

	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.cache.SetDefault(servicesCacheKey, services)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse(model.DateFormat, date); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
		return
	}

	availability, err := h.service.Availability(c.Request.Context(), date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(availability))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/services", h.ListServices)
	r.GET("/availability", h.GetAvailability)
}
