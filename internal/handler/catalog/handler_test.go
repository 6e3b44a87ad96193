package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository/memory"
	catalogService "github.com/doctorsportal/booking-api/internal/service/catalog"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.AddService("Teeth Cleaning", []string{"9:00 AM", "10:00 AM"}, 5000)
	h := NewHandler(catalogService.NewService(store.Services(), store.Bookings()))

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, store
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListServices(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/v1/services")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Teeth Cleaning")

	// Second call is served from cache with the same body.
	w2 := get(r, "/api/v1/services")
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, w.Body.String(), w2.Body.String())
}

func TestGetAvailability(t *testing.T) {
	r, store := newTestRouter(t)

	require.NoError(t, store.Bookings().Create(
		context.Background(),
		&model.Booking{
			Treatment:    "Teeth Cleaning",
			Date:         "2024-05-20",
			Slot:         "9:00 AM",
			PatientEmail: "pat@example.com",
			PatientName:  "Pat",
		},
	))

	w := get(r, "/api/v1/availability?date=2024-05-20")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "10:00 AM")
	assert.NotContains(t, w.Body.String(), `"available_slots":["9:00 AM"`)
}

func TestGetAvailabilityInvalidDate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/api/v1/availability?date=May-20-2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, "/api/v1/availability")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
