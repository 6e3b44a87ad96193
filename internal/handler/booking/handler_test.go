package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/booking-api/internal/email"
	"github.com/doctorsportal/booking-api/internal/middleware"
	"github.com/doctorsportal/booking-api/internal/repository/memory"
	bookingService "github.com/doctorsportal/booking-api/internal/service/booking"
	userService "github.com/doctorsportal/booking-api/internal/service/user"
	"github.com/doctorsportal/booking-api/pkg/auth"
	"github.com/doctorsportal/booking-api/pkg/lock"
	"github.com/doctorsportal/booking-api/pkg/validator"
)

func newTestRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterCustomValidations())

	store := memory.NewStore()
	store.AddService("Teeth Cleaning", []string{"9:00 AM", "10:00 AM"}, 5000)

	svc := bookingService.NewService(
		store.Bookings(), store.Services(),
		lock.NewKeyedMutex(), nil, email.NoopService{}, nil, "usd",
	)
	h := NewHandler(svc)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	m := middleware.NewAuthMiddleware(jwtSvc, userService.NewService(store.Users()))

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	protected := api.Group("", m.Authenticate())
	h.RegisterRoutes(protected)
	return r, jwtSvc
}

func postBooking(t *testing.T, r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBookingBody(email string) map[string]string {
	return map[string]string{
		"treatment":     "Teeth Cleaning",
		"date":          "2024-05-20",
		"slot":          "9:00 AM",
		"patient_email": email,
		"patient_name":  "Test Patient",
	}
}

func TestCreateBookingStatusCodes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postBooking(t, r, validBookingBody("pat@example.com"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same patient again: still a success, but not a creation.
	w = postBooking(t, r, validBookingBody("pat@example.com"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":false`)

	// Different patient, same slot: conflict.
	w = postBooking(t, r, validBookingBody("other@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingRejectsBadDate(t *testing.T) {
	r, _ := newTestRouter(t)

	body := validBookingBody("pat@example.com")
	body["date"] = "20/05/2024"
	w := postBooking(t, r, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBookingsRequiresOwnEmail(t *testing.T) {
	r, jwtSvc := newTestRouter(t)

	w := postBooking(t, r, validBookingBody("pat@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	token, err := jwtSvc.GenerateToken("pat@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?email=pat@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Teeth Cleaning")

	// Same credential asking for someone else's bookings.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings?email=other@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListBookingsRequiresEmailParam(t *testing.T) {
	r, jwtSvc := newTestRouter(t)

	token, err := jwtSvc.GenerateToken("pat@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingInvalidID(t *testing.T) {
	r, jwtSvc := newTestRouter(t)

	token, err := jwtSvc.GenerateToken("pat@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
