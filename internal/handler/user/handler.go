package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doctorsportal/booking-api/internal/handler"
	"github.com/doctorsportal/booking-api/internal/model"
	authService "github.com/doctorsportal/booking-api/internal/service/auth"
	userService "github.com/doctorsportal/booking-api/internal/service/user"
)

type Handler struct {
	users *userService.Service
	auth  *authService.Service
}

func NewHandler(users *userService.Service, auth *authService.Service) *Handler {
	return &Handler{users: users, auth: auth}
}

// UpsertUser is the login path: the client PUTs its profile after
// sign-in and receives a fresh credential.
func (h *Handler) UpsertUser(c *gin.Context) {
	userEmail := c.Param("email")

	var req model.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.auth.UpsertUser(c.Request.Context(), userEmail, req.Name)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

// GetAdminStatus reports whether a user holds the admin tier. The
// client uses this to decide which dashboard to render.
func (h *Handler) GetAdminStatus(c *gin.Context) {
	isAdmin, err := h.users.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"admin": isAdmin}))
}

func (h *Handler) PromoteUser(c *gin.Context) {
	if err := h.users.Promote(c.Request.Context(), c.Param("email")); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"role": model.RoleAdmin}))
}

// RegisterPublicRoutes registers the login upsert
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.PUT("/users/:email", h.UpsertUser)
}

// RegisterRoutes registers credential-protected user routes; the
// admin-only ones get the role gate in the router.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:email/admin", h.GetAdminStatus)
}

// RegisterAdminRoutes registers routes behind the admin gate
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.PUT("/users/:email/admin", h.PromoteUser)
}
