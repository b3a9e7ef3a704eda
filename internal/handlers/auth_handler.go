package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	accountService services.AccountService
	validator      *validator.Validator
}

func NewAuthHandler(accountService services.AccountService, validator *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
		validator:      validator,
	}
}

// Register creates a new pending account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering user", "user_id", req.ID)

	user, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Registration submitted for approval",
		Data:    user,
	})
}

// CheckID reports whether an id is still available. No auth required.
func (h *AuthHandler) CheckID(c *gin.Context) {
	var req validator.CheckIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	available, err := h.accountService.CheckIDAvailable(c.Request.Context(), req.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IDAvailabilityResponse{Available: available})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the caller's own record.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
