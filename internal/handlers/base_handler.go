package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// BaseHandler provides logging and error translation shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// handleServiceError translates service errors into HTTP responses. Every
// response carries a human-readable message.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		// One message for unknown id and wrong password.
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid id or password",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	case errors.Is(err, services.ErrPendingApproval):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Account is pending approval",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Device not found",
		})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "User id already exists",
		})
	case errors.Is(err, services.ErrDeviceExists):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Device serial number already exists",
		})
	case errors.Is(err, services.ErrDeviceAlreadyRented):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Device already rented",
		})
	case errors.Is(err, services.ErrDeviceNotRented):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Device is not rented",
		})
	case errors.Is(err, services.ErrDeviceUnavailable):
		// Message includes the current status (and reason when set).
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
