package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type DeviceHandler struct {
	BaseHandler
	deviceService services.DeviceService
	rentalService services.RentalService
}

func NewDeviceHandler(deviceService services.DeviceService, rentalService services.RentalService, logger utils.Logger) *DeviceHandler {
	return &DeviceHandler{
		BaseHandler:   NewBaseHandler(logger),
		deviceService: deviceService,
		rentalService: rentalService,
	}
}

// List returns the full device pool.
func (h *DeviceHandler) List(c *gin.Context) {
	resp, err := h.deviceService.ListAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAvailable returns active, unoccupied devices.
func (h *DeviceHandler) ListAvailable(c *gin.Context) {
	resp, err := h.deviceService.ListAvailable(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register adds a device to the pool.
func (h *DeviceHandler) Register(c *gin.Context) {
	var req services.DeviceRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering device", "serial_number", req.SerialNumber)

	device, err := h.deviceService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"device": device})
}

// Delete removes a device from the pool.
func (h *DeviceHandler) Delete(c *gin.Context) {
	var req validator.DeviceDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deleting device", "serial_number", req.SerialNumber)

	if err := h.deviceService.Delete(c.Request.Context(), req.SerialNumber); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Device deleted"})
}

// UpdateStatus changes a device's maintenance status.
func (h *DeviceHandler) UpdateStatus(c *gin.Context) {
	var req services.DeviceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating device status", "serial_number", req.SerialNumber, "status", req.Status)

	device, err := h.deviceService.SetStatus(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"device": device})
}

// Rent claims a device for the caller.
func (h *DeviceHandler) Rent(c *gin.Context) {
	var req services.RentDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	caller, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Renting device", "serial_number", req.DeviceID, "user_id", caller.ID)

	if err := h.rentalService.Rent(c.Request.Context(), caller, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Device rented"})
}

// Return releases a device rented by the caller.
func (h *DeviceHandler) Return(c *gin.Context) {
	var req services.ReturnDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	caller, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Returning device", "serial_number", req.DeviceID, "user_id", caller.ID)

	if err := h.rentalService.Return(c.Request.Context(), caller, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Device returned"})
}
