package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
)

// AdminHandler serves the user administration routes. The router applies the
// admin gate; rank rules live in the account service.
type AdminHandler struct {
	BaseHandler
	accountService services.AccountService
}

func NewAdminHandler(accountService services.AccountService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
	}
}

// ListPending lists registrations awaiting approval.
func (h *AdminHandler) ListPending(c *gin.Context) {
	resp, err := h.accountService.ListPending(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListApproved lists active accounts.
func (h *AdminHandler) ListApproved(c *gin.Context) {
	resp, err := h.accountService.ListApproved(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve activates a pending account, optionally granting admin.
func (h *AdminHandler) Approve(c *gin.Context) {
	var req services.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requester, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Approving user", "target_id", req.ID, "is_admin", req.IsAdmin)

	if err := h.accountService.Approve(c.Request.Context(), requester, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User approved"})
}

// Reject tombstones a pending registration.
func (h *AdminHandler) Reject(c *gin.Context) {
	var req services.RejectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requester, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Rejecting user", "target_id", req.ID)

	if err := h.accountService.Reject(c.Request.Context(), requester, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User rejected"})
}

// Delete tombstones an active account, subject to rank rules.
func (h *AdminHandler) Delete(c *gin.Context) {
	var req services.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requester, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Deleting user", "target_id", req.ID)

	if err := h.accountService.Delete(c.Request.Context(), requester, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted"})
}
