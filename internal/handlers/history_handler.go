package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/services"
	"github.com/62String/devicerent-sub000/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type HistoryHandler struct {
	BaseHandler
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService, logger utils.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler:    NewBaseHandler(logger),
		historyService: historyService,
	}
}

// List returns rental history records, newest first. Filters come from
// query parameters.
func (h *HistoryHandler) List(c *gin.Context) {
	filters := repositories.HistoryFilters{
		SerialNumber: c.Query("serial_number"),
		UserID:       c.Query("user_id"),
	}

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid from date, expected YYYY-MM-DD",
			})
			return
		}
		filters.From = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid to date, expected YYYY-MM-DD",
			})
			return
		}
		// The upper bound is exclusive; make the named day inclusive.
		end := parsed.AddDate(0, 0, 1)
		filters.To = &end
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid limit"})
			return
		}
		filters.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid offset"})
			return
		}
		filters.Offset = n
	}

	resp, err := h.historyService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Export streams the selected window as an XLSX download.
func (h *HistoryHandler) Export(c *gin.Context) {
	var req services.HistoryExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Exporting rental history",
		"period", req.Period, "start_date", req.StartDate, "end_date", req.EndDate)

	data, filename, err := h.historyService.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
