package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
)

// ReportController serves the reporting endpoints. Reports are computed on
// demand; the format=csv query switch streams the same report as a CSV
// attachment instead of the JSON envelope.
type ReportController struct {
	ctx           context.Context
	reportService services.ReportServiceInterface
	logger        logger.Logger
}

func NewReportController(ctx context.Context, reportService services.ReportServiceInterface, logger logger.Logger) *ReportController {
	return &ReportController{
		ctx:           ctx,
		reportService: reportService,
		logger:        logger,
	}
}

func (h *ReportController) writeCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ReportController) reportStatusCode(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(err.Error(), "are required") ||
		strings.Contains(err.Error(), "must be in YYYY-MM-DD format") ||
		strings.Contains(err.Error(), "must not be before") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MaintenanceCompliance handles GET /api/v1/reports/maintenance-compliance
// @Summary Maintenance compliance report
// @Description Report schedule coverage and due status across all non-retired assets
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param format query string false "Set to csv to download the report as CSV"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/maintenance-compliance [get]
func (h *ReportController) MaintenanceCompliance(c *gin.Context) {
	if c.Query("format") == "csv" {
		data, err := h.reportService.ComplianceCSV()
		if err != nil {
			h.logger.Error("Failed to generate compliance CSV", err)
			c.JSON(http.StatusInternalServerError, models.APIResponse{
				Status:  "error",
				Code:    http.StatusInternalServerError,
				Message: "Failed to generate report",
				Error: &models.APIError{
					Type:    "DatabaseError",
					Details: err.Error(),
				},
			})
			return
		}
		h.writeCSV(c, "maintenance-compliance.csv", data)
		return
	}

	report, err := h.reportService.MaintenanceCompliance()
	if err != nil {
		h.logger.Error("Failed to generate compliance report", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "DatabaseError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    report,
	})
}

// AssetUtilization handles GET /api/v1/reports/asset-utilization
// @Summary Asset utilization report
// @Description Report booked days and utilization percentage per asset for a period
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param startDate query string true "Period start (YYYY-MM-DD)"
// @Param endDate query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Set to csv to download the report as CSV"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid period"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/asset-utilization [get]
func (h *ReportController) AssetUtilization(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	if c.Query("format") == "csv" {
		data, err := h.reportService.AssetUtilizationCSV(startDate, endDate)
		if err != nil {
			statusCode := h.reportStatusCode(err)
			h.logger.Error("Failed to generate utilization CSV", err)
			c.JSON(statusCode, models.APIResponse{
				Status:  "error",
				Code:    statusCode,
				Message: "Failed to generate report",
				Error: &models.APIError{
					Type:    "BusinessError",
					Details: err.Error(),
				},
			})
			return
		}
		h.writeCSV(c, "asset-utilization.csv", data)
		return
	}

	report, err := h.reportService.AssetUtilization(startDate, endDate)
	if err != nil {
		statusCode := h.reportStatusCode(err)
		h.logger.Error("Failed to generate utilization report", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	responseData := map[string]interface{}{
		"utilization": report,
		"startDate":   startDate,
		"endDate":     endDate,
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    responseData,
	})
}

// GroupUtilization handles GET /api/v1/reports/group-utilization
// @Summary Group utilization report
// @Description Report booking counts and average utilization rolled up per asset group
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param startDate query string true "Period start (YYYY-MM-DD)"
// @Param endDate query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid period"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/group-utilization [get]
func (h *ReportController) GroupUtilization(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	report, err := h.reportService.GroupUtilization(startDate, endDate)
	if err != nil {
		statusCode := h.reportStatusCode(err)
		h.logger.Error("Failed to generate group utilization report", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	responseData := map[string]interface{}{
		"groups":    report,
		"startDate": startDate,
		"endDate":   endDate,
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    responseData,
	})
}

// BookingHistory handles GET /api/v1/reports/booking-history
// @Summary Booking history report
// @Description Report booking totals by status, by month and the most booked assets for a period
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param startDate query string true "Period start (YYYY-MM-DD)"
// @Param endDate query string true "Period end (YYYY-MM-DD)"
// @Param format query string false "Set to csv to download the report as CSV"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid period"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/booking-history [get]
func (h *ReportController) BookingHistory(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	if c.Query("format") == "csv" {
		data, err := h.reportService.BookingHistoryCSV(startDate, endDate)
		if err != nil {
			statusCode := h.reportStatusCode(err)
			h.logger.Error("Failed to generate booking history CSV", err)
			c.JSON(statusCode, models.APIResponse{
				Status:  "error",
				Code:    statusCode,
				Message: "Failed to generate report",
				Error: &models.APIError{
					Type:    "BusinessError",
					Details: err.Error(),
				},
			})
			return
		}
		h.writeCSV(c, "booking-history.csv", data)
		return
	}

	report, err := h.reportService.BookingHistory(startDate, endDate)
	if err != nil {
		statusCode := h.reportStatusCode(err)
		h.logger.Error("Failed to generate booking history report", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    report,
	})
}

// StockTakeSummary handles GET /api/v1/reports/stock-take/{sessionID}
// @Summary Stock take summary report
// @Description Report scanned, missing and unexpected assets for a stock take session
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param sessionID path string true "Stock take session ID"
// @Param format query string false "Set to csv to download the report as CSV"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 404 {object} models.APIResponse "Stock take session not found"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/stock-take/{sessionID} [get]
func (h *ReportController) StockTakeSummary(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Session ID is required",
			Error: &models.APIError{
				Type:    "ValidationError",
				Details: "Session ID parameter is missing",
			},
		})
		return
	}

	if c.Query("format") == "csv" {
		data, err := h.reportService.StockTakeSummaryCSV(sessionID)
		if err != nil {
			statusCode := h.reportStatusCode(err)
			h.logger.Error("Failed to generate stock take CSV", err)
			c.JSON(statusCode, models.APIResponse{
				Status:  "error",
				Code:    statusCode,
				Message: "Failed to generate report",
				Error: &models.APIError{
					Type:    "BusinessError",
					Details: err.Error(),
				},
			})
			return
		}
		h.writeCSV(c, "stock-take-summary.csv", data)
		return
	}

	report, err := h.reportService.StockTakeSummary(sessionID)
	if err != nil {
		statusCode := h.reportStatusCode(err)
		h.logger.Error("Failed to generate stock take report", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    report,
	})
}

// MaintenanceCosts handles GET /api/v1/reports/maintenance-costs
// @Summary Maintenance cost report
// @Description Report maintenance spend per asset for a period
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param startDate query string true "Period start (YYYY-MM-DD)"
// @Param endDate query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} models.APIResponse "Report generated successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid period"
// @Failure 500 {object} models.APIResponse "Internal Server Error"
// @Router /reports/maintenance-costs [get]
func (h *ReportController) MaintenanceCosts(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	report, err := h.reportService.MaintenanceCosts(startDate, endDate)
	if err != nil {
		statusCode := h.reportStatusCode(err)
		h.logger.Error("Failed to generate maintenance cost report", err)
		c.JSON(statusCode, models.APIResponse{
			Status:  "error",
			Code:    statusCode,
			Message: "Failed to generate report",
			Error: &models.APIError{
				Type:    "BusinessError",
				Details: err.Error(),
			},
		})
		return
	}

	responseData := map[string]interface{}{
		"costs":     report,
		"startDate": startDate,
		"endDate":   endDate,
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Report generated successfully",
		Data:    responseData,
	})
}
