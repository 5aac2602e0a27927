package controller

import (
	"context"
	"net/http"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"

	"github.com/gin-gonic/gin"
)

// WorkerController exposes the sweep worker status surface and a manual
// sweep trigger for operators.
type WorkerController struct {
	ctx          context.Context
	sweepService services.SweepServiceInterface
	logger       logger.Logger
}

func NewWorkerController(ctx context.Context, sweepService services.SweepServiceInterface, logger logger.Logger) *WorkerController {
	return &WorkerController{
		ctx:          ctx,
		sweepService: sweepService,
		logger:       logger,
	}
}

// SweepRequest represents the request body for a manual sweep trigger
type SweepRequest struct {
	DryRun bool `json:"dry_run"`
}

// GetWorkerStatus handles GET /api/v1/worker/status
// @Summary Get sweep worker status
// @Description Retrieve detailed status of the maintenance sweep worker including provisioning outcome and sweep history
// @Tags Worker
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Worker status retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to retrieve worker status"
// @Router /worker/status [get]
func (h *WorkerController) GetWorkerStatus(c *gin.Context) {
	workerStatus, err := h.sweepService.GetWorkerStatus()
	if err != nil {
		h.logger.Error("Failed to get worker status", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve worker status",
			Error: &models.APIError{
				Type:    "WorkerError",
				Details: err.Error(),
			},
		})
		return
	}

	httpStatus, apiStatus := h.mapWorkerStatusToHTTP(workerStatus)
	message := h.getStatusMessage(workerStatus)

	c.JSON(httpStatus, models.APIResponse{
		Status:  apiStatus,
		Code:    httpStatus,
		Message: message,
		Data:    workerStatus,
	})
}

// CheckWorkerHealth handles GET /api/v1/worker/health
// @Summary Check sweep worker health
// @Description Check if the sweep worker is healthy and get health details
// @Tags Worker
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Worker health check completed"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to check worker health"
// @Router /worker/health [get]
func (h *WorkerController) CheckWorkerHealth(c *gin.Context) {
	healthy, reason, err := h.sweepService.IsWorkerHealthy()
	if err != nil {
		h.logger.Error("Failed to check worker health", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Failed to check worker health",
			Error: &models.APIError{
				Type:    "WorkerError",
				Details: err.Error(),
			},
		})
		return
	}

	healthStatus := "healthy"
	if !healthy {
		healthStatus = "unhealthy"
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Worker health check completed",
		Data: map[string]interface{}{
			"healthy": healthy,
			"status":  healthStatus,
			"reason":  reason,
		},
	})
}

// RunSweep handles POST /api/v1/worker/sweep
// @Summary Trigger a maintenance sweep
// @Description Run one maintenance sweep immediately. With dry_run=true the sweep reports what it would do without writing anything.
// @Tags Worker
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SweepRequest false "Sweep options"
// @Success 200 {object} models.APIResponse "Sweep completed"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Sweep failed"
// @Router /worker/sweep [post]
func (h *WorkerController) RunSweep(c *gin.Context) {
	var req SweepRequest
	c.ShouldBindJSON(&req)

	run, err := h.sweepService.RunSweep(h.ctx, req.DryRun)
	if err != nil {
		h.logger.Errorf("Manual sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Sweep failed",
			Error: &models.APIError{
				Type:    "WorkerError",
				Details: err.Error(),
			},
		})
		return
	}

	message := "Sweep completed"
	if run.DryRun {
		message = "Dry-run sweep completed"
	}

	h.logger.Infof("Manual sweep completed: %d schedules checked, %d work orders created",
		run.SchedulesChecked, run.WorkOrdersCreated)

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		Data:    run,
	})
}

// mapWorkerStatusToHTTP maps worker status to appropriate HTTP status codes
func (h *WorkerController) mapWorkerStatusToHTTP(ws *models.WorkerState) (int, string) {
	switch ws.Status {
	case models.StatusCompleted:
		if ws.Success {
			return http.StatusOK, "success"
		}
		return http.StatusOK, "warning" // Completed but with issues

	case models.StatusFailed:
		return http.StatusServiceUnavailable, "error"

	case models.StatusCreatingTables, models.StatusWaitingForTables,
		models.StatusValidating, models.StatusInitializing, models.StatusSweeping:
		return http.StatusAccepted, "in_progress"

	case models.StatusRetrying:
		return http.StatusAccepted, "retrying"

	default:
		return http.StatusOK, "info"
	}
}

// getStatusMessage provides human-readable status messages
func (h *WorkerController) getStatusMessage(ws *models.WorkerState) string {
	switch ws.Status {
	case models.StatusCompleted:
		if ws.Success {
			return "Worker is ready and healthy"
		}
		return "Worker setup completed with warnings"

	case models.StatusFailed:
		return "Worker failed - manual intervention may be required"

	case models.StatusCreatingTables:
		return "Creating DynamoDB tables"

	case models.StatusWaitingForTables:
		return "Waiting for DynamoDB tables to become active"

	case models.StatusValidating:
		return "Validating provisioned tables"

	case models.StatusInitializing:
		return "Initializing sweep worker"

	case models.StatusSweeping:
		return "Maintenance sweep is running"

	case models.StatusRetrying:
		return "Retrying worker setup"

	default:
		return "Worker status retrieved successfully"
	}
}
