package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-schedule/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, completed, failed, queue length, next scheduled run)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} jobs.WorkerStats
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// DelinquencyScan queues an immediate overdue scan
// @Summary Run delinquency scan
// @Description Queue a scan of all active contracts for overdue installments
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Router /jobs/delinquency_scan [post]
func (h *JobHandler) DelinquencyScan(c *gin.Context) {
	h.jobService.TriggerDelinquencyScan()
	c.JSON(http.StatusAccepted, gin.H{"message": "Revisión de mora en cola"})
}
