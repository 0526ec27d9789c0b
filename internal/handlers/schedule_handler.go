package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-schedule/internal/services"
	"github.com/sjperalta/fintera-schedule/pkg/logger"
)

type ScheduleHandler struct {
	scheduleService  *services.ScheduleService
	exportService    *services.ExportService
	statementService *services.StatementService
}

func NewScheduleHandler(scheduleSvc *services.ScheduleService, exportSvc *services.ExportService, statementSvc *services.StatementService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService:  scheduleSvc,
		exportService:    exportSvc,
		statementService: statementSvc,
	}
}

// PreviewRequest carries the contract and payment history exactly as served
// by the contract and payment services.
type PreviewRequest struct {
	Contract json.RawMessage `json:"contract" swaggertype:"object"`
	Payments json.RawMessage `json:"payments" swaggertype:"array,object"`
}

// @Summary Contract payment schedule
// @Description Reconciles the contract's installments against its recorded payments
// @Tags Schedules
// @Produce json
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} schedule.Output
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/schedule [get]
func (h *ScheduleHandler) Show(c *gin.Context) {
	id, ok := contractIDParam(c)
	if !ok {
		return
	}

	out, err := h.scheduleService.ContractSchedule(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Contrato no encontrado")
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Preview payment schedule
// @Description Reconciles a contract and payment history supplied in the request, without reading stored data
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body PreviewRequest true "Contract and payments"
// @Success 200 {object} schedule.Output
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /schedules/preview [post]
func (h *ScheduleHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := BindNestedOrFlat(c, "schedule", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida"})
		return
	}
	if len(req.Contract) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El contrato es requerido"})
		return
	}

	out, err := h.scheduleService.Preview(c.Request.Context(), req.Contract, req.Payments)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Export payment schedule
// @Description Download the reconciled schedule as XLSX or PDF
// @Tags Schedules
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param contract_id path int true "Contract ID"
// @Param format query string false "xlsx (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	id, ok := contractIDParam(c)
	if !ok {
		return
	}

	export, err := h.exportService.ExportSchedule(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		respondError(c, err, "Contrato no encontrado")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// @Summary Account statement
// @Description Download the contract's account statement as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param contract_id path int true "Contract ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contracts/{contract_id}/statement [get]
func (h *ScheduleHandler) Statement(c *gin.Context) {
	id, ok := contractIDParam(c)
	if !ok {
		return
	}

	buf, err := h.statementService.Generate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Contrato no encontrado")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=estado_de_cuenta_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func contractIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("contract_id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de contrato inválido"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto HTTP responses. notFound overrides the
// message for ErrNotFound when set.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		if notFound == "" {
			notFound = err.Error()
		}
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.Ctx(c.Request.Context()).Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}
