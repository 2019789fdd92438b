package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/reports"
	"github.com/raja1702/computer-storage-solutions/internal/http/response"
	"github.com/raja1702/computer-storage-solutions/internal/platform/apierr"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

// ReportRunner is the slice of the report engine the HTTP layer needs.
type ReportRunner interface {
	Run(ctx context.Context, name reports.Name, params reports.Params) (*reports.Result, error)
	RunBatch(ctx context.Context, reqs []reports.Request) ([]reports.BatchItem, error)
	Definitions() []reports.Definition
}

type StatisticsHandler struct {
	log     *logger.Logger
	reports ReportRunner
}

func NewStatisticsHandler(log *logger.Logger, runner ReportRunner) *StatisticsHandler {
	return &StatisticsHandler{log: log.With("handler", "StatisticsHandler"), reports: runner}
}

// GET /api/statistics/reports
func (h *StatisticsHandler) ListReports(c *gin.Context) {
	response.RespondOK(c, gin.H{"reports": h.reports.Definitions()})
}

// Report serves one fixed catalog entry, e.g. GET /api/statistics/most-popular-product.
func (h *StatisticsHandler) Report(name reports.Name) gin.HandlerFunc {
	return func(c *gin.Context) { h.run(c, name) }
}

// GET /api/statistics/reports/:name
func (h *StatisticsHandler) RunReport(c *gin.Context) {
	h.run(c, reports.Name(c.Param("name")))
}

func (h *StatisticsHandler) run(c *gin.Context, name reports.Name) {
	params, err := reports.ParseParams(c.Query)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.reports.Run(c.Request.Context(), name, params)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

type batchRequest struct {
	Reports []reports.Request `json:"reports"`
}

type batchItem struct {
	Report reports.Name       `json:"report"`
	Result *reports.Result    `json:"result,omitempty"`
	Error  *response.APIError `json:"error,omitempty"`
}

// POST /api/statistics/batch
func (h *StatisticsHandler) Batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("body must be {\"reports\": [{\"report\": ..., \"params\": {...}}]}"))
		return
	}
	items, err := h.reports.RunBatch(c.Request.Context(), req.Reports)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]batchItem, 0, len(items))
	for _, it := range items {
		row := batchItem{Report: it.Request.Report, Result: it.Result}
		if it.Err != nil {
			api := apierr.From(it.Err)
			row.Error = &response.APIError{Message: api.Error(), Code: api.Code}
		}
		out = append(out, row)
	}
	response.RespondOK(c, gin.H{"results": out})
}
