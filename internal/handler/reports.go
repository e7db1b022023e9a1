package handler

import (
	"net/http"
	"strconv"
	"time"

	"wfgpos/internal/apierror"
	"wfgpos/internal/dto"
	"wfgpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc service.ReportService
	loc *time.Location
}

// NewReportHandler parses request dates in loc, the business reporting zone.
func NewReportHandler(svc service.ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{svc: svc, loc: loc}
}

// Generate godoc
// @Summary Builds and stores the sales report for a date range
// @Description end_date is inclusive.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerateReportRequest true "Date range"
// @Success 201 {object} dto.ReportResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.GenerateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid start_date"))
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid end_date"))
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Period godoc
// @Summary Rolling-window report over orders and expenses
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period path string true "daily | weekly | monthly | quarterly | annual"
// @Success 200 {object} dto.PeriodReportResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/reports/period/{period} [get]
func (h *ReportHandler) Period(c *gin.Context) {
	resp, err := h.svc.Period(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Returns a stored report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lists stored reports, newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max results (default 30)"
// @Success 200 {array} dto.ReportResponse
// @Router /v1/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.svc.ListReports(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopEmployees godoc
// @Summary Employees ranked by orders served in sessions opened in the period
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param period query string false "daily | weekly | monthly | custom (default daily)"
// @Param start_date query string false "YYYY-MM-DD, custom period only"
// @Param end_date query string false "YYYY-MM-DD inclusive, custom period only"
// @Param branch_id query string false "Branch filter"
// @Param limit query int false "Max employees (default 5)"
// @Success 200 {object} dto.EmployeeStatsResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/stats/employees/top [get]
func (h *ReportHandler) TopEmployees(c *gin.Context) {
	var q dto.EmployeeStatsQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.EmployeeStats(c.Request.Context(), q, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EmployeeStat godoc
// @Summary Orders one employee served in sessions opened in the period
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param period query string false "daily | weekly | monthly | custom (default daily)"
// @Success 200 {object} dto.EmployeeStatResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/stats/employees/{id} [get]
func (h *ReportHandler) EmployeeStat(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var q dto.EmployeeStatsQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.EmployeeStat(c.Request.Context(), id, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
