package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"wfgpos/internal/dto"
	"wfgpos/internal/infra"
	"wfgpos/internal/middleware"
	"wfgpos/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterHandler struct{ svc service.RegisterService }

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// ListManagers godoc
// @Summary Lists employees who can be picked as session manager
// @Tags register
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ManagerResponse
// @Router /v1/register/managers [get]
func (h *RegisterHandler) ListManagers(c *gin.Context) {
	resp, err := h.svc.ListManagers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary Returns the caller's open register session, if any
// @Tags register
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusResponse
// @Router /v1/register/status [get]
func (h *RegisterHandler) Status(c *gin.Context) {
	resp, err := h.svc.Status(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Open godoc
// @Summary Opens a register session for the calling cashier
// @Tags register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenRegisterRequest true "Opening cash and manager"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/register/open [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes the caller's open register session
// @Tags register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseRegisterRequest true "Counted cash"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/register/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Touch godoc
// @Summary Records activity on the caller's open session
// @Tags register
// @Security BearerAuth
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/register/activity [post]
func (h *RegisterHandler) Touch(c *gin.Context) {
	if err := h.svc.Touch(c.Request.Context(), middleware.GetPrincipal(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSessions godoc
// @Summary Lists register sessions
// @Tags register
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param manager_id query string false "Manager employee ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.SessionListResponse
// @Router /v1/register/sessions [get]
func (h *RegisterHandler) ListSessions(c *gin.Context) {
	var filter dto.SessionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession godoc
// @Summary Returns one register session with its orders and expenses
// @Tags register
// @Produce json
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/register/sessions/{key} [get]
func (h *RegisterHandler) GetSession(c *gin.Context) {
	resp, err := h.svc.GetSession(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DaySummary godoc
// @Summary Returns the day summary of a register session
// @Tags register
// @Produce json
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {object} reconcile.DaySummary
// @Failure 404 {object} apierror.APIError
// @Router /v1/register/sessions/{key}/summary [get]
func (h *RegisterHandler) DaySummary(c *gin.Context) {
	resp, err := h.svc.DaySummary(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DaySummaryPDF godoc
// @Summary Downloads the day summary of a register session as PDF
// @Tags register
// @Produce application/pdf
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/register/sessions/{key}/summary.pdf [get]
func (h *RegisterHandler) DaySummaryPDF(c *gin.Context) {
	summary, err := h.svc.DaySummary(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := infra.RenderDaySummaryPDF(&buf, *summary); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="day_summary_%s.pdf"`, summary.SessionKey))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Summary godoc
// @Summary Combined summary of one session, or of all open sessions
// @Tags register
// @Produce json
// @Security BearerAuth
// @Param key query string false "Session key, or 'all'"
// @Param manager_id query string false "Manager filter when key is 'all'"
// @Success 200 {object} dto.CombinedSummaryResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/register/summary [get]
func (h *RegisterHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), c.Query("key"), c.Query("manager_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
