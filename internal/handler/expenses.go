package handler

import (
	"net/http"

	"wfgpos/internal/dto"
	"wfgpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct{ svc service.ExpenseService }

func NewExpenseHandler(svc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Add godoc
// @Summary Records an expense against an open register session
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AddExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/expenses [post]
func (h *ExpenseHandler) Add(c *gin.Context) {
	var req dto.AddExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Edit godoc
// @Summary Edits an expense of an open register session
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param body body dto.EditExpenseRequest true "New name and amount"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/expenses/{id} [put]
func (h *ExpenseHandler) Edit(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.EditExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditExpense(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Deletes an expense of an open register session
// @Tags expenses
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBySession godoc
// @Summary Lists the expenses of a register session
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {array} dto.ExpenseResponse
// @Router /v1/expenses/session/{key} [get]
func (h *ExpenseHandler) ListBySession(c *gin.Context) {
	resp, err := h.svc.ListBySession(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
