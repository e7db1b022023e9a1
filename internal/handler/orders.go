package handler

import (
	"net/http"

	"wfgpos/internal/dto"
	"wfgpos/internal/middleware"
	"wfgpos/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct{ svc service.OrderService }

func NewOrderHandler(svc service.OrderService) *OrderHandler { return &OrderHandler{svc: svc} }

// Create godoc
// @Summary Records an order against an open register session
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Lists orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param register_session query string false "Session key"
// @Param payment_status query string false "pending | paid"
// @Param payment_type query string false "cash | online"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.OrderListResponse
// @Router /v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Returns one order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApplyPayment godoc
// @Summary Applies a payment to an order's outstanding balance
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body dto.ApplyPaymentRequest true "Amount received"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/payment [patch]
func (h *OrderHandler) ApplyPayment(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.ApplyPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ApplyPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Deletes an order from an open session and archives it
// @Tags orders
// @Accept json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body dto.DeleteOrderRequest true "Deletion reason"
// @Success 204
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.DeleteOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), middleware.GetPrincipal(c), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBySession godoc
// @Summary Lists the orders of a register session, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {array} dto.OrderResponse
// @Router /v1/orders/session/{key} [get]
func (h *OrderHandler) ListBySession(c *gin.Context) {
	resp, err := h.svc.ListBySession(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SessionStats godoc
// @Summary Order statistics of a register session
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param key path string true "Session key"
// @Success 200 {object} dto.SessionStatsResponse
// @Router /v1/orders/session/{key}/stats [get]
func (h *OrderHandler) SessionStats(c *gin.Context) {
	resp, err := h.svc.SessionStats(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ServerBreakdown godoc
// @Summary Orders of the caller's open session grouped by server
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ServerOrdersResponse
// @Router /v1/orders/servers [get]
func (h *OrderHandler) ServerBreakdown(c *gin.Context) {
	resp, err := h.svc.ServerBreakdown(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DailyCount godoc
// @Summary Number of orders taken since the caller's register opened
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrderCountResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/daily-count [get]
func (h *OrderHandler) DailyCount(c *gin.Context) {
	resp, err := h.svc.DailyCount(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
