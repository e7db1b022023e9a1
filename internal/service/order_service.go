package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"wfgpos/internal/access"
	"wfgpos/internal/apierror"
	"wfgpos/internal/config"
	"wfgpos/internal/dto"
	"wfgpos/internal/model"
	"wfgpos/internal/reconcile"
	"wfgpos/internal/repository"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, p access.Principal, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	ApplyPayment(ctx context.Context, id uuid.UUID, req dto.ApplyPaymentRequest) (*dto.OrderResponse, error)
	DeleteOrder(ctx context.Context, p access.Principal, id uuid.UUID, reason string) error
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListBySession(ctx context.Context, key string) ([]dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	SessionStats(ctx context.Context, key string) (*dto.SessionStatsResponse, error)
	ServerBreakdown(ctx context.Context, p access.Principal) ([]dto.ServerOrdersResponse, error)
	DailyCount(ctx context.Context, p access.Principal) (*dto.OrderCountResponse, error)
}

type orderService struct {
	ledger
	employees   repository.EmployeeRepository
	overpayment string
}

// NewOrderService builds the order ledger. overpayment is one of
// config.OverpaymentCap or config.OverpaymentReject.
func NewOrderService(
	sessions repository.RegisterRepository,
	orders repository.OrderRepository,
	expenses repository.ExpenseRepository,
	employees repository.EmployeeRepository,
	overpayment string,
) OrderService {
	return &orderService{
		ledger:      newLedger(sessions, orders, expenses),
		employees:   employees,
		overpayment: overpayment,
	}
}

// ── CreateOrder ──────────────────────────────────────────────────────────────
//   1. Price the lines and validate discount/payment (outside TX)
//   2. BEGIN TX: lock session, check open + ownership, insert order+items
//   3. Recalculate session aggregates, COMMIT

func (s *orderService) CreateOrder(ctx context.Context, p access.Principal, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("order must contain at least one item")
	}
	if req.PaymentType != model.PaymentCash && req.PaymentType != model.PaymentOnline {
		return nil, apierror.Validation("payment_type must be cash or online")
	}
	if err := checkAmount("discount", req.Discount); err != nil {
		return nil, err
	}
	if err := checkAmount("amount_paid", req.AmountPaid); err != nil {
		return nil, err
	}
	serverID, err := parseOptUUID(req.ServerID)
	if err != nil {
		return nil, apierror.Validation("server_id is not a valid id")
	}
	branchID, err := parseOptUUID(req.BranchID)
	if err != nil {
		return nil, apierror.Validation("branch_id is not a valid id")
	}
	if branchID == nil {
		branchID = p.BranchID
	}

	items, actual, err := priceItems(req.Items)
	if err != nil {
		return nil, err
	}
	if req.Discount.GreaterThan(actual) {
		return nil, apierror.Validation("discount exceeds order subtotal")
	}

	order := &model.Order{
		RegisterSession: req.SessionKey,
		CashierID:       p.EmployeeID,
		ServerID:        serverID,
		BranchID:        branchID,
		Items:           items,
		Discount:        req.Discount,
		PaymentType:     req.PaymentType,
		ActualPrice:     actual,
		FinalPrice:      actual.Sub(req.Discount),
		AmountPaid:      req.AmountPaid,
	}
	order.Settle()

	err = s.mutate(ctx, req.SessionKey, func(tx *gorm.DB, sess *model.RegisterSession) error {
		if sess.CashierID != p.EmployeeID && !p.Can(access.CanViewOrders) {
			return apierror.Forbidden("Register session belongs to another cashier")
		}
		order.DateOrdered = s.now()
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("session_key", order.RegisterSession).
		Str("final_price", order.FinalPrice.StringFixed(2)).
		Str("payment_status", order.PaymentStatus).
		Msg("order created")

	resp := orderToResponse(order)
	return &resp, nil
}

// priceItems validates the lines and returns them with line totals plus
// the order subtotal.
func priceItems(reqItems []dto.OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(reqItems))
	subtotal := decimal.Zero
	for i, it := range reqItems {
		if it.Quantity < 1 {
			return nil, decimal.Zero, apierror.Validation("item quantity must be at least 1")
		}
		if err := checkAmount("item unit_price", it.UnitPrice); err != nil {
			return nil, decimal.Zero, err
		}
		if strings.TrimSpace(it.OptionName) == "" {
			return nil, decimal.Zero, apierror.Validation("item option_name is required")
		}
		ids := make([]uuid.UUID, 3)
		for j, raw := range []string{it.CategoryID, it.ProductID, it.OptionID} {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, decimal.Zero, apierror.Validation("item " + strconv.Itoa(i) + " has an invalid catalog id")
			}
			ids[j] = id
		}
		total := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(total)
		items = append(items, model.OrderItem{
			CategoryID: ids[0],
			ProductID:  ids[1],
			OptionID:   ids[2],
			OptionName: strings.TrimSpace(it.OptionName),
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			TotalPrice: total,
		})
	}
	return items, subtotal, nil
}

// ── ApplyPayment ─────────────────────────────────────────────────────────────

func (s *orderService) ApplyPayment(ctx context.Context, id uuid.UUID, req dto.ApplyPaymentRequest) (*dto.OrderResponse, error) {
	if !req.AmountReceived.IsPositive() {
		return nil, apierror.Validation("amount_received must be greater than zero")
	}
	if err := checkAmount("amount_received", req.AmountReceived); err != nil {
		return nil, err
	}
	existing, err := s.orders.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}

	var order *model.Order
	err = s.mutate(ctx, existing.RegisterSession, func(tx *gorm.DB, _ *model.RegisterSession) error {
		// Re-read under the session lock so concurrent payments serialize.
		o, err := s.orders.FindByID(ctx, tx, id)
		if err != nil {
			return notFound(err, "Order not found")
		}
		if s.overpayment == config.OverpaymentReject && req.AmountReceived.GreaterThan(o.OutstandingPayment) {
			return apierror.Validation("amount_received exceeds the outstanding payment")
		}
		o.AmountPaid = o.AmountPaid.Add(req.AmountReceived)
		o.Settle()
		order = o
		return s.orders.UpdatePayment(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("amount_received", req.AmountReceived.StringFixed(2)).
		Str("outstanding", order.OutstandingPayment.StringFixed(2)).
		Msg("payment applied")

	resp := orderToResponse(order)
	return &resp, nil
}

// ── DeleteOrder ──────────────────────────────────────────────────────────────
// The order is archived to deleted_orders before removal; both happen in the
// same transaction as the session recalculation.

func (s *orderService) DeleteOrder(ctx context.Context, p access.Principal, id uuid.UUID, reason string) error {
	if !p.Can(access.CanDeleteOrders) {
		return apierror.Forbidden("Not allowed to delete orders")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apierror.Validation("a delete reason is required")
	}
	existing, err := s.orders.FindByID(ctx, nil, id)
	if err != nil {
		return notFound(err, "Order not found")
	}

	err = s.mutate(ctx, existing.RegisterSession, func(tx *gorm.DB, _ *model.RegisterSession) error {
		o, err := s.orders.FindByID(ctx, tx, id)
		if err != nil {
			return notFound(err, "Order not found")
		}
		var archived model.DeletedOrder
		if err := copier.Copy(&archived, o); err != nil {
			return err
		}
		archived.ID = uuid.Nil
		archived.OriginalOrderID = o.ID
		archived.DeletedAt = s.now()
		archived.DeletedBy = p.EmployeeID
		archived.DeleteReason = reason
		if err := s.orders.Archive(ctx, tx, &archived); err != nil {
			return err
		}
		return s.orders.Delete(ctx, tx, o.ID)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("order_id", id.String()).
		Str("deleted_by", p.EmployeeID.String()).
		Str("reason", reason).
		Msg("order deleted")
	return nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	resp := orderToResponse(o)
	return &resp, nil
}

func (s *orderService) ListBySession(ctx context.Context, key string) ([]dto.OrderResponse, error) {
	orders, err := s.orders.ListBySession(ctx, nil, key)
	if err != nil {
		return nil, err
	}
	return ordersToResponse(orders), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.OrderListResponse{
		Data:  ordersToResponse(orders),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// SessionStats recomputes the sales figures of a session from its orders.
func (s *orderService) SessionStats(ctx context.Context, key string) (*dto.SessionStatsResponse, error) {
	sess, err := s.sessions.FindByKey(ctx, key, true)
	if err != nil {
		return nil, notFound(err, "Register session not found")
	}
	t := reconcile.Compute(sess.StartCash, sess.Orders, sess.Expenses)
	return &dto.SessionStatsResponse{
		CashRecvd:           t.CashRecvd,
		OnlineRecvd:         t.OnlineRecvd,
		ExpectedCash:        t.ExpectedCash,
		ExpectedOnline:      t.ExpectedOnline,
		TotalSales:          t.TotalSales,
		TotalPendingPayment: t.TotalOutstanding,
		OrderCount:          t.OrderCount,
	}, nil
}

// ServerBreakdown groups the caller's open-session orders by the employee
// who served them, largest total first.
func (s *orderService) ServerBreakdown(ctx context.Context, p access.Principal) ([]dto.ServerOrdersResponse, error) {
	open, err := s.sessions.FindOpenByCashier(ctx, nil, p.EmployeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoOpenSession
	}
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListBySession(ctx, nil, open.SessionKey)
	if err != nil {
		return nil, err
	}

	groups := map[uuid.UUID]*dto.ServerOrdersResponse{}
	var ids []uuid.UUID
	for _, o := range orders {
		key := uuid.Nil
		if o.ServerID != nil {
			key = *o.ServerID
		}
		g, ok := groups[key]
		if !ok {
			g = &dto.ServerOrdersResponse{
				ServerID:   optString(o.ServerID),
				ServerName: "Unassigned",
				TotalValue: decimal.Zero,
				Orders:     []dto.ServerOrderLine{},
			}
			groups[key] = g
			if key != uuid.Nil {
				ids = append(ids, key)
			}
		}
		g.OrderCount++
		g.TotalValue = g.TotalValue.Add(o.FinalPrice)
		g.Orders = append(g.Orders, dto.ServerOrderLine{
			ID:          o.ID.String(),
			DateOrdered: fmtTime(o.DateOrdered),
			FinalPrice:  o.FinalPrice,
		})
	}

	employees, err := s.employees.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if g, ok := groups[e.ID]; ok {
			g.ServerName = e.Name
		}
	}

	out := make([]dto.ServerOrdersResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].ServerName < out[j].ServerName
	})
	return out, nil
}

// DailyCount counts every order taken since the caller's register opened,
// across all registers. The count numbers the day's tickets.
func (s *orderService) DailyCount(ctx context.Context, p access.Principal) (*dto.OrderCountResponse, error) {
	open, err := s.sessions.FindOpenByCashier(ctx, nil, p.EmployeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoOpenSession
	}
	if err != nil {
		return nil, err
	}
	n, err := s.orders.CountSince(ctx, open.OpenedAt)
	if err != nil {
		return nil, err
	}
	return &dto.OrderCountResponse{
		SessionKey: open.SessionKey,
		Since:      fmtTime(open.OpenedAt),
		Count:      n,
	}, nil
}
