package service

import (
	"time"

	"wfgpos/internal/dto"
	"wfgpos/internal/model"

	"github.com/google/uuid"
)

func fmtTime(t time.Time) string { return t.Format(time.RFC3339) }

func optTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func optString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func parseOptUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func orderToResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			CategoryID: it.CategoryID.String(),
			ProductID:  it.ProductID.String(),
			OptionID:   it.OptionID.String(),
			OptionName: it.OptionName,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}
	return dto.OrderResponse{
		ID:                 o.ID.String(),
		RegisterSession:    o.RegisterSession,
		CashierID:          o.CashierID.String(),
		ServerID:           optString(o.ServerID),
		BranchID:           optString(o.BranchID),
		Items:              items,
		Discount:           o.Discount,
		PaymentType:        o.PaymentType,
		ActualPrice:        o.ActualPrice,
		FinalPrice:         o.FinalPrice,
		PaymentStatus:      o.PaymentStatus,
		OutstandingPayment: o.OutstandingPayment,
		AmountPaid:         o.AmountPaid,
		DateOrdered:        fmtTime(o.DateOrdered),
	}
}

func ordersToResponse(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderToResponse(&orders[i]))
	}
	return out
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:              e.ID.String(),
		RegisterSession: e.RegisterSession,
		Name:            e.Name,
		Amount:          e.Amount,
		DateAdded:       fmtTime(e.DateAdded),
	}
}

func expensesToResponse(expenses []model.Expense) []dto.ExpenseResponse {
	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, expenseToResponse(&expenses[i]))
	}
	return out
}

func sessionToResponse(s *model.RegisterSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:              s.ID.String(),
		SessionKey:      s.SessionKey,
		Manager:         s.ManagerName,
		ManagerID:       s.ManagerID.String(),
		CashierID:       s.CashierID.String(),
		BranchID:        optString(s.BranchID),
		IsOpen:          s.IsOpen,
		OpenedAt:        fmtTime(s.OpenedAt),
		StartCash:       s.StartCash,
		OpeningBalance:  s.OpeningBalance,
		ClosingBalance:  s.ClosingBalance,
		ExpectedBalance: s.ExpectedBalance,
		TotalSales:      s.TotalSales,
		TotalExpenses:   s.TotalExpenses,
		CashRecvd:       s.CashRecvd,
		OnlineRecvd:     s.OnlineRecvd,
		ExpectedCash:    s.ExpectedCash,
		ExpectedOnline:  s.ExpectedOnline,
		LastActivity:    fmtTime(s.LastActivity),
		ClosedAt:        optTime(s.ClosedAt),
	}
	if s.Orders != nil {
		resp.Orders = ordersToResponse(s.Orders)
	}
	if s.Expenses != nil {
		resp.Expenses = expensesToResponse(s.Expenses)
	}
	return resp
}

func reportToResponse(r *model.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:             r.ID.String(),
		StartDate:      fmtTime(r.StartDate),
		EndDate:        fmtTime(r.EndDate),
		Summary:        r.Summary,
		SalesByManager: r.SalesByManager,
		ProductSummary: r.ProductSummary,
		Sessions:       r.Sessions,
		GeneratedAt:    fmtTime(r.GeneratedAt),
	}
}
