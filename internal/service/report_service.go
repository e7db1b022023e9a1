package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"wfgpos/internal/apierror"
	"wfgpos/internal/dto"
	"wfgpos/internal/model"
	"wfgpos/internal/reconcile"
	"wfgpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report periods accepted by Period.
const (
	PeriodDaily     = "daily"
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodAnnual    = "annual"
)

type ReportService interface {
	// Generate builds and stores the report for sessions opened in [start, end).
	Generate(ctx context.Context, start, end time.Time) (*dto.ReportResponse, error)
	// GenerateDay stores the report of the calendar day containing day,
	// reusing an existing one for the same range.
	GenerateDay(ctx context.Context, day time.Time) (*dto.ReportResponse, error)
	Period(ctx context.Context, period string) (*dto.PeriodReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error)
	ListReports(ctx context.Context, limit int) ([]dto.ReportResponse, error)
	EmployeeStats(ctx context.Context, q dto.EmployeeStatsQuery, limit int) (*dto.EmployeeStatsResponse, error)
	EmployeeStat(ctx context.Context, id uuid.UUID, q dto.EmployeeStatsQuery) (*dto.EmployeeStatResponse, error)
}

type reportService struct {
	repo     repository.ReportRepository
	sessions repository.RegisterRepository
	orders   repository.OrderRepository
	expenses  repository.ExpenseRepository
	employees repository.EmployeeRepository
	loc       *time.Location
	now       func() time.Time
}

func NewReportService(
	repo repository.ReportRepository,
	sessions repository.RegisterRepository,
	orders repository.OrderRepository,
	expenses repository.ExpenseRepository,
	employees repository.EmployeeRepository,
	loc *time.Location,
) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		repo:      repo,
		sessions:  sessions,
		orders:    orders,
		expenses:  expenses,
		employees: employees,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *reportService) Generate(ctx context.Context, start, end time.Time) (*dto.ReportResponse, error) {
	if !end.After(start) {
		return nil, apierror.Validation("end_date must be after start_date")
	}
	sessions, err := s.sessions.ListOpenedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rep := BuildReport(start, end, sessions)
	rep.GeneratedAt = s.now().UTC()
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	log.Info().
		Str("report_id", rep.ID.String()).
		Time("start", start).
		Time("end", end).
		Int("sessions", rep.Summary.TotalSessions).
		Msg("report generated")
	return reportToResponse(rep), nil
}

func (s *reportService) GenerateDay(ctx context.Context, day time.Time) (*dto.ReportResponse, error) {
	d := day.In(s.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	existing, err := s.repo.FindByRange(ctx, start, end)
	if err == nil {
		return reportToResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.Generate(ctx, start, end)
}

// BuildReport aggregates a set of sessions (with their ledgers loaded) into
// an unsaved Report.
func BuildReport(start, end time.Time, sessions []model.RegisterSession) *model.Report {
	sum := model.ReportSummary{
		TotalSessions:       len(sessions),
		TotalSales:          decimal.Zero,
		TotalExpenses:       decimal.Zero,
		TotalCashReceived:   decimal.Zero,
		TotalOnlinePayments: decimal.Zero,
		ExpectedCash:        decimal.Zero,
		ExpectedOnline:      decimal.Zero,
		TotalOutstanding:    decimal.Zero,
	}
	byManager := map[string]decimal.Decimal{}
	products := map[string]*model.ProductLine{}
	rows := make([]model.ReportSession, 0, len(sessions))

	for i := range sessions {
		sess := &sessions[i]
		t := reconcile.Compute(sess.StartCash, sess.Orders, sess.Expenses)

		sum.TotalOrders += t.OrderCount
		sum.TotalExpenseItems += t.ExpenseCount
		sum.TotalSales = sum.TotalSales.Add(t.TotalSales)
		sum.TotalExpenses = sum.TotalExpenses.Add(t.TotalExpenses)
		sum.TotalCashReceived = sum.TotalCashReceived.Add(t.CashRecvd)
		sum.TotalOnlinePayments = sum.TotalOnlinePayments.Add(t.OnlineRecvd)
		sum.ExpectedCash = sum.ExpectedCash.Add(t.ExpectedCash)
		sum.ExpectedOnline = sum.ExpectedOnline.Add(t.ExpectedOnline)
		sum.TotalOutstanding = sum.TotalOutstanding.Add(t.TotalOutstanding)

		byManager[sess.ManagerName] = byManager[sess.ManagerName].Add(t.TotalSales)

		for _, o := range sess.Orders {
			for _, it := range o.Items {
				key := it.ProductID.String() + "/" + it.OptionID.String()
				pl, ok := products[key]
				if !ok {
					pl = &model.ProductLine{
						ProductID:    it.ProductID.String(),
						OptionID:     it.OptionID.String(),
						OptionName:   it.OptionName,
						UnitPrice:    it.UnitPrice,
						TotalRevenue: decimal.Zero,
					}
					products[key] = pl
				}
				pl.QuantitySold += it.Quantity
				pl.TotalRevenue = pl.TotalRevenue.Add(it.TotalPrice)
			}
		}

		rows = append(rows, model.ReportSession{
			SessionKey:      sess.SessionKey,
			Manager:         sess.ManagerName,
			OpenedAt:        sess.OpenedAt,
			ClosedAt:        sess.ClosedAt,
			StartCash:       sess.StartCash,
			ClosingBalance:  sess.ClosingBalance,
			ExpectedBalance: t.ExpectedBalance,
			TotalSales:      t.TotalSales,
			TotalExpenses:   t.TotalExpenses,
			IsOpen:          sess.IsOpen,
		})
	}
	sum.NetRevenue = sum.TotalSales.Sub(sum.TotalExpenses)
	sum.NetCashFlow = sum.TotalCashReceived.Sub(sum.TotalExpenses)

	lines := make([]model.ProductLine, 0, len(products))
	for _, pl := range products {
		lines = append(lines, *pl)
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].TotalRevenue.Equal(lines[j].TotalRevenue) {
			return lines[i].TotalRevenue.GreaterThan(lines[j].TotalRevenue)
		}
		return lines[i].OptionName < lines[j].OptionName
	})

	return &model.Report{
		StartDate:      start,
		EndDate:        end,
		Summary:        sum,
		SalesByManager: byManager,
		ProductSummary: lines,
		Sessions:       rows,
	}
}

// periodStart returns the start of a rolling report window ending at now.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case PeriodWeekly:
		return now.AddDate(0, 0, -7), true
	case PeriodMonthly:
		return now.AddDate(0, -1, 0), true
	case PeriodQuarterly:
		return now.AddDate(0, -3, 0), true
	case PeriodAnnual:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

func (s *reportService) Period(ctx context.Context, period string) (*dto.PeriodReportResponse, error) {
	now := s.now().In(s.loc)
	start, ok := periodStart(period, now)
	if !ok {
		return nil, apierror.Validation("period must be one of daily, weekly, monthly, quarterly, annual")
	}
	// The window is inclusive of now.
	end := now.Add(time.Nanosecond)

	orders, err := s.orders.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	t := reconcile.Compute(decimal.Zero, orders, expenses)
	return &dto.PeriodReportResponse{
		Period:        period,
		Start:         fmtTime(start),
		End:           fmtTime(now),
		TotalOrders:   t.OrderCount,
		TotalSales:    t.TotalSales,
		TotalExpenses: t.TotalExpenses,
		NetProfit:     t.TotalSales.Sub(t.TotalExpenses),
		PaymentTypes: map[string]decimal.Decimal{
			model.PaymentCash:   t.ExpectedCash,
			model.PaymentOnline: t.ExpectedOnline,
		},
		Orders:   ordersToResponse(orders),
		Expenses: expensesToResponse(expenses),
	}, nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Report not found")
	}
	return reportToResponse(rep), nil
}

func (s *reportService) ListReports(ctx context.Context, limit int) ([]dto.ReportResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	reps, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportResponse, 0, len(reps))
	for i := range reps {
		out = append(out, *reportToResponse(&reps[i]))
	}
	return out, nil
}
