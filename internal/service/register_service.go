package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"wfgpos/internal/access"
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

// Notifier receives the day summary of a session after it closes.
// Delivery is asynchronous; an error only means the hand-off failed.
type Notifier interface {
	EnqueueDaySummary(ctx context.Context, summary reconcile.DaySummary) error
}

type RegisterService interface {
	Open(ctx context.Context, p access.Principal, req dto.OpenRegisterRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, p access.Principal, req dto.CloseRegisterRequest) (*dto.SessionResponse, error)
	Status(ctx context.Context, p access.Principal) (*dto.StatusResponse, error)
	Touch(ctx context.Context, p access.Principal) error
	GetSession(ctx context.Context, key string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, filter dto.SessionFilter) (*dto.SessionListResponse, error)
	ListManagers(ctx context.Context) ([]dto.ManagerResponse, error)
	Summary(ctx context.Context, key, managerID string) (*dto.CombinedSummaryResponse, error)
	DaySummary(ctx context.Context, key string) (*reconcile.DaySummary, error)
	// Recalculate rebuilds the aggregates of an open session from its
	// ledger. Not routed; used for repairs and tests.
	Recalculate(ctx context.Context, key string) (*dto.SessionResponse, error)
}

type registerService struct {
	ledger
	employees  repository.EmployeeRepository
	businesses repository.BusinessRepository
	notifier   Notifier
}

func NewRegisterService(
	sessions repository.RegisterRepository,
	orders repository.OrderRepository,
	expenses repository.ExpenseRepository,
	employees repository.EmployeeRepository,
	businesses repository.BusinessRepository,
	notifier Notifier,
) RegisterService {
	return &registerService{
		ledger:     newLedger(sessions, orders, expenses),
		employees:  employees,
		businesses: businesses,
		notifier:   notifier,
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, p access.Principal, req dto.OpenRegisterRequest) (*dto.SessionResponse, error) {
	startCash, err := requireAmount("start_cash", req.StartCash)
	if err != nil {
		return nil, err
	}
	managerID, err := uuid.Parse(req.ManagerID)
	if err != nil {
		return nil, apierror.Validation("manager_id is not a valid id")
	}
	branchID, err := parseOptUUID(req.BranchID)
	if err != nil {
		return nil, apierror.Validation("branch_id is not a valid id")
	}
	if branchID == nil {
		branchID = p.BranchID
	}

	mgr, err := s.employees.FindByID(ctx, managerID)
	if err != nil {
		return nil, notFound(err, "Manager not found")
	}
	if mgr.Role != model.RoleManager {
		return nil, apierror.NotFound("Manager not found")
	}

	now := s.now()
	sess := &model.RegisterSession{
		SessionKey:      uuid.NewString(),
		ManagerID:       mgr.ID,
		ManagerName:     mgr.Name,
		CashierID:       p.EmployeeID,
		BranchID:        branchID,
		BusinessID:      p.BusinessID,
		IsOpen:          true,
		OpenedAt:        now,
		StartCash:       startCash,
		OpeningBalance:  startCash,
		ExpectedBalance: startCash,
		TotalSales:      decimal.Zero,
		TotalExpenses:   decimal.Zero,
		CashRecvd:       decimal.Zero,
		OnlineRecvd:     decimal.Zero,
		ExpectedCash:    decimal.Zero,
		ExpectedOnline:  decimal.Zero,
		LastActivity:    now,
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		_, err := s.sessions.FindOpenByCashier(ctx, tx, p.EmployeeID)
		if err == nil {
			return errSessionAlreadyOpen
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.sessions.Create(ctx, tx, sess)
	})
	// The partial unique index catches the open race the pre-check misses.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errSessionAlreadyOpen
	}
	if err != nil {
		return nil, txFailure(err)
	}

	log.Info().
		Str("session_key", sess.SessionKey).
		Str("cashier_id", p.EmployeeID.String()).
		Str("start_cash", startCash.StringFixed(2)).
		Msg("register opened")

	sess.Orders = []model.Order{}
	sess.Expenses = []model.Expense{}
	return sessionToResponse(sess), nil
}

var errSessionAlreadyOpen = apierror.Conflict("A register session is already open for this cashier")

// ── Close ────────────────────────────────────────────────────────────────────

func (s *registerService) Close(ctx context.Context, p access.Principal, req dto.CloseRegisterRequest) (*dto.SessionResponse, error) {
	finalCash, err := requireAmount("final_cash", req.FinalCash)
	if err != nil {
		return nil, err
	}

	var closed *model.RegisterSession
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		open, err := s.sessions.FindOpenByCashier(ctx, tx, p.EmployeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNoOpenSession
		}
		if err != nil {
			return err
		}
		sess, err := s.lockOpen(ctx, tx, open.SessionKey)
		if err != nil {
			return err
		}
		orders, expenses, err := s.reload(ctx, tx, sess)
		if err != nil {
			return err
		}

		final := finalCash
		closedAt := sess.LastActivity
		sess.ClosingBalance = &final
		sess.ClosedAt = &closedAt
		sess.IsOpen = false
		if err := s.sessions.SaveClose(ctx, tx, sess); err != nil {
			return err
		}
		sess.Orders = orders
		sess.Expenses = expenses
		closed = sess
		return nil
	})
	if err != nil {
		return nil, txFailure(err)
	}

	log.Info().
		Str("session_key", closed.SessionKey).
		Str("closing_balance", finalCash.StringFixed(2)).
		Str("expected_balance", closed.ExpectedBalance.StringFixed(2)).
		Msg("register closed")

	s.notifyClosed(ctx, closed)
	return sessionToResponse(closed), nil
}

var errNoOpenSession = apierror.InvalidState("No open register session for this cashier")

// notifyClosed hands the day summary to the notifier when the business
// asked for it. Failures are logged and never reach the caller.
func (s *registerService) notifyClosed(ctx context.Context, sess *model.RegisterSession) {
	if s.notifier == nil || sess.BusinessID == nil {
		return
	}
	biz, err := s.businesses.FindByID(ctx, *sess.BusinessID)
	if err != nil {
		log.Warn().Err(err).Str("session_key", sess.SessionKey).Msg("day summary: business lookup failed")
		return
	}
	if !biz.Preferences.SendDaySummaryReport || biz.Email == nil || *biz.Email == "" {
		return
	}
	summary := reconcile.Summarize(sess, sess.Orders, sess.Expenses)
	summary.BusinessName = biz.Name
	summary.BusinessEmail = *biz.Email
	if err := s.notifier.EnqueueDaySummary(ctx, summary); err != nil {
		log.Error().Err(err).Str("session_key", sess.SessionKey).Msg("day summary: enqueue failed")
	}
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *registerService) Status(ctx context.Context, p access.Principal) (*dto.StatusResponse, error) {
	open, err := s.sessions.FindOpenByCashier(ctx, nil, p.EmployeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.StatusResponse{IsOpen: false}, nil
	}
	if err != nil {
		return nil, err
	}
	full, err := s.sessions.FindByKey(ctx, open.SessionKey, true)
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{
		IsOpen:     true,
		SessionKey: full.SessionKey,
		Session:    sessionToResponse(full),
	}, nil
}

func (s *registerService) Touch(ctx context.Context, p access.Principal) error {
	open, err := s.sessions.FindOpenByCashier(ctx, nil, p.EmployeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errNoOpenSession
	}
	if err != nil {
		return err
	}
	return s.sessions.Touch(ctx, open.ID, s.now())
}

func (s *registerService) GetSession(ctx context.Context, key string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.FindByKey(ctx, key, true)
	if err != nil {
		return nil, notFound(err, "Register session not found")
	}
	return sessionToResponse(sess), nil
}

func (s *registerService) ListSessions(ctx context.Context, filter dto.SessionFilter) (*dto.SessionListResponse, error) {
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, apierror.Validation("dates must be formatted as YYYY-MM-DD")
		}
	}
	if filter.ManagerID != "" && !strings.EqualFold(filter.ManagerID, "all") {
		if _, err := uuid.Parse(filter.ManagerID); err != nil {
			return nil, apierror.Validation("manager_id is not a valid id")
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *registerService) ListManagers(ctx context.Context) ([]dto.ManagerResponse, error) {
	managers, err := s.employees.ListByRole(ctx, model.RoleManager)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ManagerResponse, 0, len(managers))
	for _, m := range managers {
		out = append(out, dto.ManagerResponse{ID: m.ID.String(), Name: m.Name, Email: m.Email})
	}
	return out, nil
}

// Summary combines the live stats of one open session, or of every open
// session when key is empty or "ALL" (optionally narrowed to one manager).
func (s *registerService) Summary(ctx context.Context, key, managerID string) (*dto.CombinedSummaryResponse, error) {
	var sessions []model.RegisterSession
	if key == "" || strings.EqualFold(key, "all") {
		var mid *uuid.UUID
		if managerID != "" && !strings.EqualFold(managerID, "all") {
			id, err := uuid.Parse(managerID)
			if err != nil {
				return nil, apierror.Validation("manager_id is not a valid id")
			}
			mid = &id
		}
		list, err := s.sessions.ListOpen(ctx, mid)
		if err != nil {
			return nil, err
		}
		sessions = list
	} else {
		sess, err := s.sessions.FindByKey(ctx, key, true)
		if err != nil {
			return nil, notFound(err, "Register session not found")
		}
		sessions = []model.RegisterSession{*sess}
	}
	if len(sessions) == 0 {
		return nil, apierror.NotFound("No open register sessions")
	}

	out := &dto.CombinedSummaryResponse{
		SessionCount:   len(sessions),
		TotalSales:     decimal.Zero,
		CashRecvd:      decimal.Zero,
		OnlineRecvd:    decimal.Zero,
		ExpectedCash:   decimal.Zero,
		ExpectedOnline: decimal.Zero,
		TotalExpenses:  decimal.Zero,
		StartCash:      decimal.Zero,
		OpeningBalance: decimal.Zero,
		ClosingBalance: decimal.Zero,
		Orders:         []dto.OrderResponse{},
		Expenses:       []dto.ExpenseResponse{},
		Registers:      make([]dto.RegisterBrief, 0, len(sessions)),
	}
	for i := range sessions {
		sess := &sessions[i]
		t := reconcile.Compute(sess.StartCash, sess.Orders, sess.Expenses)
		closing := decimal.Zero
		if sess.ClosingBalance != nil {
			closing = *sess.ClosingBalance
		}

		out.OrderCount += t.OrderCount
		out.TotalSales = out.TotalSales.Add(t.TotalSales)
		out.CashRecvd = out.CashRecvd.Add(t.CashRecvd)
		out.OnlineRecvd = out.OnlineRecvd.Add(t.OnlineRecvd)
		out.ExpectedCash = out.ExpectedCash.Add(t.ExpectedCash)
		out.ExpectedOnline = out.ExpectedOnline.Add(t.ExpectedOnline)
		out.TotalExpenses = out.TotalExpenses.Add(t.TotalExpenses)
		out.StartCash = out.StartCash.Add(sess.StartCash)
		out.OpeningBalance = out.OpeningBalance.Add(sess.OpeningBalance)
		out.ClosingBalance = out.ClosingBalance.Add(closing)
		out.Orders = append(out.Orders, ordersToResponse(sess.Orders)...)
		out.Expenses = append(out.Expenses, expensesToResponse(sess.Expenses)...)
		out.Registers = append(out.Registers, dto.RegisterBrief{
			SessionKey:      sess.SessionKey,
			OpenedAt:        fmtTime(sess.OpenedAt),
			CashierID:       sess.CashierID.String(),
			StartCash:       sess.StartCash,
			ClosingBalance:  closing,
			ExpectedBalance: t.ExpectedBalance,
		})
	}
	return out, nil
}

func (s *registerService) DaySummary(ctx context.Context, key string) (*reconcile.DaySummary, error) {
	sess, err := s.sessions.FindByKey(ctx, key, true)
	if err != nil {
		return nil, notFound(err, "Register session not found")
	}
	summary := reconcile.Summarize(sess, sess.Orders, sess.Expenses)
	if sess.BusinessID != nil {
		if biz, err := s.businesses.FindByID(ctx, *sess.BusinessID); err == nil {
			summary.BusinessName = biz.Name
			if biz.Email != nil {
				summary.BusinessEmail = *biz.Email
			}
		}
	}
	return &summary, nil
}

func (s *registerService) Recalculate(ctx context.Context, key string) (*dto.SessionResponse, error) {
	var out *model.RegisterSession
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		sess, err := s.lockOpen(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := s.recalculate(ctx, tx, sess); err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, txFailure(err)
	}
	return sessionToResponse(out), nil
}
