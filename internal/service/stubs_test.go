package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"wfgpos/internal/dto"
	"wfgpos/internal/model"
	"wfgpos/internal/reconcile"
	"wfgpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Shared in-memory store ───────────────────────────────────────────────────
// One store backs every repository stub so that session reads see the
// orders and expenses written through the other stubs.

type memStore struct {
	sessions   map[string]*model.RegisterSession
	orders     map[uuid.UUID]*model.Order
	deleted    []model.DeletedOrder
	expenses   map[uuid.UUID]*model.Expense
	employees  map[uuid.UUID]*model.Employee
	businesses map[uuid.UUID]*model.Business
	reports    []model.Report
}

func newMemStore() *memStore {
	return &memStore{
		sessions:   map[string]*model.RegisterSession{},
		orders:     map[uuid.UUID]*model.Order{},
		expenses:   map[uuid.UUID]*model.Expense{},
		employees:  map[uuid.UUID]*model.Employee{},
		businesses: map[uuid.UUID]*model.Business{},
	}
}

func (m *memStore) session(key string) model.RegisterSession {
	return *m.sessions[key]
}

func (m *memStore) ordersOf(key string) []model.Order {
	var out []model.Order
	for _, o := range m.orders {
		if o.RegisterSession == key {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOrdered.After(out[j].DateOrdered) })
	return out
}

func (m *memStore) expensesOf(key string) []model.Expense {
	var out []model.Expense
	for _, e := range m.expenses {
		if e.RegisterSession == key {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out
}

func (m *memStore) withLedger(s *model.RegisterSession) *model.RegisterSession {
	c := *s
	c.Orders = m.ordersOf(s.SessionKey)
	c.Expenses = m.expensesOf(s.SessionKey)
	if c.Orders == nil {
		c.Orders = []model.Order{}
	}
	if c.Expenses == nil {
		c.Expenses = []model.Expense{}
	}
	return &c
}

func copyOrder(o *model.Order) model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	return c
}

// ── RegisterRepository ───────────────────────────────────────────────────────

type memSessions struct{ *memStore }

func (r memSessions) DB() *gorm.DB { return nil }

func (r memSessions) Create(_ context.Context, _ *gorm.DB, s *model.RegisterSession) error {
	for _, cur := range r.sessions {
		if cur.IsOpen && cur.CashierID == s.CashierID {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	c := *s
	c.Orders, c.Expenses = nil, nil
	r.sessions[s.SessionKey] = &c
	return nil
}

func (r memSessions) FindOpenByCashier(_ context.Context, _ *gorm.DB, cashierID uuid.UUID) (*model.RegisterSession, error) {
	for _, s := range r.sessions {
		if s.IsOpen && s.CashierID == cashierID {
			c := *s
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memSessions) FindByKey(_ context.Context, key string, withLedger bool) (*model.RegisterSession, error) {
	s, ok := r.sessions[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if withLedger {
		return r.withLedger(s), nil
	}
	c := *s
	return &c, nil
}

func (r memSessions) LockByKey(_ context.Context, _ *gorm.DB, key string) (*model.RegisterSession, error) {
	s, ok := r.sessions[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r memSessions) SaveAggregates(_ context.Context, _ *gorm.DB, s *model.RegisterSession) error {
	cur, ok := r.sessions[s.SessionKey]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.TotalSales = s.TotalSales
	cur.TotalExpenses = s.TotalExpenses
	cur.CashRecvd = s.CashRecvd
	cur.OnlineRecvd = s.OnlineRecvd
	cur.ExpectedCash = s.ExpectedCash
	cur.ExpectedOnline = s.ExpectedOnline
	cur.ExpectedBalance = s.ExpectedBalance
	cur.LastActivity = s.LastActivity
	return nil
}

func (r memSessions) SaveClose(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error {
	if err := r.SaveAggregates(ctx, tx, s); err != nil {
		return err
	}
	cur := r.sessions[s.SessionKey]
	cur.IsOpen = s.IsOpen
	cur.ClosedAt = s.ClosedAt
	cur.ClosingBalance = s.ClosingBalance
	return nil
}

func (r memSessions) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, s := range r.sessions {
		if s.ID == id && s.IsOpen {
			s.LastActivity = at
		}
	}
	return nil
}

func (r memSessions) List(_ context.Context, filter dto.SessionFilter) ([]model.RegisterSession, int64, error) {
	var all []model.RegisterSession
	for _, s := range r.sessions {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OpenedAt.After(all[j].OpenedAt) })
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memSessions) ListOpen(_ context.Context, managerID *uuid.UUID) ([]model.RegisterSession, error) {
	var out []model.RegisterSession
	for _, s := range r.sessions {
		if !s.IsOpen || (managerID != nil && s.ManagerID != *managerID) {
			continue
		}
		out = append(out, *r.withLedger(s))
	}
	return out, nil
}

func (r memSessions) ListOpenedBetween(_ context.Context, start, end time.Time) ([]model.RegisterSession, error) {
	var out []model.RegisterSession
	for _, s := range r.sessions {
		if !s.OpenedAt.Before(start) && s.OpenedAt.Before(end) {
			out = append(out, *r.withLedger(s))
		}
	}
	return out, nil
}

var _ repository.RegisterRepository = memSessions{}

// ── OrderRepository ──────────────────────────────────────────────────────────

type memOrders struct{ *memStore }

func (r memOrders) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
	}
	c := copyOrder(o)
	r.orders[o.ID] = &c
	return nil
}

func (r memOrders) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := copyOrder(o)
	return &c, nil
}

func (r memOrders) UpdatePayment(_ context.Context, _ *gorm.DB, o *model.Order) error {
	cur, ok := r.orders[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.AmountPaid = o.AmountPaid
	cur.OutstandingPayment = o.OutstandingPayment
	cur.PaymentStatus = o.PaymentStatus
	return nil
}

func (r memOrders) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r memOrders) Archive(_ context.Context, _ *gorm.DB, d *model.DeletedOrder) error {
	d.ID = uuid.New()
	r.deleted = append(r.deleted, *d)
	return nil
}

func (r memOrders) ListBySession(_ context.Context, _ *gorm.DB, key string) ([]model.Order, error) {
	return r.ordersOf(key), nil
}

func (r memOrders) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if filter.SessionKey != "" && o.RegisterSession != filter.SessionKey {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r memOrders) ListBetween(_ context.Context, start, end time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if !o.DateOrdered.Before(start) && o.DateOrdered.Before(end) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (r memOrders) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, o := range r.orders {
		if !o.DateOrdered.Before(since) {
			n++
		}
	}
	return n, nil
}

var _ repository.OrderRepository = memOrders{}

// ── ExpenseRepository ────────────────────────────────────────────────────────

type memExpenses struct{ *memStore }

func (r memExpenses) Create(_ context.Context, _ *gorm.DB, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	c := *e
	r.expenses[e.ID] = &c
	return nil
}

func (r memExpenses) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (r memExpenses) Update(_ context.Context, _ *gorm.DB, e *model.Expense) error {
	cur, ok := r.expenses[e.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Name = e.Name
	cur.Amount = e.Amount
	return nil
}

func (r memExpenses) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.expenses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r memExpenses) ListBySession(_ context.Context, _ *gorm.DB, key string) ([]model.Expense, error) {
	return r.expensesOf(key), nil
}

func (r memExpenses) ListBetween(_ context.Context, start, end time.Time) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range r.expenses {
		if !e.DateAdded.Before(start) && e.DateAdded.Before(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

var _ repository.ExpenseRepository = memExpenses{}

// ── Collaborator repositories ────────────────────────────────────────────────

type memEmployees struct{ *memStore }

func (r memEmployees) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (r memEmployees) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	for _, id := range ids {
		if e, ok := r.employees[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r memEmployees) ListByRole(_ context.Context, role string) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.Role == role {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.EmployeeRepository = memEmployees{}

type memBusinesses struct{ *memStore }

func (r memBusinesses) FindByID(_ context.Context, id uuid.UUID) (*model.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *b
	return &c, nil
}

var _ repository.BusinessRepository = memBusinesses{}

type memReports struct{ *memStore }

func (r memReports) Create(_ context.Context, rep *model.Report) error {
	rep.ID = uuid.New()
	r.reports = append(r.reports, *rep)
	return nil
}

func (r memReports) FindByID(_ context.Context, id uuid.UUID) (*model.Report, error) {
	for i := range r.reports {
		if r.reports[i].ID == id {
			c := r.reports[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memReports) FindByRange(_ context.Context, start, end time.Time) (*model.Report, error) {
	for i := range r.reports {
		if r.reports[i].StartDate.Equal(start) && r.reports[i].EndDate.Equal(end) {
			c := r.reports[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memReports) List(_ context.Context, limit int) ([]model.Report, error) {
	if len(r.reports) < limit {
		limit = len(r.reports)
	}
	return append([]model.Report(nil), r.reports[:limit]...), nil
}

var _ repository.ReportRepository = memReports{}

// ── Notifier ─────────────────────────────────────────────────────────────────

type fakeNotifier struct {
	sent []reconcile.DaySummary
	err  error
}

func (n *fakeNotifier) EnqueueDaySummary(_ context.Context, s reconcile.DaySummary) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, s)
	return nil
}

var errNotifierDown = errors.New("queue unavailable")
