package service

import (
	"context"
	"sort"
	"time"

	"wfgpos/internal/apierror"
	"wfgpos/internal/dto"
	"wfgpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const PeriodCustom = "custom"

// statsWindow resolves the employee stats window in the reporting zone.
// Rolling windows end at now; custom windows cover whole days.
func (s *reportService) statsWindow(q dto.EmployeeStatsQuery) (time.Time, time.Time, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	switch q.Period {
	case "", PeriodDaily:
		return today, today.AddDate(0, 0, 1), nil
	case PeriodWeekly:
		return today.AddDate(0, 0, -6), now.Add(time.Nanosecond), nil
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc), now.Add(time.Nanosecond), nil
	case PeriodCustom:
		if q.StartDate == "" || q.EndDate == "" {
			return time.Time{}, time.Time{}, apierror.Validation("start_date and end_date are required for a custom period")
		}
		start, err := time.ParseInLocation("2006-01-02", q.StartDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.Validation("start_date must be formatted as YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", q.EndDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, apierror.Validation("end_date must be formatted as YYYY-MM-DD")
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, apierror.Validation("end_date must not be before start_date")
		}
		return start, end.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, apierror.Validation("period must be one of daily, weekly, monthly, custom")
}

// EmployeeStats ranks the employees who served orders in sessions opened
// inside the window. limit < 1 returns every employee.
func (s *reportService) EmployeeStats(ctx context.Context, q dto.EmployeeStatsQuery, limit int) (*dto.EmployeeStatsResponse, error) {
	start, end, err := s.statsWindow(q)
	if err != nil {
		return nil, err
	}
	var branch *uuid.UUID
	if q.BranchID != "" {
		id, err := uuid.Parse(q.BranchID)
		if err != nil {
			return nil, apierror.Validation("branch_id is not a valid id")
		}
		branch = &id
	}

	sessions, err := s.sessions.ListOpenedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	ranked, err := s.rankServers(ctx, sessions, branch)
	if err != nil {
		return nil, err
	}

	out := &dto.EmployeeStatsResponse{
		Period:         periodOrDaily(q.Period),
		Start:          fmtTime(start),
		End:            fmtTime(end),
		TotalEmployees: len(ranked),
		Employees:      ranked,
	}
	for _, e := range ranked {
		out.TotalDeliveries += e.TotalDeliveries
	}
	if limit > 0 && len(out.Employees) > limit {
		out.Employees = out.Employees[:limit]
	}
	return out, nil
}

func (s *reportService) EmployeeStat(ctx context.Context, id uuid.UUID, q dto.EmployeeStatsQuery) (*dto.EmployeeStatResponse, error) {
	all, err := s.EmployeeStats(ctx, q, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.EmployeeStatResponse{Period: all.Period, Start: all.Start, End: all.End}
	for i := range all.Employees {
		if all.Employees[i].EmployeeID == id.String() {
			out.Found = true
			out.Employee = &all.Employees[i]
			break
		}
	}
	return out, nil
}

// rankServers groups served orders by employee and then by session.
// Orders without a server, or whose server no longer exists, are skipped.
func (s *reportService) rankServers(ctx context.Context, sessions []model.RegisterSession, branch *uuid.UUID) ([]dto.EmployeeStats, error) {
	byEmployee := map[uuid.UUID]*dto.EmployeeStats{}
	var ids []uuid.UUID

	for i := range sessions {
		sess := &sessions[i]
		if branch != nil && (sess.BranchID == nil || *sess.BranchID != *branch) {
			continue
		}
		perSession := map[uuid.UUID]*dto.EmployeeSessionStats{}
		var order []uuid.UUID
		for _, o := range sess.Orders {
			if o.ServerID == nil {
				continue
			}
			ss, ok := perSession[*o.ServerID]
			if !ok {
				ss = &dto.EmployeeSessionStats{
					SessionKey: sess.SessionKey,
					OpenedAt:   fmtTime(sess.OpenedAt),
					ClosedAt:   optTime(sess.ClosedAt),
					TotalValue: decimal.Zero,
					Orders:     []dto.ServerOrderLine{},
				}
				perSession[*o.ServerID] = ss
				order = append(order, *o.ServerID)
			}
			ss.Deliveries++
			ss.TotalValue = ss.TotalValue.Add(o.FinalPrice)
			ss.Orders = append(ss.Orders, dto.ServerOrderLine{
				ID:          o.ID.String(),
				DateOrdered: fmtTime(o.DateOrdered),
				FinalPrice:  o.FinalPrice,
			})
		}
		for _, eid := range order {
			ss := perSession[eid]
			e, ok := byEmployee[eid]
			if !ok {
				e = &dto.EmployeeStats{EmployeeID: eid.String(), TotalValue: decimal.Zero}
				byEmployee[eid] = e
				ids = append(ids, eid)
			}
			e.TotalDeliveries += ss.Deliveries
			e.TotalValue = e.TotalValue.Add(ss.TotalValue)
			e.Sessions = append(e.Sessions, *ss)
		}
	}
	if len(ids) == 0 {
		return []dto.EmployeeStats{}, nil
	}

	employees, err := s.employees.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeStats, 0, len(employees))
	for _, emp := range employees {
		e, ok := byEmployee[emp.ID]
		if !ok {
			continue
		}
		e.EmployeeName = emp.Name
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDeliveries != out[j].TotalDeliveries {
			return out[i].TotalDeliveries > out[j].TotalDeliveries
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out, nil
}

func periodOrDaily(p string) string {
	if p == "" {
		return PeriodDaily
	}
	return p
}
