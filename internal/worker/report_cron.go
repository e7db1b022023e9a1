package worker

// report_cron.go
// Nightly job that stores the previous day's sales report. Generation is
// idempotent per day, so a restart after midnight does not duplicate rows.

import (
	"context"
	"time"

	"wfgpos/internal/dto"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// DayReporter stores the report of one calendar day.
type DayReporter interface {
	GenerateDay(ctx context.Context, day time.Time) (*dto.ReportResponse, error)
}

// StartReportScheduler runs the previous-day report at 00:05 in loc.
// The returned scheduler must be shut down by the caller.
func StartReportScheduler(ctx context.Context, reports DayReporter, loc *time.Location) (gocron.Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(func() { runDailyReport(ctx, reports, time.Now().In(loc)) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()
	log.Info().Str("location", loc.String()).Msg("report_cron: scheduler started (00:05)")
	return s, nil
}

// runDailyReport stores the report of the day before now.
func runDailyReport(ctx context.Context, reports DayReporter, now time.Time) {
	day := now.AddDate(0, 0, -1)
	rep, err := reports.GenerateDay(ctx, day)
	if err != nil {
		log.Error().Err(err).Str("day", day.Format("2006-01-02")).Msg("report_cron: daily report failed")
		return
	}
	log.Info().
		Str("day", day.Format("2006-01-02")).
		Str("report_id", rep.ID).
		Msg("report_cron: daily report stored")
}
