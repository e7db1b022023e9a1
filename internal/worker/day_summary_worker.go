package worker

// day_summary_worker.go
// Renders the day-summary PDF of a closed register session and emails it to
// the business. SMTP calls go through the circuit breaker with exponential
// backoff; exhausted jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wfgpos/internal/infra"
	"wfgpos/internal/reconcile"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxSendAttempts = 3

// retryBaseDelay is the first backoff step; tests shorten it.
var retryBaseDelay = time.Second

// MailSender delivers a message with an optional attachment.
type MailSender interface {
	Send(to, subject, body, attachmentPath string) error
}

// DaySummaryWorker processes jobs from QueueDaySummary.
type DaySummaryWorker struct {
	mailer  MailSender
	cb      *infra.CircuitBreaker
	rdb     redis.Cmdable
	pdfPath string
}

func NewDaySummaryWorker(mailer MailSender, cb *infra.CircuitBreaker, rdb redis.Cmdable, pdfPath string) *DaySummaryWorker {
	return &DaySummaryWorker{mailer: mailer, cb: cb, rdb: rdb, pdfPath: pdfPath}
}

// Process handles one day-summary job:
//  1. Decode the summary
//  2. Render the PDF to PDFStoragePath
//  3. Send it through the circuit breaker with backoff (max 3 attempts)
//  4. On exhaustion, push the job to dlq:jobs:day_summary
func (w *DaySummaryWorker) Process(ctx context.Context, raw json.RawMessage) {
	var summary reconcile.DaySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Error().Err(err).Msg("day_summary_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueDaySummary, JobDaySummary, raw, "invalid payload: "+err.Error(), 0)
		return
	}
	if summary.BusinessEmail == "" {
		log.Warn().Str("session_key", summary.SessionKey).Msg("day_summary_worker: empty business email, skipping")
		return
	}

	pdfPath, err := infra.GenerateDaySummaryPDF(summary, w.pdfPath)
	if err != nil {
		log.Error().Err(err).Str("session_key", summary.SessionKey).Msg("day_summary_worker: pdf generation failed")
		SendToDLQ(ctx, w.rdb, QueueDaySummary, JobDaySummary, raw, err.Error(), 0)
		return
	}

	subject := fmt.Sprintf("Day summary: %s", summary.OpenedAt.Format("02 Jan 2006"))
	if summary.BusinessName != "" {
		subject = summary.BusinessName + " " + subject
	}
	body := fmt.Sprintf("Register session %s closed.\nTotal sales: %s\nExpected balance: %s\n",
		summary.SessionKey, summary.TotalSales.StringFixed(2), summary.ExpectedBalance.StringFixed(2))

	attempts := 0
	sendErr := withRetry(ctx, maxSendAttempts, func(attempt int) error {
		attempts = attempt + 1
		err := w.cb.Execute(func() error {
			return w.mailer.Send(summary.BusinessEmail, subject, body, pdfPath)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempts).
				Str("session_key", summary.SessionKey).
				Msg("day_summary_worker: send attempt failed")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("session_key", summary.SessionKey).Msg("day_summary_worker: giving up")
		SendToDLQ(ctx, w.rdb, QueueDaySummary, JobDaySummary, raw,
			fmt.Sprintf("max attempts (%d) exceeded: %s", maxSendAttempts, sendErr), attempts)
		return
	}

	log.Info().
		Str("session_key", summary.SessionKey).
		Str("to", summary.BusinessEmail).
		Msg("day_summary_worker: summary sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = base, 3 = 2*base.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * retryBaseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
