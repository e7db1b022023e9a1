package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wfgpos/internal/dto"
	"wfgpos/internal/infra"
	"wfgpos/internal/reconcile"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	retryBaseDelay = time.Millisecond
}

type sentMail struct {
	to, subject, body, attachment string
}

type fakeMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []sentMail
}

func (m *fakeMailer) Send(to, subject, body, attachmentPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{to, subject, body, attachmentPath})
	return nil
}

func newBreaker() *infra.CircuitBreaker {
	return infra.NewCircuitBreaker("smtp-test", infra.CircuitBreakerConfig{
		FailureThreshold: 10,
		OpenTimeout:      time.Minute,
	})
}

func summaryPayload(t *testing.T, email string) json.RawMessage {
	t.Helper()
	s := reconcile.DaySummary{
		SessionKey:      "a1b2",
		BusinessName:    "Corner Cafe",
		BusinessEmail:   email,
		Manager:         "Sara",
		OpenedAt:        time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		StartCash:       decimal.NewFromInt(100),
		TotalSales:      decimal.NewFromInt(80),
		ExpectedBalance: decimal.NewFromInt(130),
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	return raw
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		calls++
		if attempt < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ReturnsLastError(t *testing.T) {
	last := errors.New("third")
	err := withRetry(context.Background(), 3, func(attempt int) error {
		if attempt == 2 {
			return last
		}
		return errors.New("earlier")
	})
	assert.ErrorIs(t, err, last)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := withRetry(ctx, 3, func(int) error {
		calls++
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDaySummaryWorker_SendsPDF(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewDaySummaryWorker(mailer, newBreaker(), nil, t.TempDir())

	w.Process(context.Background(), summaryPayload(t, "owner@example.com"))

	require.Len(t, mailer.sent, 1)
	got := mailer.sent[0]
	assert.Equal(t, "owner@example.com", got.to)
	assert.Contains(t, got.subject, "Corner Cafe")
	assert.Contains(t, got.body, "80.00")
	_, err := os.Stat(got.attachment)
	assert.NoError(t, err)
}

func TestDaySummaryWorker_RetriesTransientFailures(t *testing.T) {
	mailer := &fakeMailer{failures: 2}
	w := NewDaySummaryWorker(mailer, newBreaker(), nil, t.TempDir())

	w.Process(context.Background(), summaryPayload(t, "owner@example.com"))

	assert.Equal(t, 3, mailer.calls)
	assert.Len(t, mailer.sent, 1)
}

func TestDaySummaryWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	mailer := &fakeMailer{failures: 100}
	w := NewDaySummaryWorker(mailer, newBreaker(), nil, t.TempDir())

	w.Process(context.Background(), summaryPayload(t, "owner@example.com"))

	assert.Equal(t, maxSendAttempts, mailer.calls)
	assert.Empty(t, mailer.sent)
}

func TestDaySummaryWorker_OpenBreakerSkipsSMTP(t *testing.T) {
	cb := infra.NewCircuitBreaker("smtp-test", infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
	})
	_ = cb.Execute(func() error { return errors.New("down") })
	require.Equal(t, infra.CBOpen, cb.State())

	mailer := &fakeMailer{}
	w := NewDaySummaryWorker(mailer, cb, nil, t.TempDir())
	w.Process(context.Background(), summaryPayload(t, "owner@example.com"))

	assert.Zero(t, mailer.calls)
}

func TestDaySummaryWorker_SkipsWithoutEmail(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewDaySummaryWorker(mailer, newBreaker(), nil, t.TempDir())

	w.Process(context.Background(), summaryPayload(t, ""))
	w.Process(context.Background(), json.RawMessage(`{not json`))

	assert.Zero(t, mailer.calls)
}

type recordingHandler struct {
	payloads []json.RawMessage
}

func (h *recordingHandler) Process(_ context.Context, raw json.RawMessage) {
	h.payloads = append(h.payloads, raw)
}

func TestPool_RoutesByJobType(t *testing.T) {
	h := &recordingHandler{}
	p := NewPool(nil, map[string]Handler{JobDaySummary: h})

	job, err := json.Marshal(Job{Type: JobDaySummary, Payload: json.RawMessage(`{"session_key":"k"}`)})
	require.NoError(t, err)

	p.processJob(context.Background(), QueueDaySummary, string(job))
	p.processJob(context.Background(), QueueDaySummary, `{"type":"unknown","payload":{}}`)
	p.processJob(context.Background(), QueueDaySummary, `garbage`)

	require.Len(t, h.payloads, 1)
	assert.JSONEq(t, `{"session_key":"k"}`, string(h.payloads[0]))
}

type stubReporter struct {
	days []time.Time
	err  error
}

func (r *stubReporter) GenerateDay(_ context.Context, day time.Time) (*dto.ReportResponse, error) {
	r.days = append(r.days, day)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.ReportResponse{ID: "r1"}, nil
}

// downRedis fails every BRPOP the way an unreachable server does.
type downRedis struct {
	redis.Cmdable
	pops atomic.Int32
}

func (r *downRedis) BRPop(ctx context.Context, _ time.Duration, _ ...string) *redis.StringSliceCmd {
	r.pops.Add(1)
	cmd := redis.NewStringSliceCmd(ctx)
	cmd.SetErr(errors.New("dial tcp: connection refused"))
	return cmd
}

func TestPool_BacksOffWhenRedisIsDown(t *testing.T) {
	old := popErrorBackoff
	popErrorBackoff = 50 * time.Millisecond
	t.Cleanup(func() { popErrorBackoff = old })

	rdb := &downRedis{}
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		NewPool(rdb, nil).run(ctx, 0)
		close(done)
	}()
	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	assert.LessOrEqual(t, rdb.pops.Load(), int32(4))
	assert.GreaterOrEqual(t, rdb.pops.Load(), int32(1))
}

func TestRunDailyReport_UsesPreviousDay(t *testing.T) {
	r := &stubReporter{}
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)

	runDailyReport(context.Background(), r, now)

	require.Len(t, r.days, 1)
	assert.Equal(t, "2024-02-29", r.days[0].Format("2006-01-02"))

	r.err = errors.New("db down")
	runDailyReport(context.Background(), r, now)
	assert.Len(t, r.days, 2)
}
