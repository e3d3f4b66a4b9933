package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aloraops/alora-site/internal/limiter"
	"github.com/aloraops/alora-site/internal/mailer"
	"github.com/aloraops/alora-site/internal/models"
)

type fakeLimiter struct {
	result  limiter.Result
	err     error
	calls   int
	lastKey string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (limiter.Result, error) {
	f.calls++
	f.lastKey = key
	return f.result, f.err
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupContactTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func newTestContactService(t *testing.T, l *fakeLimiter, m *fakeMailer) (*ContactService, *gorm.DB) {
	db := setupContactTestDB(t)
	notifications := NewNotificationService(db, nil)
	return NewContactService(l, m, notifications, "contact@aloraops.com"), db
}

func validRequest() ContactRequest {
	return ContactRequest{
		Name:    "A",
		Email:   "a@b.com",
		Company: "C",
		Message: "hi",
	}
}

func allowedResult(remaining int) limiter.Result {
	return limiter.Result{Allowed: true, Remaining: remaining, Reset: time.Now().Add(time.Hour)}
}

func TestContactService_Success(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	outcome := svc.Process(context.Background(), validRequest(), "1.2.3.4")

	assert.Equal(t, OutcomeAccepted, outcome.Kind)
	assert.Equal(t, 2, outcome.Remaining)
	assert.Equal(t, "1.2.3.4", lim.lastKey)

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, "contact@aloraops.com", msg.To)
	assert.Equal(t, "a@b.com", msg.ReplyTo)
	assert.Contains(t, msg.Subject, "C")
	assert.Contains(t, msg.Text, "hi")
	assert.Contains(t, msg.HTML, "hi")
}

func TestContactService_RateLimited(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute)
	lim := &fakeLimiter{result: limiter.Result{Allowed: false, Remaining: 0, Reset: reset}}
	m := &fakeMailer{}
	svc, db := newTestContactService(t, lim, m)

	outcome := svc.Process(context.Background(), validRequest(), "1.2.3.4")

	assert.Equal(t, OutcomeRateLimited, outcome.Kind)
	assert.Equal(t, 0, outcome.Remaining)
	assert.Equal(t, reset, outcome.Reset)
	assert.Greater(t, outcome.RetryAfter, 29*time.Minute)
	assert.Empty(t, m.sent)

	// Abuse events surface in the operator feed.
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestContactService_Honeypot(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	req := validRequest()
	req.Website = "http://spam.example"
	outcome := svc.Process(context.Background(), req, "1.2.3.4")

	assert.Equal(t, OutcomeHoneypot, outcome.Kind)
	assert.Empty(t, m.sent)
}

func TestContactService_HoneypotSkipsValidation(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	// Even a completely empty form trips the honeypot first.
	outcome := svc.Process(context.Background(), ContactRequest{Website: "x"}, "1.2.3.4")

	assert.Equal(t, OutcomeHoneypot, outcome.Kind)
	assert.Empty(t, m.sent)
}

func TestContactService_RateLimitBeatsHoneypot(t *testing.T) {
	lim := &fakeLimiter{result: limiter.Result{Allowed: false, Reset: time.Now().Add(time.Minute)}}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	req := validRequest()
	req.Website = "x"
	outcome := svc.Process(context.Background(), req, "1.2.3.4")

	assert.Equal(t, OutcomeRateLimited, outcome.Kind)
}

func TestContactService_MissingFields(t *testing.T) {
	cases := map[string]ContactRequest{
		"no name":         {Email: "a@b.com", Company: "C", Message: "hi"},
		"no email":        {Name: "A", Company: "C", Message: "hi"},
		"no company":      {Name: "A", Email: "a@b.com", Message: "hi"},
		"no message":      {Name: "A", Email: "a@b.com", Company: "C"},
		"whitespace only": {Name: "  ", Email: "a@b.com", Company: "C", Message: "hi"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			lim := &fakeLimiter{result: allowedResult(2)}
			m := &fakeMailer{}
			svc, _ := newTestContactService(t, lim, m)

			outcome := svc.Process(context.Background(), req, "1.2.3.4")

			assert.Equal(t, OutcomeInvalid, outcome.Kind)
			assert.Equal(t, "All fields are required.", outcome.Reason)
			assert.Empty(t, m.sent)
		})
	}
}

func TestContactService_InvalidEmail(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	req := validRequest()
	req.Email = "not-an-email"
	outcome := svc.Process(context.Background(), req, "1.2.3.4")

	assert.Equal(t, OutcomeInvalid, outcome.Kind)
	assert.Equal(t, "Please provide a valid email address.", outcome.Reason)
	assert.Empty(t, m.sent)
}

func TestContactService_HTMLBodyEscapesInjectedMarkup(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	req := validRequest()
	req.Message = "<script>x</script>"
	outcome := svc.Process(context.Background(), req, "1.2.3.4")

	assert.Equal(t, OutcomeAccepted, outcome.Kind)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].HTML, "&lt;script&gt;")
	assert.NotContains(t, m.sent[0].HTML, "<script>x</script>")
}

func TestContactService_MailFailure(t *testing.T) {
	lim := &fakeLimiter{result: allowedResult(2)}
	m := &fakeMailer{err: errors.New("relay down")}
	svc, db := newTestContactService(t, lim, m)

	outcome := svc.Process(context.Background(), validRequest(), "1.2.3.4")

	assert.Equal(t, OutcomeFailed, outcome.Kind)

	var notif models.Notification
	require.NoError(t, db.First(&notif).Error)
	assert.Equal(t, models.NotificationTypeError, notif.Type)
	assert.True(t, strings.Contains(notif.Message, "a@b.com"))
}

func TestContactService_LimiterUnavailable(t *testing.T) {
	lim := &fakeLimiter{err: errors.New("redis down")}
	m := &fakeMailer{}
	svc, _ := newTestContactService(t, lim, m)

	outcome := svc.Process(context.Background(), validRequest(), "1.2.3.4")

	assert.Equal(t, OutcomeFailed, outcome.Kind)
	assert.Empty(t, m.sent)
}
