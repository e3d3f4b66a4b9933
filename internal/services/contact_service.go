package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aloraops/alora-site/internal/limiter"
	"github.com/aloraops/alora-site/internal/logger"
	"github.com/aloraops/alora-site/internal/mailer"
	"github.com/aloraops/alora-site/internal/metrics"
	"github.com/aloraops/alora-site/internal/models"
	"github.com/aloraops/alora-site/internal/util"
)

// ContactRequest is one contact form submission. Website is the honeypot
// field: hidden from humans, auto-filled by naive bots.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
	Website string `json:"website"`
}

// OutcomeKind classifies the result of a submission.
type OutcomeKind int

const (
	// OutcomeAccepted means the notification email was dispatched.
	OutcomeAccepted OutcomeKind = iota
	// OutcomeRateLimited means the client exceeded the sliding-window quota.
	OutcomeRateLimited
	// OutcomeHoneypot means the hidden field was filled; callers must
	// answer as if the submission succeeded.
	OutcomeHoneypot
	// OutcomeInvalid means a required field is missing or malformed.
	OutcomeInvalid
	// OutcomeFailed means an upstream dependency (limiter store or mail
	// relay) failed; the submitter may retry explicitly.
	OutcomeFailed
)

// Outcome carries the verdict plus the diagnostics the HTTP layer exposes.
type Outcome struct {
	Kind       OutcomeKind
	Reason     string
	Remaining  int
	RetryAfter time.Duration
	Reset      time.Time
}

// Matches local-part @ domain-with-dot, the same check the frontend runs.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactService decides whether a submission triggers a notification
// email. Checks run in a fixed order and short-circuit: rate limit,
// honeypot, validation, dispatch.
type ContactService struct {
	limiter       limiter.Limiter
	mailer        mailer.Mailer
	notifications *NotificationService
	recipient     string
}

// NewContactService wires the guard with its two external collaborators
// and the operator notification sink.
func NewContactService(l limiter.Limiter, m mailer.Mailer, n *NotificationService, recipient string) *ContactService {
	return &ContactService{limiter: l, mailer: m, notifications: n, recipient: recipient}
}

// Process runs the submission pipeline for a request attributed to
// clientKey. It mutates nothing locally; the only side effects are the
// limiter query and, on full success, one mail-send call.
func (s *ContactService) Process(ctx context.Context, req ContactRequest, clientKey string) Outcome {
	metrics.IncContactSubmission()

	res, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		logger.Log().WithError(err).Error("rate limiter unavailable")
		return Outcome{Kind: OutcomeFailed}
	}

	if !res.Allowed {
		retryAfter := time.Until(res.Reset)
		if retryAfter < 0 {
			retryAfter = 0
		}

		logger.WithFields(map[string]interface{}{"client": clientKey}).
			Warn("contact submission rate limited")
		metrics.IncContactRateLimited()
		s.notifications.Notify(models.NotificationTypeWarning,
			"Contact form rate limit hit",
			fmt.Sprintf("Client %s exceeded the submission quota.", clientKey))

		return Outcome{
			Kind:       OutcomeRateLimited,
			Remaining:  0,
			RetryAfter: retryAfter,
			Reset:      res.Reset,
		}
	}

	if strings.TrimSpace(req.Website) != "" {
		// Answer with a disguised success so the bot learns nothing.
		logger.WithFields(map[string]interface{}{"client": clientKey}).
			Warn("contact honeypot triggered")
		metrics.IncContactHoneypot()
		s.notifications.Notify(models.NotificationTypeWarning,
			"Contact form honeypot triggered",
			fmt.Sprintf("Automated submission detected from %s.", clientKey))

		return Outcome{Kind: OutcomeHoneypot, Remaining: res.Remaining}
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Company) == "" ||
		strings.TrimSpace(req.Message) == "" {
		return Outcome{Kind: OutcomeInvalid, Reason: "All fields are required."}
	}

	if !emailPattern.MatchString(req.Email) {
		return Outcome{Kind: OutcomeInvalid, Reason: "Please provide a valid email address."}
	}

	msg, err := buildContactEmail(req, s.recipient)
	if err != nil {
		logger.Log().WithError(err).Error("failed to render contact email")
		return Outcome{Kind: OutcomeFailed}
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Log().WithError(err).Error("failed to send contact email")
		s.notifications.Notify(models.NotificationTypeError,
			"Contact email dispatch failed",
			fmt.Sprintf("Mail relay rejected a submission from %s: %v", util.SanitizeForLog(req.Email), err))
		return Outcome{Kind: OutcomeFailed}
	}

	logger.WithFields(map[string]interface{}{
		"email":   util.SanitizeForLog(req.Email),
		"company": util.SanitizeForLog(req.Company),
	}).Info("contact email sent")
	metrics.IncContactDelivered()

	return Outcome{Kind: OutcomeAccepted, Remaining: res.Remaining}
}
