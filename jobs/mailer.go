package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atlas-lms/atlas-lms/internal/jobs"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers mail through a plain SMTP relay (Mailpit in dev).
type SMTPSender struct {
	Host string
	Port int
	From string
}

// Send composes and submits the message. Relay errors surface to the
// caller so Asynq can retry the task.
func (s SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	msg := []byte("From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n")
	return smtp.SendMail(addr, nil, s.From, []string{to}, msg)
}

// LogSender logs instead of delivering. Used when no relay is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, to, subject, _ string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail suppressed, no relay configured",
		slog.String("to", to),
		slog.String("subject", subject))
	return nil
}

// Processor handles email tasks on the worker side.
type Processor struct {
	sender  Sender
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewProcessor constructs a Processor. A nil sender falls back to LogSender.
func NewProcessor(sender Sender, logger *slog.Logger) *Processor {
	if sender == nil {
		sender = LogSender{Logger: logger}
	}
	return &Processor{sender: sender, logger: logger, metrics: jobmetrics.NewMetrics(nil)}
}

// HandleWelcomeEmail processes TaskTypeWelcomeEmail tasks.
func (p *Processor) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	tracker := p.metrics.Track(TaskTypeWelcomeEmail)
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	subject := "Welcome to Atlas LMS"
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Sign in to get started.\n", payload.Name)
	if err := p.sender.Send(ctx, payload.To, subject, body); err != nil {
		p.log().Warn("welcome email delivery failed", slog.Any("error", err))
		return tracker.End(err)
	}
	p.log().Info("welcome email delivered", slog.String("to", payload.To))
	return tracker.End(nil)
}

// HandlePasswordResetEmail processes TaskTypePasswordResetEmail tasks.
func (p *Processor) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	tracker := p.metrics.Track(TaskTypePasswordResetEmail)
	var payload PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	subject := "Password reset requested"
	body := "A password reset was requested for this address. If this wasn't you, you can ignore this message.\n"
	if err := p.sender.Send(ctx, payload.To, subject, body); err != nil {
		p.log().Warn("password reset email delivery failed", slog.Any("error", err))
		return tracker.End(err)
	}
	p.log().Info("password reset email delivered", slog.String("to", payload.To))
	return tracker.End(nil)
}

func (p *Processor) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
