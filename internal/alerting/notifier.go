package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	mail "github.com/wneessen/go-mail"

	"pricepipe/internal/config"
)

const (
	alertSubject = "Crypto price pipeline failure"
	smtpTimeout  = 30 * time.Second
)

// Event carries the context of a failed run to the notifier. It lives only
// for the duration of the dispatch.
type Event struct {
	Stage string
	Err   error
	Trace string
}

// Notifier delivers failure notifications.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// EmailNotifier sends failure alerts over SMTP.
type EmailNotifier struct {
	cfg    config.EmailConfig
	logger zerolog.Logger
	send   func(ctx context.Context, cfg config.EmailConfig, subject, body string) error
}

// NewEmailNotifier constructs an SMTP notifier from email settings.
func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger.With().Str("component", "alert_email").Logger(),
		send:   sendMail,
	}
}

// Notify composes and sends the failure message. When routing settings are
// incomplete it logs a warning naming the missing fields and returns nil;
// partial configuration must not turn into a second failure.
func (n *EmailNotifier) Notify(ctx context.Context, event Event) error {
	if missing := n.missingSettings(); len(missing) > 0 {
		n.logger.Warn().
			Strs("missing", missing).
			Msg("cannot send failure alert; email settings incomplete")
		return nil
	}

	body := renderMessage(event)
	if err := n.send(ctx, n.cfg, alertSubject, body); err != nil {
		return fmt.Errorf("send failure alert: %w", err)
	}

	n.logger.Info().
		Str("stage", event.Stage).
		Str("recipients", strings.Join(n.cfg.Recipients, ",")).
		Msg("failure alert sent")
	return nil
}

func (n *EmailNotifier) missingSettings() []string {
	var missing []string
	if n.cfg.Sender == "" {
		missing = append(missing, "email.sender")
	}
	if len(n.cfg.Recipients) == 0 {
		missing = append(missing, "email.recipients")
	}
	if n.cfg.SMTPHost == "" {
		missing = append(missing, "email.smtp_host")
	}
	return missing
}

func renderMessage(event Event) string {
	builder := strings.Builder{}
	builder.WriteString("The crypto price pipeline failed.\n\n")
	builder.WriteString(fmt.Sprintf("Stage: %s\n", event.Stage))
	builder.WriteString(fmt.Sprintf("Error: %v\n\n", event.Err))
	builder.WriteString("Trace:\n")
	builder.WriteString(event.Trace)
	builder.WriteString("\n")
	return builder.String()
}

func sendMail(ctx context.Context, cfg config.EmailConfig, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(cfg.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(cfg.Recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(smtpTimeout),
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}

var _ Notifier = (*EmailNotifier)(nil)
