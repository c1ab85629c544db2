package alerting

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pricepipe/internal/config"
)

func completeEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		Enabled:    true,
		Sender:     "pipeline@example.com",
		Recipients: []string{"ops@example.com"},
		SMTPHost:   "smtp.example.com",
		SMTPPort:   587,
		UseTLS:     true,
	}
}

func testEvent() Event {
	return Event{Stage: "fetch", Err: errors.New("boom"), Trace: "goroutine 1 [running]"}
}

func TestNotifySendsWhenConfigured(t *testing.T) {
	notifier := NewEmailNotifier(completeEmailConfig(), zerolog.Nop())

	var sentSubject, sentBody string
	notifier.send = func(ctx context.Context, cfg config.EmailConfig, subject, body string) error {
		sentSubject = subject
		sentBody = body
		return nil
	}

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("configured notifier should send: %v", err)
	}
	if sentSubject == "" {
		t.Fatal("subject should be set")
	}
	if !strings.Contains(sentBody, "boom") || !strings.Contains(sentBody, "goroutine 1") {
		t.Fatalf("body should contain error and trace, got %q", sentBody)
	}
}

func TestNotifyMissingSettingsWarnsAndReturnsNil(t *testing.T) {
	cfg := completeEmailConfig()
	cfg.Recipients = nil

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	notifier := NewEmailNotifier(cfg, logger)

	sent := false
	notifier.send = func(ctx context.Context, cfg config.EmailConfig, subject, body string) error {
		sent = true
		return nil
	}

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("incomplete settings must not error: %v", err)
	}
	if sent {
		t.Fatal("no message should be sent with incomplete settings")
	}
	if !strings.Contains(buf.String(), "email.recipients") {
		t.Fatalf("warning should name the missing field, got %q", buf.String())
	}
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	notifier := NewEmailNotifier(completeEmailConfig(), zerolog.Nop())
	notifier.send = func(ctx context.Context, cfg config.EmailConfig, subject, body string) error {
		return errors.New("connection refused")
	}

	if err := notifier.Notify(context.Background(), testEvent()); err == nil {
		t.Fatal("send failure should surface to the caller for logging")
	}
}

func TestRenderMessage(t *testing.T) {
	body := renderMessage(testEvent())
	for _, want := range []string{"Stage: fetch", "Error: boom", "Trace:"} {
		if !strings.Contains(body, want) {
			t.Fatalf("message should contain %q, got %q", want, body)
		}
	}
}
