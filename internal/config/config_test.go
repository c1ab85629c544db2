package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PRICEPIPE_API_URL", "https://api.coinbase.com/v2/prices/BTC-USD/spot")
}

func TestLoadRequiresAPIURL(t *testing.T) {
	t.Setenv("PRICEPIPE_API_URL", "")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "api.url")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "crypto_prices.db", cfg.Database.Path)
	require.Equal(t, "crypto_prices.csv", cfg.CSV.Path)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "pipeline.log", cfg.Logging.File)
	require.Equal(t, 1, cfg.Logging.MaxSizeMB)
	require.Equal(t, 3, cfg.Logging.MaxBackups)
	require.False(t, cfg.Email.Enabled)
	require.Equal(t, 587, cfg.Email.SMTPPort)
	require.True(t, cfg.Email.UseTLS)
	require.Empty(t, cfg.Email.Recipients)
	require.Equal(t, "*/15 * * * *", cfg.Schedule.Spec)
	require.Equal(t, 2, cfg.Schedule.MaxRetries)
}

func TestLoadTruthyBooleans(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"YES":   true,
		"On":    true,
		"0":     false,
		"false": false,
		"off":   false,
		"nope":  false,
	}

	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("PRICEPIPE_EMAIL_ENABLED", raw)

			cfg, err := Load("")
			require.NoError(t, err)
			require.Equal(t, want, cfg.Email.Enabled)
		})
	}
}

func TestLoadSMTPPortFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRICEPIPE_EMAIL_SMTP_PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadSMTPPortExplicit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRICEPIPE_EMAIL_SMTP_PORT", "2525")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 2525, cfg.Email.SMTPPort)
}

func TestLoadRecipientsTrimmed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRICEPIPE_EMAIL_RECIPIENTS", " ops@example.com , ,data@example.com ")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"ops@example.com", "data@example.com"}, cfg.Email.Recipients)
}

func TestLoadToleratesMalformedEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("not a dotenv line\n"), 0o644))
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.coinbase.com/v2/prices/BTC-USD/spot", cfg.API.URL)
}

func TestLoadTrimsAPIURL(t *testing.T) {
	t.Setenv("PRICEPIPE_API_URL", "  https://example.com/spot  ")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/spot", cfg.API.URL)
}
