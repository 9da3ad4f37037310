package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BILLING_TIMEZONE", "")
	t.Setenv("STORE_TIMEOUT", "not-a-duration")
	t.Setenv("RAZORPAY_CURRENCY", "INR")

	cfg := Load()

	assert.Equal(t, "", cfg.Billing.Timezone)
	assert.Equal(t, 5*time.Second, cfg.Billing.StoreTimeout)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("BODY_LIMIT_BYTES", "2048")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("ALERT_EMAIL", "ops@example.com")

	cfg := Load()

	assert.Equal(t, 2*time.Second, cfg.Billing.UpstreamTimeout)
	assert.Equal(t, 2048, cfg.App.BodyLimit)
	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.SMTP.Enabled())
}

func TestParseStoreDriver(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"postgres", StoreDriverPostgres, false},
		{"memory", StoreDriverMemory, false},
		{" Postgres ", StoreDriverPostgres, false},
		{"MEMORY", StoreDriverMemory, false},
		{"pg", "", true},
		{"postgresql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseStoreDriver(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNormalizesStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")

	cfg := Load()

	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
}
