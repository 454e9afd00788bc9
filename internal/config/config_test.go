package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		Port:              "8480",
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		DBPassword:        "s3cr3t-db-password",
		DBSSLMode:         "require",
		RazorpayKeySecret: "rzp_test_secret",
		Env:               "development",
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		cfg := baseConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Port = ""
		assert.ErrorContains(t, cfg.Validate(), "PORT is required")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.JWTSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET is required")
	})

	t.Run("production rejects default jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.ErrorContains(t, cfg.Validate(), "must be changed from the default")
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
	})

	t.Run("production rejects weak db password", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBPassword = "password"
		assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")
	})

	t.Run("production requires gateway secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.RazorpayKeySecret = ""
		assert.ErrorContains(t, cfg.Validate(), "RAZORPAY_KEY_SECRET")
	})

	t.Run("short jwt secret allowed outside production", func(t *testing.T) {
		cfg := baseConfig()
		cfg.JWTSecret = "short-but-ok-in-dev"
		assert.NoError(t, cfg.Validate())
	})
}
