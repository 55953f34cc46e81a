package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8084", cfg.RunAddress)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "50", cfg.RateRegularKg.String())
	assert.Equal(t, "100", cfg.RateBlanketsKg.String())
	assert.Equal(t, "40", cfg.RateWhitePiece.String())
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.IssueReceipts)
	assert.Equal(t, ReceiptStrategyCounter, cfg.ReceiptStrategy)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_REGULAR_KG", "55.5")
	t.Setenv("ISSUE_RECEIPTS", "true")
	t.Setenv("STORAGE_DRIVER", "mysql")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "55.5", cfg.RateRegularKg.String())
	assert.True(t, cfg.IssueReceipts)
	assert.Equal(t, DriverMySQL, cfg.StorageDriver)
}

func TestLoadConfig_InvalidRate(t *testing.T) {
	t.Setenv("RATE_BLANKETS_KG", "lots")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"defaults", func(cfg *Config) {}, false},
		{"unknown driver", func(cfg *Config) { cfg.StorageDriver = "sqlite" }, true},
		{"unknown strategy", func(cfg *Config) { cfg.ReceiptStrategy = "random" }, true},
		{"zero attempts", func(cfg *Config) { cfg.ReceiptAttempts = 0 }, true},
		{"negative rate", func(cfg *Config) { cfg.RateWhitePiece = cfg.RateWhitePiece.Neg() }, true},
		{"operator without key", func(cfg *Config) { cfg.OperatorHash = "$2a$10$hash"; cfg.SecretKey = "" }, true},
		{"operator with key", func(cfg *Config) { cfg.OperatorHash = "$2a$10$hash"; cfg.SecretKey = "k" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ParseFlagSet(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	err = cfg.ParseFlagSet(fs, []string{"-a", ":9090", "-s", "mysql", "-d", "user:pass@tcp(localhost:3306)/wash", "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.RunAddress)
	assert.Equal(t, DriverMySQL, cfg.StorageDriver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/wash", cfg.DatabaseURI)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, fs.Args())
}
