package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  path: "test.db"
invoice:
  tax_rate: 0.20
  due_in_days: 14
export:
  institution: "Test Institute"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, 0.20, cfg.Invoice.TaxRate)
	assert.Equal(t, 14, cfg.Invoice.DueInDays)
	assert.Equal(t, "Test Institute", cfg.Export.Institution)

	// Defaults fill everything the file leaves out
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, int64(5), cfg.Upload.MaxSizeMB)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Path: "claims.db"},
			Invoice:  InvoiceConfig{TaxRate: 0.15, DueInDays: 30},
			Upload:   UploadConfig{MaxSizeMB: 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero tax rate is allowed", func(c *Config) { c.Invoice.TaxRate = 0 }, ""},
		{"negative tax rate", func(c *Config) { c.Invoice.TaxRate = -0.1 }, "tax_rate"},
		{"tax rate of one", func(c *Config) { c.Invoice.TaxRate = 1.0 }, "tax_rate"},
		{"zero due days", func(c *Config) { c.Invoice.DueInDays = 0 }, "due_in_days"},
		{"zero upload limit", func(c *Config) { c.Upload.MaxSizeMB = 0 }, "max_size_mb"},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
