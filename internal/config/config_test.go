package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBPath != "./data/medledger.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if cfg.BackupDir != "./backups" {
		t.Errorf("BackupDir = %q, want default", cfg.BackupDir)
	}
	if cfg.ExportDir != "./exports" {
		t.Errorf("ExportDir = %q, want default", cfg.ExportDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MEDLEDGER_DB_PATH", "/tmp/other.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want /tmp/other.db", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tmp := t.TempDir()

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name: "valid",
			cfg: &Config{
				DBPath:    filepath.Join(tmp, "data", "medledger.db"),
				BackupDir: filepath.Join(tmp, "backups"),
				ExportDir: filepath.Join(tmp, "exports"),
				LogLevel:  "info",
			},
		},
		{
			name: "empty db path",
			cfg: &Config{
				BackupDir: "./backups",
				ExportDir: "./exports",
				LogLevel:  "info",
			},
			wantErr: "database path cannot be empty",
		},
		{
			name: "empty backup dir",
			cfg: &Config{
				DBPath:    filepath.Join(tmp, "medledger.db"),
				ExportDir: "./exports",
				LogLevel:  "info",
			},
			wantErr: "backup directory cannot be empty",
		},
		{
			name: "bad log level",
			cfg: &Config{
				DBPath:    filepath.Join(tmp, "medledger.db"),
				BackupDir: "./backups",
				ExportDir: "./exports",
				LogLevel:  "verbose",
			},
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
