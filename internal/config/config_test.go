package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // levels are case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, filepath.Join("/some/path", "db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/some/path", "files"), cfg.FilesPath())
}

func TestExpandPath_Tilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/exlibris", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "exlibris"), expanded)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment line\nTEST_EXLIBRIS_KEY=from-file\nQUOTED_KEY=\"quoted value\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("TEST_EXLIBRIS_KEY", "")
	os.Unsetenv("TEST_EXLIBRIS_KEY")
	t.Setenv("QUOTED_KEY", "")
	os.Unsetenv("QUOTED_KEY")

	err := loadEnvFile(envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-file", os.Getenv("TEST_EXLIBRIS_KEY"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED_KEY"))
}

func TestLoadEnvFile_EnvVarTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRESET_KEY=from-file\n"), 0o600))

	t.Setenv("PRESET_KEY", "from-env")

	err := loadEnvFile(envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", os.Getenv("PRESET_KEY"))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("PRECEDENCE_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "PRECEDENCE_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "PRECEDENCE_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "MISSING_PRECEDENCE_KEY", "default"))
}
