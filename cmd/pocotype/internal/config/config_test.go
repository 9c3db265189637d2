package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
packages   = ["./models"]
roots      = ["IOrder"]
exclude    = ["Audit"]
max_errors = 5
out        = "build/types"
formats    = ["msgpack"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, []string{"./models"}, cfg.Packages)
	assert.Equal(t, []string{"IOrder"}, cfg.Roots)
	assert.Equal(t, []string{"Audit"}, cfg.Exclude)
	assert.Equal(t, 5, cfg.MaxErrors)
	assert.Equal(t, filepath.Join(dir, "build", "types"), cfg.Out)
	assert.Equal(t, []string{"msgpack"}, cfg.Formats)
	assert.Equal(t, dir, cfg.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Packages)
	assert.Empty(t, cfg.Dir)

	_, err = Load("elsewhere.toml")
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `packages = [`, "parse"},
		{"unknown key", "packages = [\"./a\"]\nroot = [\"X\"]\n", "unknown keys root"},
		{"wrong type", `max_errors = "ten"`, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg := &Config{Packages: []string{"./models"}, Roots: []string{"A"}, MaxErrors: 3, Dir: "/project"}

	cfg.Apply(Overrides{MaxErrors: -1})
	assert.Equal(t, []string{"./models"}, cfg.Packages)
	assert.Equal(t, "/project", cfg.Dir)
	assert.Equal(t, 3, cfg.MaxErrors)

	cfg.Apply(Overrides{Packages: []string{"./other"}, Exclude: []string{"B"}, MaxErrors: 0})
	assert.Equal(t, []string{"./other"}, cfg.Packages)
	assert.Equal(t, []string{"A"}, cfg.Roots)
	assert.Equal(t, []string{"B"}, cfg.Exclude)
	assert.Equal(t, 0, cfg.MaxErrors)
	assert.Empty(t, cfg.Dir)
}

func TestConfig_Validate(t *testing.T) {
	err := (&Config{}).Validate()
	require.ErrorIs(t, err, errors.ErrInvalidConfig)
	assert.Contains(t, errors.HintText(err), DefaultFile)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty pattern", Config{Packages: []string{""}}},
		{"empty root", Config{Packages: []string{"./a"}, Roots: []string{""}}},
		{"negative max errors", Config{Packages: []string{"./a"}, MaxErrors: -2}},
		{"unknown format", Config{Packages: []string{"./a"}, Formats: []string{"yaml"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), errors.ErrInvalidConfig)
		})
	}
}

func TestFlags_Logger(t *testing.T) {
	var buf bytes.Buffer
	quiet := (&Flags{}).Logger(&buf)
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	verbose := (&Flags{Verbose: true}).Logger(&buf)
	verbose.Debug("shown", "k", 1)
	assert.Contains(t, buf.String(), "msg=shown")
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
}
