package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadNoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Storage.Path)
	assert.Empty(t, cfg.LLM.Model)
}

func TestLoadGlobalOnly(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "zenith", "config.toml"), `
[storage]
path = "/data/zenith.db"

[llm]
model = "gpt-4o"
max-tokens = 2048
`)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/data/zenith.db", cfg.Storage.Path)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "zenith", "config.toml"), `
[llm]
base-url = "https://global.example/v1/chat/completions"
model = "gpt-4o"
temperature = 0.2
`)

	project := t.TempDir()
	writeFile(t, filepath.Join(project, "zenith.toml"), `
[llm]
model = "local-model"
`)

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "local-model", cfg.LLM.Model)
	// Values the project file does not define fall through to global.
	assert.Equal(t, "https://global.example/v1/chat/completions", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
}

func TestLoadBadTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "zenith.toml"), "[llm\nmodel=")

	_, err := Load(project)
	assert.Error(t, err)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "  sk-env  ")
	assert.Equal(t, "sk-env", APIKey())

	t.Setenv(EnvAPIKey, "")
	assert.Empty(t, APIKey())
}
