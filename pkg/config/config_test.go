package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
log_level: DEBUG
openfiles:
  api_key: oa_file1234567890abcdef1234567890abcdef
  base_url: http://localhost:8080
  base_path: projects/demo
  timeout: 45
openai:
  api_key: sk-from-file
  model: gpt-4o
server:
  addr: ":9090"
  api_key: oa_server234567890abcdef1234567890abcdef
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "oa_file1234567890abcdef1234567890abcdef", cfg.OpenFiles.APIKey)
	assert.Equal(t, "http://localhost:8080", cfg.OpenFiles.BaseURL)
	assert.Equal(t, "projects/demo", cfg.OpenFiles.BasePath)
	assert.Equal(t, 45*time.Second, cfg.OpenFiles.TimeoutDuration())
	assert.Equal(t, "sk-from-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
openfiles:
  api_key: oa_file1234567890abcdef1234567890abcdef
  base_path: from-file
`)
	t.Setenv("OPENFILES_API_KEY", "oa_envv1234567890abcdef1234567890abcdef")
	t.Setenv("OPENFILES_BASE_PATH", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "oa_envv1234567890abcdef1234567890abcdef", cfg.OpenFiles.APIKey)
	assert.Equal(t, "from-env", cfg.OpenFiles.BasePath)
}

func TestUnprefixedProviderKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-plain")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-plain")

	cfg, err := Load(writeConfigFile(t, "log_level: INFO\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-plain", cfg.OpenAI.APIKey)
	assert.Equal(t, "sk-ant-plain", cfg.Anthropic.APIKey)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Zero(t, cfg.OpenFiles.TimeoutDuration())
}

func TestMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMalformedYAMLFails(t *testing.T) {
	_, err := Load(writeConfigFile(t, "openfiles: [not a mapping\n"))
	require.Error(t, err)
}
