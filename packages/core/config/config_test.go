package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.GetDelay())
	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.Equal(t, "console", cfg.Output)
	assert.True(t, cfg.IsDefault())
}

func TestGettersOnZeroConfig(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultDelay, cfg.GetDelay())
	assert.Equal(t, DefaultTimeout, cfg.GetTimeout())
	assert.True(t, cfg.GetFollowRedirects())
	assert.False(t, cfg.GetVerbose())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("dot file", func(t *testing.T) {
		dir := t.TempDir()
		content := `apiUrl: http://localhost:3000
delay: 0s
timeout: 5s
rateLimit: 10
validateSSL: false
maxRedirects: 3
headers:
  X-Api-Key: secret
catalog: steps.yaml
output: json
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".crudspec.yaml"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", cfg.APIURL)
		assert.Equal(t, time.Duration(0), cfg.GetDelay())
		assert.Equal(t, 5*time.Second, cfg.GetTimeout())
		assert.Equal(t, 10.0, cfg.RateLimit)
		assert.False(t, cfg.GetValidateSSL())
		assert.True(t, cfg.GetFollowRedirects())
		assert.Equal(t, 3, cfg.MaxRedirects)
		assert.Equal(t, "secret", cfg.Headers["X-Api-Key"])
		assert.Equal(t, filepath.Join(dir, "steps.yaml"), cfg.Catalog)
		assert.Equal(t, "json", cfg.Output)
		assert.False(t, cfg.IsDefault())
	})

	t.Run("plain file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "crudspec.yaml"), []byte("apiUrl: http://api\n"), 0644))

		assert.Equal(t, filepath.Join(dir, "crudspec.yaml"), Find(dir))
		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://api", cfg.APIURL)
	})

	t.Run("dot file wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".crudspec.yaml"), []byte("apiUrl: http://dot\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "crudspec.yaml"), []byte("apiUrl: http://plain\n"), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://dot", cfg.APIURL)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "crudspec.yaml"), []byte("delay: [\n"), 0644))

		_, err := FindAndLoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.APIURL = "http://file"
	base.Headers = map[string]string{"A": "1", "B": "2"}

	merged := base.Merge(&Config{
		APIURL:       "http://flag",
		Delay:        DurationPtr(0),
		ValidateSSL:  BoolPtr(false),
		MaxRedirects: 2,
		Headers:      map[string]string{"B": "3"},
	})

	assert.Equal(t, "http://flag", merged.APIURL)
	assert.Equal(t, time.Duration(0), merged.GetDelay())
	assert.Equal(t, DefaultTimeout, merged.GetTimeout())
	assert.False(t, merged.GetValidateSSL())
	assert.Equal(t, 2, merged.MaxRedirects)
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.Headers)

	// the receiver is left untouched
	assert.Equal(t, "http://file", base.APIURL)
	assert.Equal(t, "2", base.Headers["B"])
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crudspec.yaml")

	cfg := DefaultConfig()
	cfg.APIURL = "http://localhost:8080"
	cfg.Delay = DurationPtr(250 * time.Millisecond)
	require.NoError(t, cfg.SaveConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "delay: 250ms")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", loaded.APIURL)
	assert.Equal(t, 250*time.Millisecond, loaded.GetDelay())
}
