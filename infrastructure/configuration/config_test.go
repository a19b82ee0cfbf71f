package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	content := "# comment line\nFOO_FROM_FILE=bar\nQUOTED_VALUE=\"quoted\"\nALREADY_SET=from-file\n\nNOEQUALS\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("ALREADY_SET", "from-env")
	t.Cleanup(func() {
		os.Unsetenv("FOO_FROM_FILE")
		os.Unsetenv("QUOTED_VALUE")
	})

	LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "bar", os.Getenv("FOO_FROM_FILE"))
	assert.Equal(t, "quoted", os.Getenv("QUOTED_VALUE"))
	// OS environment wins over file values
	assert.Equal(t, "from-env", os.Getenv("ALREADY_SET"))
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("SOME_ENV_KEY", "from-env")

	assert.Equal(t, "from-config", getConfigValue("from-config", "SOME_ENV_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "SOME_ENV_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "UNSET_ENV_KEY", "fallback"))
}

func TestOAuthClientConfigured(t *testing.T) {
	assert.False(t, OAuthClient{}.Configured())
	assert.False(t, OAuthClient{ClientID: "id", ClientSecret: "secret"}.Configured())
	assert.True(t, OAuthClient{ClientID: "id", ClientSecret: "secret", RedirectURI: "https://localhost/cb"}.Configured())
}

func TestHTTPSHelpers(t *testing.T) {
	assert.True(t, hasHTTPS("https://localhost:10001/auth/youtube/callback"))
	assert.False(t, hasHTTPS("http://localhost:10001/auth/youtube/callback"))
}
