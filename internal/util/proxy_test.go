package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProxyEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "NO_PROXY", "no_proxy", "REQUEST_METHOD"} {
		t.Setenv(key, "")
	}
}

func TestNewProxyFunc_ExplicitHTTPS(t *testing.T) {
	clearProxyEnv(t)
	proxy := NewProxyFunc("", "http://proxy.internal:3128", "")

	req, err := http.NewRequest(http.MethodGet, "https://maps.googleapis.com/maps/api/place/textsearch/json", nil)
	require.NoError(t, err)

	u, err := proxy(req)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "proxy.internal:3128", u.Host)
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	clearProxyEnv(t)
	proxy := NewProxyFunc("http://proxy.internal:3128", "http://proxy.internal:3128", "googleapis.com")

	req, err := http.NewRequest(http.MethodGet, "https://maps.googleapis.com/search", nil)
	require.NoError(t, err)

	u, err := proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewProxyFunc_NoneConfigured(t *testing.T) {
	clearProxyEnv(t)
	proxy := NewProxyFunc("", "", "")

	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)

	u, err := proxy(req)
	require.NoError(t, err)
	assert.Nil(t, u)
}
