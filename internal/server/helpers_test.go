package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path, prefix, want string
	}{
		{"/api/series/AAPL", "/api/series/", "AAPL"},
		{"/api/baselines/HEIA.AS/2024", "/api/baselines/", "HEIA.AS"},
		{"/api/history/MSFT/extra", "/api/history/", "MSFT"},
		{"/api/other/AAPL", "/api/series/", ""},
		{"/api/series/", "/api/series/", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		assert.Equal(t, tt.want, PathParam(r, tt.prefix), tt.path)
	}
}

func TestPathSegments(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/baselines/VOD.L/2025/", nil)
	assert.Equal(t, []string{"VOD.L", "2025"}, PathSegments(r, "/api/baselines/"))

	r = httptest.NewRequest(http.MethodGet, "/api/baselines/", nil)
	assert.Nil(t, PathSegments(r, "/api/baselines/"))
}

func TestRequireMethod(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/snapshot", nil)

	assert.False(t, RequireMethod(rr, r, http.MethodGet, http.MethodHead))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD", rr.Header().Get("Allow"))

	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	assert.True(t, RequireMethod(rr, r, http.MethodGet))
}

func TestDecodeJSON(t *testing.T) {
	var dest struct {
		Symbol string `json:"symbol"`
	}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/baselines", strings.NewReader(`{"symbol":"AAPL"}`))
	assert.True(t, DecodeJSON(rr, r, &dest))
	assert.Equal(t, "AAPL", dest.Symbol)

	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/baselines", strings.NewReader(`{"symbol":`))
	assert.False(t, DecodeJSON(rr, r, &dest))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid JSON")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "abcd****", maskSecret("abcdefgh"))
}
