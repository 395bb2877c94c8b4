package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_ViewRoutesServeIndex(t *testing.T) {
	h, err := Handler()
	require.NoError(t, err)

	for _, path := range []string{"/", "/dashboard", "/report"} {
		t.Run(path, func(t *testing.T) {
			w := get(t, h, path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Citizen Grievance Portal")
			assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHandler_UnknownPathIs404(t *testing.T) {
	h, err := Handler()
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing.js").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/settings").Code)
}

func TestDistFS(t *testing.T) {
	sub, err := DistFS()
	require.NoError(t, err)

	f, err := sub.Open("index.html")
	require.NoError(t, err)
	_ = f.Close()
}
