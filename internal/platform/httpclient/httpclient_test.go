package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		assert.Equal(t, "/v1/pets/rex", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rex"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/v1/", time.Second, WithHeader("X-API-Key", "secret"))
	require.NoError(t, err)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "pets/rex", &out))
	assert.Equal(t, "rex", out.ID)
}

func TestClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/pets/x", nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "nope")
}

func TestClient_RelativePathNeedsBaseURL(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)
	assert.Error(t, c.GetJSON(context.Background(), "/pets/x", nil))

	_, err = New("::bad", 0)
	assert.Error(t, err)
}
