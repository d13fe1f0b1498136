package platform

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookDelivery_Send(t *testing.T) {
	var received Artifact
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewWebhookDelivery(nopLogger{})
	require.NoError(t, d.Send(srv.URL, &Artifact{Text: "leaderboard"}))
	assert.Equal(t, "leaderboard", received.Text)
}

func TestWebhookDelivery_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewWebhookDelivery(nopLogger{})
	err := d.Send(srv.URL, &Artifact{Text: "leaderboard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookDelivery_ConnectionRefused(t *testing.T) {
	d := NewWebhookDelivery(nopLogger{})
	assert.Error(t, d.Send("http://127.0.0.1:1/unreachable", &Artifact{Text: "x"}))
}
