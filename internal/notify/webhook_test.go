package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookRequestApproval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/approvals", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bash", req.ToolName)

		json.NewEncoder(w).Encode(Response{Decision: "allow", Message: "go ahead"})
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	resp, err := wh.RequestApproval(context.Background(), Request{
		ID:       "req-1",
		ToolName: "Bash",
		Summary:  "Command: ls",
	})
	require.NoError(t, err)
	assert.Equal(t, "allow", resp.Decision)
	assert.Equal(t, "go ahead", resp.Message)
}

func TestWebhookRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Response{Decision: "deny"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wh := NewWebhook(srv.URL)
	resp, err := wh.RequestApproval(ctx, Request{ID: "req-2"})
	require.NoError(t, err)
	assert.Equal(t, "deny", resp.Decision)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestWebhookUnknownDecisionIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(Response{Decision: "maybe"})
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	_, err := wh.RequestApproval(context.Background(), Request{ID: "req-3"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "bad decisions should not be retried")
}

func TestWebhookApprovalHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	wh := NewWebhook(srv.URL)
	_, err := wh.RequestApproval(ctx, Request{ID: "req-4"})
	require.Error(t, err)
}

func TestWebhookSendNotification(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notifications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	err := wh.SendNotification(context.Background(), Notification{
		SessionID: "s1",
		Kind:      "session_start",
		Text:      "session started",
	})
	require.NoError(t, err)
	assert.Equal(t, "session_start", got.Kind)
}

func TestAutoApprove(t *testing.T) {
	resp, err := AutoApprove{}.RequestApproval(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "allow", resp.Decision)
	require.NoError(t, AutoApprove{}.SendNotification(context.Background(), Notification{}))
}
