package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponder_SendAttachment(t *testing.T) {
	var got Message
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	responder := NewResponder(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	att := MenuAttachment("Pick one", "kenpo_category", "service_category", nil)

	err := responder.SendAttachment(context.Background(), srv.URL, "Welcome", att)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Welcome", got.Text)
	assert.Equal(t, "in_channel", got.ResponseType)
	assert.True(t, got.ReplaceOriginal)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "kenpo_category", got.Attachments[0].CallbackID)
}

func TestResponder_SendMessage_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	responder := NewResponder(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := responder.SendMessage(context.Background(), srv.URL, "hello")
	assert.Error(t, err)
}
