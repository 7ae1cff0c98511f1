// Package server exposes the bot's HTTP surface: the interactive
// webhook, the chat events endpoint and the operational probes.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kenpo-reserve/kenpo-bot/internal/dispatch"
	"github.com/kenpo-reserve/kenpo-bot/internal/health"
	"github.com/kenpo-reserve/kenpo-bot/internal/i18n"
	"github.com/kenpo-reserve/kenpo-bot/internal/ratelimit"
	"github.com/kenpo-reserve/kenpo-bot/internal/slack"
	"github.com/kenpo-reserve/kenpo-bot/pkg/logger"
)

// actionTimeout bounds the asynchronous turn that runs after the
// webhook has already been acknowledged.
const actionTimeout = 30 * time.Second

// Server routes inbound HTTP traffic to the dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	messenger  slack.Messenger
	checker    *health.Checker
	limiter    ratelimit.Limiter
	t          i18n.Translator
	log        *slog.Logger
}

// New wires the HTTP layer. A nil limiter disables rate limiting.
func New(
	dispatcher *dispatch.Dispatcher,
	messenger slack.Messenger,
	checker *health.Checker,
	limiter ratelimit.Limiter,
	t i18n.Translator,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		dispatcher: dispatcher,
		messenger:  messenger,
		checker:    checker,
		limiter:    limiter,
		t:          t,
		log:        log,
	}
}

// Handler builds the full route table with correlation and request
// logging applied to every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/actions", s.handleActions)
	mux.HandleFunc("POST /slack/events", s.handleEvents)
	mux.HandleFunc("GET /healthz", s.handleLiveness)
	mux.HandleFunc("GET /readyz", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	return logger.Middleware(s.logRequests(mux))
}

// handleActions acknowledges the interactive callback immediately and
// posts the outcome to the payload's response URL afterwards.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	payload, err := slack.ParsePayload([]byte(r.FormValue("payload")))
	if err != nil {
		s.log.Warn("rejected interactive payload", slog.Any("error", err))
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	w.WriteHeader(http.StatusOK)

	if !s.allow(r.Context(), payload.UserID) {
		go s.deliver(ctx, payload.ResponseURL, &slack.Message{Text: s.t.T("error.rate_limited")})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()

		msg := s.dispatcher.HandleAction(ctx, payload)
		s.deliver(ctx, payload.ResponseURL, msg)
	}()
}

type inboundEvent struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// handleEvents runs one chat-message turn and returns the reply in the
// response body.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var event inboundEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.UserID == "" {
		http.Error(w, "bad event", http.StatusBadRequest)
		return
	}

	if !s.allow(r.Context(), event.UserID) {
		writeJSON(w, http.StatusTooManyRequests, &slack.Message{Text: s.t.T("error.rate_limited")})
		return
	}

	msg := s.dispatcher.HandleMessage(r.Context(), event.UserID, event.Text)
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if err := s.checker.Liveness(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if err := s.checker.Readiness(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// allow consults the limiter and fails open on limiter errors so a
// Redis hiccup never blocks the chat.
func (s *Server) allow(ctx context.Context, userID string) bool {
	if s.limiter == nil {
		return true
	}

	result, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		s.log.Warn("rate limiter error", slog.String("user_id", userID), slog.Any("error", err))
		return true
	}

	if !result.Allowed {
		s.log.Warn("rate limit exceeded", slog.String("user_id", userID))
	}

	return result.Allowed
}

func (s *Server) deliver(ctx context.Context, dest string, msg *slack.Message) {
	var err error
	if len(msg.Attachments) > 0 {
		err = s.messenger.SendAttachment(ctx, dest, msg.Text, msg.Attachments[0])
	} else {
		err = s.messenger.SendMessage(ctx, dest, msg.Text)
	}

	if err != nil {
		s.log.Error("failed to deliver reply",
			slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
			slog.Any("error", err),
		)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.Info("handled http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", logger.CorrelationIDFromContext(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
