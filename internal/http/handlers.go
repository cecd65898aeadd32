package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotgate/internal/auth"
	"spotgate/internal/core"
)

const (
	statusOK  = "ok"
	statusErr = "err"

	msgAuthFailed        = "Failed to authenticate"
	msgProfileFailed     = "Failed to get profile"
	msgCurrentFailed     = "Failed to get current_playing"
	msgNoDevice          = "No device active"
	msgStartFailed       = "Failed to start_playback"
	msgNothingPlaying    = "Nothing playing"
	maxRequestBodyLength = 1 << 16
)

// Authenticator builds the authorize URL and exchanges redirect URLs for tokens.
type Authenticator interface {
	AuthorizeURL() string
	Exchange(ctx context.Context, redirectURL string) (string, error)
}

// Player performs token-scoped calls against the streaming service.
type Player interface {
	Profile(ctx context.Context, token string) (*spotify.PrivateUser, error)
	CurrentPlayback(ctx context.Context, token string) (core.Snapshot, error)
	StartPlayback(ctx context.Context, token string, request core.PlaybackRequest) error
}

type handlers struct {
	flow    Authenticator
	player  Player
	logger  *zap.Logger
	metrics *Metrics
}

type statusResponse struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Token  string `json:"token,omitempty"`
	Error  string `json:"error,omitempty"`
}

type playingResponse struct {
	URI        string `json:"uri"`
	Timestamp  int64  `json:"timestamp"`
	ProgressMs uint32 `json:"progress_ms"`
	IsPlaying  bool   `json:"is_playing"`
}

type authRequest struct {
	URL *string `json:"url"`
}

func (h *handlers) getURL(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	h.writeJSON(w, statusResponse{Status: statusOK, URL: h.flow.AuthorizeURL()})
	h.metrics.RecordRequest("get_url", statusOK, time.Since(start))
}

func (h *handlers) auth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body authRequest
	if err := decodeBody(w, r, &body); err != nil || body.URL == nil {
		h.logger.Debug("Invalid auth request body", zap.Error(err))
		h.fail(w, "auth", msgAuthFailed, core.ErrMissingCode, start)
		return
	}

	token, err := h.flow.Exchange(r.Context(), *body.URL)
	if err != nil {
		h.fail(w, "auth", msgAuthFailed, err, start)
		return
	}

	h.writeJSON(w, statusResponse{Status: statusOK, Token: token})
	h.metrics.RecordRequest("auth", statusOK, time.Since(start))
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	token, err := auth.TokenFromRequest(r)
	if err != nil {
		h.fail(w, "me", msgProfileFailed, err, start)
		return
	}

	profile, err := h.player.Profile(r.Context(), token)
	if err != nil {
		h.fail(w, "me", msgProfileFailed, err, start)
		return
	}

	h.writeJSON(w, profile)
	h.metrics.RecordRequest("me", statusOK, time.Since(start))
}

func (h *handlers) currentPlaying(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	token, err := auth.TokenFromRequest(r)
	if err != nil {
		h.fail(w, "current_playing", msgCurrentFailed, err, start)
		return
	}

	snapshot, err := h.player.CurrentPlayback(r.Context(), token)
	if err != nil {
		h.fail(w, "current_playing", msgCurrentFailed, err, start)
		return
	}

	if snapshot.IsEmpty() {
		writeRaw(w, "text/plain; charset=utf-8", msgNothingPlaying)
		h.metrics.RecordRequest("current_playing", "empty", time.Since(start))
		return
	}

	h.writeJSON(w, playingResponse{
		URI:        snapshot.ContextURI,
		Timestamp:  snapshot.Timestamp,
		ProgressMs: snapshot.ProgressMs,
		IsPlaying:  snapshot.IsPlaying,
	})
	h.metrics.RecordRequest("current_playing", statusOK, time.Since(start))
}

func (h *handlers) startPlayback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	token, err := auth.TokenFromRequest(r)
	if err != nil {
		h.fail(w, "start_playback", msgStartFailed, err, start)
		return
	}

	var request core.PlaybackRequest
	if err := decodeBody(w, r, &request); err != nil {
		h.logger.Debug("Invalid start_playback request body", zap.Error(err))
		h.fail(w, "start_playback", msgStartFailed, err, start)
		return
	}

	err = h.player.StartPlayback(r.Context(), token, request)
	switch {
	case err == nil:
		h.writeJSON(w, statusResponse{Status: statusOK})
		h.metrics.RecordRequest("start_playback", statusOK, time.Since(start))
	case errors.Is(err, core.ErrNoActiveDevice):
		h.fail(w, "start_playback", msgNoDevice, err, start)
	default:
		h.fail(w, "start_playback", msgStartFailed, err, start)
	}
}

// fail answers with HTTP 200 and a stable error message; the cause is only logged.
func (h *handlers) fail(w http.ResponseWriter, endpoint, message string, cause error, start time.Time) {
	kind := core.ErrorKind(cause)
	h.logger.Warn("Request failed",
		zap.String("endpoint", endpoint),
		zap.String("kind", kind),
		zap.Error(cause))

	h.metrics.RecordError(endpoint, kind)
	h.writeJSON(w, statusResponse{Status: statusErr, Error: message})
	h.metrics.RecordRequest(endpoint, statusErr, time.Since(start))
}

func (h *handlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func writeRaw(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyLength)).Decode(v)
}
