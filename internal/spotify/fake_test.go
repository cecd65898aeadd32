package spotify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"spotgate/internal/core"
)

const noDevicePlayer = ""

// fakeAPI mimics the subset of the Web API the gateway calls. An empty body
// answers 204 No Content.
type fakeAPI struct {
	mu sync.Mutex

	playerStatus  int
	playerBody    string
	currentStatus int
	currentBody   string
	meStatus      int
	meBody        string
	playStatus    int

	playerCalls  int
	playCalls    int
	playDeviceID string
	playBody     map[string]any
	authHeaders  []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		playerStatus:  http.StatusOK,
		currentStatus: http.StatusOK,
		meStatus:      http.StatusOK,
		playStatus:    http.StatusNoContent,
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))

	switch r.Method + " " + r.URL.Path {
	case "GET /me/player":
		f.playerCalls++
		respond(w, f.playerStatus, f.playerBody)
	case "GET /me/player/currently-playing":
		respond(w, f.currentStatus, f.currentBody)
	case "GET /me":
		respond(w, f.meStatus, f.meBody)
	case "PUT /me/player/play":
		f.playCalls++
		f.playDeviceID = r.URL.Query().Get("device_id")
		body, _ := io.ReadAll(r.Body)
		f.playBody = map[string]any{}
		_ = json.Unmarshal(body, &f.playBody)
		if f.playStatus == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respond(w, f.playStatus, errorBody(f.playStatus, "Player command failed: Premium required"))
	default:
		http.NotFound(w, r)
	}
}

func respond(w http.ResponseWriter, status int, body string) {
	if status == http.StatusOK && body == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func errorBody(status int, message string) string {
	b, _ := json.Marshal(map[string]any{"error": map[string]any{"status": status, "message": message}})
	return string(b)
}

func (f *fakeAPI) calls() (player, play int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playerCalls, f.playCalls
}

func (f *fakeAPI) lastPlay() (deviceID string, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playDeviceID, f.playBody
}

func (f *fakeAPI) headers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	config := &core.SpotifyConfig{
		ClientID:        "client",
		ClientSecret:    "secret",
		RedirectURL:     core.DefaultRedirectURL,
		APIURL:          server.URL + "/",
		UpstreamTimeout: 5 * time.Second,
	}
	return NewClient(config, zap.NewNop())
}

const activePlayerState = `{
  "device": {"id": "device-1", "is_active": true, "name": "Kitchen", "type": "Speaker", "volume_percent": 40},
  "shuffle_state": false,
  "repeat_state": "off",
  "timestamp": 1700000000000,
  "progress_ms": 1000,
  "is_playing": false
}`
