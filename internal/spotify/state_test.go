package spotify

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/zmb3/spotify/v2"

	"spotgate/internal/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		playing  *spotify.CurrentlyPlaying
		expected core.Snapshot
	}{
		{
			name:     "nil object",
			playing:  nil,
			expected: core.EmptySnapshot,
		},
		{
			name:     "no content",
			playing:  &spotify.CurrentlyPlaying{},
			expected: core.EmptySnapshot,
		},
		{
			name: "context and progress present",
			playing: &spotify.CurrentlyPlaying{
				Timestamp:       1700000000000,
				PlaybackContext: spotify.PlaybackContext{URI: "spotify:playlist:abc"},
				Progress:        1200,
				Playing:         true,
				Item:            &spotify.FullTrack{},
			},
			expected: core.Snapshot{
				Present:    true,
				ContextURI: "spotify:playlist:abc",
				Timestamp:  1700000000000,
				ProgressMs: 1200,
				IsPlaying:  true,
			},
		},
		{
			name: "context absent",
			playing: &spotify.CurrentlyPlaying{
				Timestamp: 1700000000000,
				Progress:  300,
				Playing:   true,
				Item:      &spotify.FullTrack{},
			},
			expected: core.Snapshot{
				Present:    true,
				ContextURI: core.NoContext,
				Timestamp:  1700000000000,
				ProgressMs: 300,
				IsPlaying:  true,
			},
		},
		{
			name: "progress absent",
			playing: &spotify.CurrentlyPlaying{
				Timestamp:       1700000000000,
				PlaybackContext: spotify.PlaybackContext{URI: "spotify:album:xyz"},
				Item:            &spotify.FullTrack{},
			},
			expected: core.Snapshot{
				Present:    true,
				ContextURI: "spotify:album:xyz",
				Timestamp:  1700000000000,
			},
		},
		{
			name: "context and progress absent while paused",
			playing: &spotify.CurrentlyPlaying{
				Timestamp: 1700000000000,
			},
			expected: core.Snapshot{
				Present:    true,
				ContextURI: core.NoContext,
				Timestamp:  1700000000000,
			},
		},
		{
			name: "item absent with context",
			playing: &spotify.CurrentlyPlaying{
				PlaybackContext: spotify.PlaybackContext{URI: "spotify:show:abc"},
				Playing:         true,
			},
			expected: core.Snapshot{
				Present:    true,
				ContextURI: "spotify:show:abc",
				IsPlaying:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.playing)
			if got != tt.expected {
				t.Errorf("Normalize() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestCurrentPlayback_NothingPlaying(t *testing.T) {
	api := newFakeAPI()
	client := newTestClient(t, api)

	snapshot, err := client.CurrentPlayback(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("CurrentPlayback() unexpected error: %v", err)
	}
	if !snapshot.IsEmpty() {
		t.Errorf("CurrentPlayback() = %+v, expected empty snapshot", snapshot)
	}
}

func TestCurrentPlayback_Normalizes(t *testing.T) {
	api := newFakeAPI()
	api.currentBody = `{"timestamp": 1700000000000, "is_playing": true, "item": {"id": "t1", "name": "Song"}}`
	client := newTestClient(t, api)

	snapshot, err := client.CurrentPlayback(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("CurrentPlayback() unexpected error: %v", err)
	}

	expected := core.Snapshot{
		Present:    true,
		ContextURI: core.NoContext,
		Timestamp:  1700000000000,
		ProgressMs: 0,
		IsPlaying:  true,
	}
	if snapshot != expected {
		t.Errorf("CurrentPlayback() = %+v, expected %+v", snapshot, expected)
	}
}

func TestCurrentPlayback_Idempotent(t *testing.T) {
	api := newFakeAPI()
	api.currentBody = `{"timestamp": 1700000000000, "progress_ms": 4200, "is_playing": false,
		"context": {"uri": "spotify:playlist:abc", "type": "playlist"}, "item": {"id": "t1"}}`
	client := newTestClient(t, api)

	first, err := client.CurrentPlayback(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("CurrentPlayback() unexpected error: %v", err)
	}
	second, err := client.CurrentPlayback(context.Background(), "tok_1")
	if err != nil {
		t.Fatalf("CurrentPlayback() unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("Snapshots differ: %+v vs %+v", first, second)
	}
	if first.ContextURI != "spotify:playlist:abc" || first.ProgressMs != 4200 {
		t.Errorf("CurrentPlayback() = %+v", first)
	}
}

func TestCurrentPlayback_UpstreamError(t *testing.T) {
	api := newFakeAPI()
	api.currentStatus = http.StatusUnauthorized
	api.currentBody = errorBody(http.StatusUnauthorized, "Invalid access token")
	client := newTestClient(t, api)

	_, err := client.CurrentPlayback(context.Background(), "bad")
	if !errors.Is(err, core.ErrFetchFailed) {
		t.Fatalf("CurrentPlayback() error = %v, expected ErrFetchFailed", err)
	}
}
