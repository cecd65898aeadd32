package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotgate/internal/core"
)

// CurrentPlayback reads what is playing. Upstream failures become
// core.ErrFetchFailed; an idle player yields core.EmptySnapshot.
func (c *Client) CurrentPlayback(ctx context.Context, token string) (core.Snapshot, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	playing, err := c.forToken(ctx, token).PlayerCurrentlyPlaying(ctx)
	if err != nil {
		c.logger.Warn("Failed to get currently playing", zap.Error(err))
		return core.EmptySnapshot, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}

	snapshot := Normalize(playing)
	if snapshot.IsEmpty() {
		c.logger.Debug("Nothing playing")
	}
	return snapshot, nil
}

// Normalize flattens an upstream currently-playing object. A nil object or a
// 204 response (decoded as the zero value) means nothing is playing.
func Normalize(playing *spotify.CurrentlyPlaying) core.Snapshot {
	if playing == nil || (playing.Timestamp == 0 && playing.Item == nil && playing.PlaybackContext.URI == "") {
		return core.EmptySnapshot
	}

	contextURI := string(playing.PlaybackContext.URI)
	if contextURI == "" {
		contextURI = core.NoContext
	}

	progress := int(playing.Progress)
	if progress < 0 {
		progress = 0
	}

	return core.Snapshot{
		Present:    true,
		ContextURI: contextURI,
		Timestamp:  int64(playing.Timestamp),
		ProgressMs: uint32(progress), //nolint:gosec // progress is a track offset in milliseconds
		IsPlaying:  playing.Playing,
	}
}
