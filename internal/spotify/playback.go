package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotgate/internal/core"
)

// ActiveDevice returns the device of the current playback session. Any
// upstream failure or an empty session is reported as core.ErrNoActiveDevice.
func (c *Client) ActiveDevice(ctx context.Context, token string) (*core.Device, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	state, err := c.forToken(ctx, token).PlayerState(ctx)
	if err != nil {
		c.logger.Warn("Failed to get player state", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", core.ErrNoActiveDevice, err)
	}

	device := deviceFromState(state)
	if device == nil {
		c.logger.Debug("No playback session reported")
		return nil, core.ErrNoActiveDevice
	}

	c.logger.Debug("Found playback device",
		zap.String("deviceName", device.Name),
		zap.String("deviceType", device.Type),
		zap.String("deviceID", device.ID),
		zap.Bool("active", device.Active))
	return device, nil
}

// deviceFromState returns nil when the upstream answered without a session.
func deviceFromState(state *spotify.PlayerState) *core.Device {
	if state == nil || state.Device.ID == "" {
		return nil
	}
	return &core.Device{
		ID:     string(state.Device.ID),
		Name:   state.Device.Name,
		Type:   state.Device.Type,
		Active: state.Device.Active,
	}
}

// StartPlayback looks up the device of the current session and starts
// request.URI on it. The play command is never sent when no device is found.
func (c *Client) StartPlayback(ctx context.Context, token string, request core.PlaybackRequest) error {
	device, err := c.ActiveDevice(ctx, token)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	err = c.forToken(ctx, token).PlayOpt(ctx, playOptions(device.ID, request))
	if err != nil {
		c.logger.Warn("Start playback rejected",
			zap.String("deviceID", device.ID),
			zap.String("uri", request.URI),
			zap.Error(err))
		return fmt.Errorf("%w: %w", core.ErrCommandRejected, err)
	}

	c.logger.Info("Playback started",
		zap.String("deviceID", device.ID),
		zap.String("uri", request.URI))
	return nil
}

// playOptions targets deviceID with a single-item track list and no context offset.
func playOptions(deviceID string, request core.PlaybackRequest) *spotify.PlayOptions {
	id := spotify.ID(deviceID)
	opts := &spotify.PlayOptions{
		DeviceID: &id,
		URIs:     []spotify.URI{spotify.URI(request.URI)},
	}
	if request.PositionMs != nil {
		setPosition(&opts.PositionMs, *request.PositionMs)
	}
	return opts
}

func setPosition[T ~int](dst *T, positionMs uint32) {
	*dst = T(positionMs)
}
