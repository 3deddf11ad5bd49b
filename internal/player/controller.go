package player

import (
	"context"
	"log/slog"
	"sync"
)

// SurfaceMarker is the style marker attached to a freshly bound player.
const SurfaceMarker = "youtubePlayer"

// Controller issues transport commands to the bound player. Every method is a
// no-op while nothing is bound; command failures are logged, never returned.
type Controller struct {
	mu      sync.Mutex
	binding Binding
	logger  *slog.Logger
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{logger: logger}
}

// Bind stores b, starts playback and tags the player surface.
func (c *Controller) Bind(ctx context.Context, b Binding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.binding = b
	if b == nil {
		return
	}

	c.check(ctx, "play", b.Play(ctx))
	c.check(ctx, "tag", b.Tag(ctx, SurfaceMarker))
}

// Release forgets the bound player and returns it.
func (c *Controller) Release() Binding {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.binding
	c.binding = nil
	return b
}

func (c *Controller) Binding() Binding {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.binding
}

func (c *Controller) TogglePlayPause(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding == nil {
		return
	}

	if c.binding.State() == StatePlaying {
		c.check(ctx, "pause", c.binding.Pause(ctx))
	} else {
		c.check(ctx, "play", c.binding.Play(ctx))
	}
}

// SeekToFraction seeks to fraction of the total duration. fraction is clamped
// to [0, 1].
func (c *Controller) SeekToFraction(ctx context.Context, fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding == nil {
		return
	}

	fraction = min(max(fraction, 0), 1)
	c.check(ctx, "seek", c.binding.Seek(ctx, fraction*c.binding.Duration(), false))
}

// Skip moves playback by delta seconds, never before the start.
func (c *Controller) Skip(ctx context.Context, delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding == nil {
		return
	}

	target := max(c.binding.CurrentTime()+delta, 0)
	c.check(ctx, "seek", c.binding.Seek(ctx, target, true))
}

func (c *Controller) check(ctx context.Context, command string, err error) {
	if err != nil {
		c.logger.WarnContext(ctx, "player command failed", "command", command, "error", err)
	}
}
