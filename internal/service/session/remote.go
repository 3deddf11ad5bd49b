package session

import (
	"context"
	"sync"

	"github.com/youpure/server/internal/player"
)

const (
	CommandPlay  = "play"
	CommandPause = "pause"
	CommandSeek  = "seek"
	CommandTag   = "tag"
)

type PlayerCommand struct {
	Command        string  `json:"command"`
	Seconds        float64 `json:"seconds"`
	AllowSeekAhead bool    `json:"allow_seek_ahead,omitempty"`
	Marker         string  `json:"marker,omitempty"`
}

type commandSender interface {
	send(msg *Message) error
}

// remotePlayer drives the widget living in the page. Commands are sent as
// PLAYER_COMMAND messages; queries answer from the last status the page
// reported.
type remotePlayer struct {
	out commandSender

	mu          sync.RWMutex
	currentTime float64
	duration    float64
	state       player.State
}

func newRemotePlayer(out commandSender) *remotePlayer {
	return &remotePlayer{
		out:   out,
		state: player.StateUnstarted,
	}
}

func (p *remotePlayer) report(status PlayerStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.currentTime = status.CurrentTime
	p.duration = status.Duration
	if status.State.Valid() {
		p.state = status.State
	}
}

func (p *remotePlayer) Play(context.Context) error {
	return p.out.send(&Message{
		Type:    MessageTypePlayerCommand,
		Payload: PlayerCommand{Command: CommandPlay},
	})
}

func (p *remotePlayer) Pause(context.Context) error {
	return p.out.send(&Message{
		Type:    MessageTypePlayerCommand,
		Payload: PlayerCommand{Command: CommandPause},
	})
}

func (p *remotePlayer) Seek(_ context.Context, seconds float64, allowSeekAhead bool) error {
	// the page reports the new position on its next status update
	p.mu.Lock()
	p.currentTime = seconds
	p.mu.Unlock()

	return p.out.send(&Message{
		Type: MessageTypePlayerCommand,
		Payload: PlayerCommand{
			Command:        CommandSeek,
			Seconds:        seconds,
			AllowSeekAhead: allowSeekAhead,
		},
	})
}

func (p *remotePlayer) Tag(_ context.Context, marker string) error {
	return p.out.send(&Message{
		Type:    MessageTypePlayerCommand,
		Payload: PlayerCommand{Command: CommandTag, Marker: marker},
	})
}

func (p *remotePlayer) CurrentTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.currentTime
}

func (p *remotePlayer) Duration() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.duration
}

func (p *remotePlayer) State() player.State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}
