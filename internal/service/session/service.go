package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/youpure/server/internal/player"
	"github.com/youpure/server/internal/repository/connection"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrUnknownDirection = errors.New("unknown skip direction")
	ErrShuttingDown     = errors.New("server is shutting down")
)

type iConnRepo interface {
	Add(*websocket.Conn, string) error
	RemoveBySessionId(string) error
	GetConn(string) (*websocket.Conn, error)
}

type Config struct {
	Player       player.Config
	PollInterval time.Duration
	SkipStep     float64
	WriteTimeout time.Duration
}

type session struct {
	id      string
	machine *player.Machine
	remote  *remotePlayer
	out     *sender
}

type service struct {
	connRepo iConnRepo
	fetcher  player.TitleFetcher
	cfg      Config
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	closing  bool
}

func NewService(connRepo iConnRepo, fetcher player.TitleFetcher, cfg *Config, logger *slog.Logger) *service {
	return &service{
		connRepo: connRepo,
		fetcher:  fetcher,
		cfg:      *cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

type OpenParams struct {
	Conn *websocket.Conn
}

type OpenResponse struct {
	SessionId string
	View      player.View
}

// Open registers conn as a new player session. Every successful Open must be
// paired with Disconnect.
func (s *service) Open(ctx context.Context, params *OpenParams) (OpenResponse, error) {
	s.mu.RLock()
	closing := s.closing
	s.mu.RUnlock()
	if closing {
		return OpenResponse{}, ErrShuttingDown
	}

	sessionId := uuid.NewString()
	if err := s.connRepo.Add(params.Conn, sessionId); err != nil {
		return OpenResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	logger := s.logger.With("session_id", sessionId)
	out := newSender(s.connRepo, sessionId, s.cfg.WriteTimeout)

	sess := session{
		id:     sessionId,
		remote: newRemotePlayer(out),
		out:    out,
	}
	sess.machine = player.New(&player.Options{
		Config:       s.cfg.Player,
		PollInterval: s.cfg.PollInterval,
		SkipStep:     s.cfg.SkipStep,
		Fetcher:      s.fetcher,
		Logger:       logger,
		Observer: func(v player.View) {
			if err := out.send(&Message{Type: MessageTypeState, Payload: v}); err != nil {
				logger.Debug("failed to send state", "error", err)
			}
		},
	})

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		sess.machine.Shutdown(ctx)
		if err := s.connRepo.RemoveBySessionId(sessionId); err != nil && !errors.Is(err, connection.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to remove connection", "session_id", sessionId, "error", err)
		}
		return OpenResponse{}, ErrShuttingDown
	}
	s.sessions[sessionId] = &sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session opened", "session_id", sessionId)

	return OpenResponse{
		SessionId: sessionId,
		View:      sess.machine.View(),
	}, nil
}

// Disconnect closes the player of a session, stops its timers and drops
// its connection. Disconnecting an unknown session is a no-op.
func (s *service) Disconnect(ctx context.Context, sessionId string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionId]
	delete(s.sessions, sessionId)
	s.mu.Unlock()

	if !ok {
		return
	}

	sess.machine.Shutdown(ctx)
	if err := s.connRepo.RemoveBySessionId(sessionId); err != nil && !errors.Is(err, connection.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to remove connection", "session_id", sessionId, "error", err)
	}

	s.logger.InfoContext(ctx, "session closed", "session_id", sessionId)
}

// Shutdown rejects new sessions, disconnects every open one and waits for
// their pending title lookups.
func (s *service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	s.closing = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		s.Disconnect(ctx, sess.id)
	}

	// a session disconnected concurrently may still be shutting its machine
	// down; Shutdown is idempotent and orders Wait after the last lookup
	for _, sess := range sessions {
		sess.machine.Shutdown(ctx)
		sess.machine.Wait()
	}
}

func (s *service) GetView(sessionId string) (player.View, error) {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return player.View{}, err
	}

	return sess.machine.View(), nil
}

// Send writes msg to the session's connection. All writes to a session go
// through here or through its player.
func (s *service) Send(sessionId string, msg *Message) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}

	return sess.out.send(msg)
}

func (s *service) getSession(sessionId string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionId]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess, nil
}
