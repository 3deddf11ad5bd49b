package session

import (
	"fmt"
	"sync"
	"time"
)

const defaultWriteTimeout = 5 * time.Second

const (
	MessageTypeSessionOpened = "SESSION_OPENED"
	MessageTypeState         = "STATE"
	MessageTypePlayerCommand = "PLAYER_COMMAND"
	MessageTypeError         = "ERROR"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// sender serialises writes to the connection of one session.
type sender struct {
	connRepo     iConnRepo
	sessionId    string
	writeTimeout time.Duration
	mu           sync.Mutex
}

func newSender(connRepo iConnRepo, sessionId string, writeTimeout time.Duration) *sender {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	return &sender{
		connRepo:     connRepo,
		sessionId:    sessionId,
		writeTimeout: writeTimeout,
	}
}

func (s *sender) send(msg *Message) error {
	conn, err := s.connRepo.GetConn(s.sessionId)
	if err != nil {
		return fmt.Errorf("failed to get conn: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
