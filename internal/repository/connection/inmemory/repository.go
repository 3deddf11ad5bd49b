package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/youpure/server/internal/repository/connection"
)

type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
		logger:   logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, sessionId string) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionId)
	if _, ok := r.connList[conn]; ok {
		return connection.ErrAlreadyExists
	}
	if _, ok := r.idList[sessionId]; ok {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = sessionId
	r.idList[sessionId] = conn

	return nil
}

// RemoveBySessionId forgets the connection of a session and closes it.
func (r *repo) RemoveBySessionId(sessionId string) error {
	funcName := "connection.inmemory.RemoveBySessionId"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionId)
	conn, ok := r.idList[sessionId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, sessionId)

	return conn.Close()
}

func (r *repo) GetConn(sessionId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[sessionId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetSessionId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return sessionId, nil
}
