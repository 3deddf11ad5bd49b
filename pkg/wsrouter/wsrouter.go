package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrMalformedMessage   = errors.New("malformed message")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandler is called with every error returned by a handler. Returning
// a non-nil error stops ServeConn.
type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error) error

type route struct {
	decode func(json.RawMessage) (any, error)
	handle HandlerFunc[any]
}

type WSRouter struct {
	routes       map[string]route
	middlewares  []Middleware
	errorHandler ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]route),
		errorHandler: func(context.Context, *websocket.Conn, error) error {
			return nil
		},
	}
}

func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) OnError(handler ErrorHandler) {
	r.errorHandler = handler
}

// Handle registers a handler whose payload is decoded into T. An absent
// payload leaves T at its zero value.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = route{
		decode: func(raw json.RawMessage) (any, error) {
			var payload T
			if len(raw) == 0 || string(raw) == "null" {
				return payload, nil
			}
			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, err
			}
			return payload, nil
		},
		handle: func(ctx context.Context, conn *websocket.Conn, payload any) error {
			return handler(ctx, conn, payload.(T))
		},
	}
}

// ServeConn dispatches messages until the connection fails or the error
// handler gives up. Frames that are not a {type, payload} envelope are
// reported to the error handler like any other failed message.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg message
		if decodeErr := json.Unmarshal(data, &msg); decodeErr != nil {
			err = fmt.Errorf("%w: %w", ErrMalformedMessage, decodeErr)
		} else {
			err = r.dispatch(ctx, conn, &msg)
		}

		if err != nil {
			if err := r.errorHandler(ctx, conn, err); err != nil {
				return err
			}
		}
	}
}

func (r *WSRouter) dispatch(ctx context.Context, conn *websocket.Conn, msg *message) error {
	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)

	rt, ok := r.routes[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	payload, err := rt.decode(msg.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	handler := rt.handle
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return handler(ctx, conn, payload)
}
