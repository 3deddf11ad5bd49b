package controller

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/youpure/server/internal/service/session"
	omitnilpointers "github.com/youpure/server/pkg/omit-nil-pointers"
)

type errorOutput struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// handleWSError answers a failed message with an ERROR message. The
// connection stays open unless the error can't be delivered.
func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) error {
	c.logger.InfoContext(ctx, "failed to handle websocket message", "error", err)

	out := errorOutput{Message: err.Error()}
	var vf *validationFailure
	if errors.As(err, &vf) {
		out.Errors = vf.errs
	}

	sessionId := c.getSessionIdFromCtx(ctx)
	if sendErr := c.sessionService.Send(sessionId, &session.Message{
		Type:    session.MessageTypeError,
		Payload: omitnilpointers.FromStruct(out),
	}); sendErr != nil {
		if errors.Is(sendErr, session.ErrSessionNotFound) {
			return sendErr
		}
		c.logger.WarnContext(ctx, "failed to write error", "error", sendErr)
	}

	return nil
}
