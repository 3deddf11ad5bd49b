package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/youpure/server/internal/service/session"
	"github.com/youpure/server/pkg/ctxlogger"
)

func (c controller) openPlayer(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	openResp, err := c.sessionService.Open(r.Context(), &session.OpenParams{Conn: conn})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to open session", "error", err)
		conn.Close()
		return
	}
	defer c.sessionService.Disconnect(context.WithoutCancel(r.Context()), openResp.SessionId)

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("session_id", openResp.SessionId))
	ctx = context.WithValue(ctx, sessionIdCtxKey, openResp.SessionId)

	if err := c.sessionService.Send(openResp.SessionId, &session.Message{
		Type: session.MessageTypeSessionOpened,
		Payload: map[string]any{
			"session_id": openResp.SessionId,
			"view":       openResp.View,
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write json", "error", err)
		return
	}

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "websocket connection closed", "error", err)
	}
}
