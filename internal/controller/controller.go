package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/youpure/server/internal/player"
	"github.com/youpure/server/internal/service/session"
	"github.com/youpure/server/pkg/validator"
	"github.com/youpure/server/pkg/wsrouter"
)

type iSessionService interface {
	Open(context.Context, *session.OpenParams) (session.OpenResponse, error)
	Disconnect(ctx context.Context, sessionId string)
	GetView(sessionId string) (player.View, error)
	SetInput(context.Context, *session.SetInputParams) error
	FocusInput(context.Context, *session.FocusInputParams) error
	KeyPressed(context.Context, *session.KeyPressedParams) error
	PlayerReady(context.Context, *session.PlayerReadyParams) error
	PlayerStateChanged(context.Context, *session.PlayerStateChangedParams) error
	ReportStatus(context.Context, *session.ReportStatusParams) error
	TogglePlayPause(ctx context.Context, sessionId string) error
	Seek(context.Context, *session.SeekParams) error
	Skip(context.Context, *session.SkipParams) error
	ClosePlayer(ctx context.Context, sessionId string) error
	Send(sessionId string, msg *session.Message) error
}

type iTitleFetcher interface {
	FetchTitle(ctx context.Context, videoId string) (string, bool)
}

type controller struct {
	sessionService iSessionService
	titleFetcher   iTitleFetcher
	upgrader       websocket.Upgrader
	validate       *validator.Validator
	wsmux          *wsrouter.WSRouter
	logger         *slog.Logger
}

func NewController(sessionService iSessionService, titleFetcher iTitleFetcher, logger *slog.Logger) *controller {
	c := controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessionService: sessionService,
		titleFetcher:   titleFetcher,
		validate:       validator.NewValidator(),
		logger:         logger,
	}
	c.wsmux = c.getWSRouter()

	return &c
}
