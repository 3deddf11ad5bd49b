package controller

import (
	"github.com/youpure/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw(), c.wsLoggerMw())
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// input
	wsrouter.Handle(mux, "INPUT_CHANGED", c.handleInputChanged)
	wsrouter.Handle(mux, "INPUT_FOCUSED", c.handleInputFocused)
	wsrouter.Handle(mux, "KEY_PRESSED", c.handleKeyPressed)

	// player widget
	wsrouter.Handle(mux, "PLAYER_READY", c.handlePlayerReady)
	wsrouter.Handle(mux, "PLAYER_STATE_CHANGED", c.handlePlayerStateChanged)
	wsrouter.Handle(mux, "PLAYER_STATUS", c.handlePlayerStatus)

	// transport
	wsrouter.Handle(mux, "TOGGLE_PLAY_PAUSE", c.handleTogglePlayPause)
	wsrouter.Handle(mux, "SEEK", c.handleSeek)
	wsrouter.Handle(mux, "SKIP", c.handleSkip)
	wsrouter.Handle(mux, "CLOSE", c.handleClose)

	return mux
}
