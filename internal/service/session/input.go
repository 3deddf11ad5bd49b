package session

import (
	"context"
	"errors"
)

var ErrClipboardDenied = errors.New("clipboard access denied")

type SetInputParams struct {
	SessionId string
	Text      string
}

// SetInput loads the video in Text. Text without a video id leaves the
// session untouched.
func (s *service) SetInput(ctx context.Context, params *SetInputParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.machine.SetInput(ctx, params.Text)
	return nil
}

type FocusInputParams struct {
	SessionId       string
	ClipboardText   string
	ClipboardDenied bool
}

func (s *service) FocusInput(ctx context.Context, params *FocusInputParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.machine.FocusInput(ctx, reportedClipboard{
		text:   params.ClipboardText,
		denied: params.ClipboardDenied,
	})
	return nil
}

type KeyPressedParams struct {
	SessionId string
	Key       string
}

func (s *service) KeyPressed(ctx context.Context, params *KeyPressedParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	if !sess.machine.HandleKey(ctx, params.Key) {
		s.logger.DebugContext(ctx, "key has no shortcut", "key", params.Key)
	}
	return nil
}

// reportedClipboard replays what the page read from the clipboard when the
// input gained focus.
type reportedClipboard struct {
	text   string
	denied bool
}

func (c reportedClipboard) ReadText(context.Context) (string, error) {
	if c.denied {
		return "", ErrClipboardDenied
	}

	return c.text, nil
}
