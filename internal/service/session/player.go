package session

import (
	"context"
	"fmt"

	"github.com/youpure/server/internal/player"
)

type PlayerStatus struct {
	CurrentTime float64
	Duration    float64
	State       player.State
}

type PlayerReadyParams struct {
	SessionId string
	Status    PlayerStatus
}

func (s *service) PlayerReady(ctx context.Context, params *PlayerReadyParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.remote.report(params.Status)
	sess.machine.Ready(ctx, sess.remote)
	return nil
}

type PlayerStateChangedParams struct {
	SessionId string
	Status    PlayerStatus
}

func (s *service) PlayerStateChanged(ctx context.Context, params *PlayerStateChangedParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.remote.report(params.Status)
	sess.machine.StateChanged(ctx, params.Status.State)
	return nil
}

type ReportStatusParams struct {
	SessionId string
	Status    PlayerStatus
}

// ReportStatus refreshes what the bound player last told us about itself.
func (s *service) ReportStatus(_ context.Context, params *ReportStatusParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.remote.report(params.Status)
	return nil
}

func (s *service) TogglePlayPause(ctx context.Context, sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}

	sess.machine.TogglePlayPause(ctx)
	return nil
}

type SeekParams struct {
	SessionId string
	Fraction  float64
}

func (s *service) Seek(ctx context.Context, params *SeekParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	sess.machine.SeekToFraction(ctx, params.Fraction)
	return nil
}

const (
	DirectionBackward = "backward"
	DirectionForward  = "forward"
)

type SkipParams struct {
	SessionId string
	Direction string
}

func (s *service) Skip(ctx context.Context, params *SkipParams) error {
	sess, err := s.getSession(params.SessionId)
	if err != nil {
		return err
	}

	switch params.Direction {
	case DirectionBackward:
		sess.machine.SkipBackward(ctx)
	case DirectionForward:
		sess.machine.SkipForward(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, params.Direction)
	}

	return nil
}

// ClosePlayer unloads the video but keeps the session open.
func (s *service) ClosePlayer(ctx context.Context, sessionId string) error {
	sess, err := s.getSession(sessionId)
	if err != nil {
		return err
	}

	sess.machine.Close(ctx)
	return nil
}
