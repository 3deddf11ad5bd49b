package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/youpure/server/internal/player"
	"github.com/youpure/server/internal/service/session"
	"github.com/youpure/server/pkg/validator"
)

var ErrValidationError = errors.New("validation error")

type EmptyInput struct{}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type InputChangedInput struct {
	Text string `json:"text" validate:"max=2048"`
}

func (c controller) handleInputChanged(ctx context.Context, _ *websocket.Conn, input InputChangedInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.SetInput(ctx, &session.SetInputParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Text:      input.Text,
	}); err != nil {
		return fmt.Errorf("failed to set input: %w", err)
	}

	return nil
}

type InputFocusedInput struct {
	ClipboardText   string `json:"clipboard_text" validate:"max=2048"`
	ClipboardDenied bool   `json:"clipboard_denied"`
}

func (c controller) handleInputFocused(ctx context.Context, _ *websocket.Conn, input InputFocusedInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.FocusInput(ctx, &session.FocusInputParams{
		SessionId:       c.getSessionIdFromCtx(ctx),
		ClipboardText:   input.ClipboardText,
		ClipboardDenied: input.ClipboardDenied,
	}); err != nil {
		return fmt.Errorf("failed to focus input: %w", err)
	}

	return nil
}

type KeyPressedInput struct {
	Key string `json:"key" validate:"required,max=32"`
}

func (c controller) handleKeyPressed(ctx context.Context, _ *websocket.Conn, input KeyPressedInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.KeyPressed(ctx, &session.KeyPressedParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Key:       input.Key,
	}); err != nil {
		return fmt.Errorf("failed to handle key: %w", err)
	}

	return nil
}

type PlayerStatusInput struct {
	CurrentTime float64 `json:"current_time" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	State       int     `json:"state" validate:"oneof=-1 0 1 2 3 5"`
}

func (i PlayerStatusInput) status() session.PlayerStatus {
	return session.PlayerStatus{
		CurrentTime: i.CurrentTime,
		Duration:    i.Duration,
		State:       player.State(i.State),
	}
}

func (c controller) handlePlayerReady(ctx context.Context, _ *websocket.Conn, input PlayerStatusInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.PlayerReady(ctx, &session.PlayerReadyParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Status:    input.status(),
	}); err != nil {
		return fmt.Errorf("failed to bind player: %w", err)
	}

	return nil
}

func (c controller) handlePlayerStateChanged(ctx context.Context, _ *websocket.Conn, input PlayerStatusInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.PlayerStateChanged(ctx, &session.PlayerStateChangedParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Status:    input.status(),
	}); err != nil {
		return fmt.Errorf("failed to change player state: %w", err)
	}

	return nil
}

func (c controller) handlePlayerStatus(ctx context.Context, _ *websocket.Conn, input PlayerStatusInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.ReportStatus(ctx, &session.ReportStatusParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Status:    input.status(),
	}); err != nil {
		return fmt.Errorf("failed to report player status: %w", err)
	}

	return nil
}

func (c controller) handleTogglePlayPause(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.TogglePlayPause(ctx, c.getSessionIdFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to toggle play pause: %w", err)
	}

	return nil
}

type SeekInput struct {
	Fraction *float64 `json:"fraction" validate:"required,gte=0,lte=1"`
}

func (c controller) handleSeek(ctx context.Context, _ *websocket.Conn, input SeekInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.Seek(ctx, &session.SeekParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Fraction:  *input.Fraction,
	}); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return nil
}

type SkipInput struct {
	Direction string `json:"direction" validate:"required,oneof=backward forward"`
}

func (c controller) handleSkip(ctx context.Context, _ *websocket.Conn, input SkipInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.sessionService.Skip(ctx, &session.SkipParams{
		SessionId: c.getSessionIdFromCtx(ctx),
		Direction: input.Direction,
	}); err != nil {
		return fmt.Errorf("failed to skip: %w", err)
	}

	return nil
}

func (c controller) handleClose(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.sessionService.ClosePlayer(ctx, c.getSessionIdFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to close player: %w", err)
	}

	return nil
}

type validationFailure struct {
	errs []validator.ValidationError
}

func (e *validationFailure) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationError, validator.Error(e.errs))
}

func (e *validationFailure) Unwrap() error {
	return ErrValidationError
}

func (c controller) validateInput(input any) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return &validationFailure{errs: errs}
	}

	return nil
}
