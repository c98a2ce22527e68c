package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/service"
)

func (that *Server) handlePointer(ctx context.Context, sessionID string, msg *Message) error {
	var payload PointerPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal pointer payload: %w", err)
	}

	input := service.Input{X: payload.X, Y: payload.Y, Select: payload.Select}
	if err := that.sessionUseCase.SendInput(ctx, sessionID, input); err != nil {
		return fmt.Errorf("failed to send input: %w", err)
	}

	return nil
}

func (that *Server) handleRestart(ctx context.Context, sessionID string, _ *Message) error {
	if err := that.sessionUseCase.Restart(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to restart session: %w", err)
	}

	return nil
}

func snapshotMessage(snapshot *entity.Snapshot) Message {
	return Message{
		Action:  actionSnapshot,
		Payload: mustMarshal(snapshot),
	}
}

func errorMessage(action, text string) Message {
	return Message{
		Action:  actionError,
		Payload: mustMarshal(ErrorPayload{Action: action, Message: text}),
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
