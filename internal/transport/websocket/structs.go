package websocket

import (
	"encoding/json"
)

const (
	actionPointer  = "pointer"
	actionRestart  = "restart"
	actionSnapshot = "snapshot"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PointerPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Select bool    `json:"select"`
}

type ErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
