package live

import "encoding/json"

// Message is one frame sent to a viewer.
type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type ViewersPayload struct {
	Count int `json:"count"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// TypeSnapshot carries the saved document when a viewer joins.
	TypeSnapshot = "drawing.snapshot"
	// TypeUpdate carries the document after every save.
	TypeUpdate  = "drawing.updated"
	TypeViewers = "viewers"
	TypeError   = "error"
)
