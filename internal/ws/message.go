package ws

import (
	"time"

	"github.com/nobrega8/netscan2/pkg/models"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageSweepStarted     MessageType = "sweep.started"
	MessageSweepProgress    MessageType = "sweep.progress"
	MessageSweepDeviceFound MessageType = "sweep.device_found"
	MessageSweepCompleted   MessageType = "sweep.completed"
	MessageSweepError       MessageType = "sweep.error"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	SweepID   string      `json:"sweep_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// SweepStartedData is the payload for sweep.started messages.
type SweepStartedData struct {
	Subnet string `json:"subnet"`
	Total  int    `json:"total"`
}

// SweepProgressData is the payload for sweep.progress messages.
type SweepProgressData struct {
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Found     int     `json:"found"`
	Fraction  float64 `json:"fraction"`
}

// SweepDeviceFoundData is the payload for sweep.device_found messages.
type SweepDeviceFoundData struct {
	Device *models.Device `json:"device"`
}

// SweepCompletedData is the payload for sweep.completed messages.
type SweepCompletedData struct {
	Status  string    `json:"status"`
	Total   int       `json:"total"`
	Found   int       `json:"found"`
	EndedAt time.Time `json:"endedAt"`
}

// SweepErrorData is the payload for sweep.error messages.
type SweepErrorData struct {
	Error string `json:"error"`
}
