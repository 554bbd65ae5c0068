package sweep

import "github.com/nobrega8/netscan2/pkg/models"

// Event topics published by the sweep engine.
const (
	TopicSweepStarted   = "sweep.started"
	TopicSweepProgress  = "sweep.progress"
	TopicSweepDevice    = "sweep.device"
	TopicSweepCompleted = "sweep.completed"
	TopicSweepError     = "sweep.error"
)

// ProgressEvent reports completion of one probed host.
type ProgressEvent struct {
	SweepID   string `json:"sweep_id"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Found     int    `json:"found"`
}

// Fraction returns processed/total in [0,1]; 1.0 exactly when every host
// has been dispatched and completed.
func (p ProgressEvent) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Processed) / float64(p.Total)
}

// DeviceEvent wraps a discovered device with its sweep ID.
type DeviceEvent struct {
	SweepID string         `json:"sweep_id"`
	Device  *models.Device `json:"device"`
}

// ErrorEvent is the payload for TopicSweepError.
type ErrorEvent struct {
	SweepID string `json:"sweep_id"`
	Error   string `json:"error"`
}
