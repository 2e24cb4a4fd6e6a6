package entity

// RotationState is the state of the QR rotation session
type RotationState string

const (
	RotationStateIdle    RotationState = "idle"
	RotationStateRunning RotationState = "running"
	RotationStateCutoff  RotationState = "cutoff"
)

// RotationSnapshot is a point-in-time copy of the rotation session.
// Active is only ever true while PastCutoff is false.
type RotationSnapshot struct {
	State            RotationState `json:"state"`
	Active           bool          `json:"active"`
	PastCutoff       bool          `json:"pastCutoff"`
	SecondsRemaining int           `json:"secondsRemaining"`
	ValidForSeconds  int           `json:"validForSeconds"`
	CutoffHour       int           `json:"cutoffHour"`
	Token            *DisplayToken `json:"token"`
}
