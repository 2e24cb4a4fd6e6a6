package service

import "attendance/internal/domain/entity"

// DisplayNotifier fans rotation session events out to the display screens
type DisplayNotifier interface {
	// SessionChanged publishes the latest session snapshot
	SessionChanged(snapshot entity.RotationSnapshot)

	// GenerationFailed publishes a one-shot, user-visible error
	GenerationFailed(err error)
}
