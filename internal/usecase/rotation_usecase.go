package usecase

import (
	"context"

	"attendance/internal/domain/entity"
)

// RotationUsecase owns the QR display session of one station. The session
// holds its rotation, countdown and cutoff-poll task handles and releases
// them on every exit path.
type RotationUsecase interface {
	// Open arms the cutoff poll for the lifetime of the station and checks the cutoff once
	Open(ctx context.Context)

	// Close stops the session and releases the cutoff poll
	Close()

	// Start moves Idle to Running and issues the first token. It is a no-op
	// while Running or past the cutoff. A non-nil error reports a failed first
	// generation; the session is still Running in that case.
	Start(ctx context.Context) (entity.RotationSnapshot, error)

	// Stop moves Running to Idle and discards the token. It is idempotent.
	Stop() entity.RotationSnapshot

	// Snapshot returns the current session state
	Snapshot() entity.RotationSnapshot

	// CurrentToken returns the displayed token or ErrTokenUnavailable
	CurrentToken() (*entity.DisplayToken, error)
}
