package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"attendance/config"
	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/service"
	"attendance/internal/usecase"
)

const countdownInterval = time.Second

type rotationService struct {
	issuer    service.QRTokenIssuer
	scheduler service.Scheduler
	notifier  service.DisplayNotifier
	logger    *slog.Logger

	cutoffHour   int
	validFor     time.Duration
	pollInterval time.Duration
	location     *time.Location

	mu sync.Mutex
	// notifyMu is taken before mu is released so that broadcasts leave in
	// the order their snapshots were taken
	notifyMu sync.Mutex

	state            entity.RotationState
	token            *entity.DisplayToken
	secondsRemaining int

	// epoch increases on every entry to Running; results of generation calls
	// issued under an older epoch are discarded
	epoch    uint64
	inflight uint64

	rotationTask    service.Task
	countdownTask   service.Task
	countdownSerial uint64
	pollTask        service.Task

	// local date on which Cutoff was entered
	cutoffDate string

	sessionCtx    context.Context
	cancelSession context.CancelFunc
}

// NewRotationService creates the QR rotation session
func NewRotationService(
	issuer service.QRTokenIssuer,
	scheduler service.Scheduler,
	notifier service.DisplayNotifier,
	cfg *config.Config,
	logger *slog.Logger,
) (usecase.RotationUsecase, error) {
	if cfg.QR == nil {
		cfg.ApplyDefaults()
	}

	location, err := cfg.QR.Location()
	if err != nil {
		return nil, err
	}

	return &rotationService{
		issuer:        issuer,
		scheduler:     scheduler,
		notifier:      notifier,
		logger:        logger,
		cutoffHour:    cfg.QR.Cutoff(),
		validFor:      cfg.QR.ValidFor(),
		pollInterval:  cfg.QR.CutoffPollInterval,
		location:      location,
		state:         entity.RotationStateIdle,
		sessionCtx:    context.Background(),
		cancelSession: func() {},
	}, nil
}

func (s *rotationService) Open(ctx context.Context) {
	s.mu.Lock()
	if s.pollTask != nil {
		s.mu.Unlock()

		return
	}

	s.sessionCtx, s.cancelSession = context.WithCancel(context.WithoutCancel(ctx))
	s.pollTask = s.scheduler.Every(s.pollInterval, s.onCutoffPoll)
	changed := s.refreshCutoffLocked(s.scheduler.Now())
	snapshot := s.snapshotLocked()
	s.unlockAndPublish(snapshot, changed)

	s.logger.Info("QR rotation session opened",
		slog.Int("cutoff_hour", s.cutoffHour),
		slog.Duration("valid_for", s.validFor),
		slog.String("state", string(snapshot.State)),
	)
}

func (s *rotationService) Close() {
	s.Stop()

	s.mu.Lock()
	if s.pollTask != nil {
		s.pollTask.Cancel()
		s.pollTask = nil
	}
	s.cancelSession()
	s.mu.Unlock()

	s.logger.Info("QR rotation session closed")
}

func (s *rotationService) Start(ctx context.Context) (entity.RotationSnapshot, error) {
	s.mu.Lock()
	cutoffChanged := s.refreshCutoffLocked(s.scheduler.Now())
	if s.state != entity.RotationStateIdle {
		snapshot := s.snapshotLocked()
		s.unlockAndPublish(snapshot, cutoffChanged)

		s.logger.Debug("Ignoring start", slog.String("state", string(snapshot.State)))

		return snapshot, nil
	}

	s.state = entity.RotationStateRunning
	s.epoch++
	epoch := s.epoch
	s.secondsRemaining = 0
	s.rotationTask = s.scheduler.Every(s.validFor, func() {
		s.onRotationTick(epoch)
	})
	s.unlockAndPublish(s.snapshotLocked(), true)

	s.logger.Info("QR rotation started")

	err := s.generate(ctx, epoch)

	return s.Snapshot(), err
}

func (s *rotationService) Stop() entity.RotationSnapshot {
	s.mu.Lock()
	if s.state != entity.RotationStateRunning {
		snapshot := s.snapshotLocked()
		s.mu.Unlock()

		return snapshot
	}

	s.leaveRunningLocked(entity.RotationStateIdle)
	snapshot := s.snapshotLocked()
	s.unlockAndPublish(snapshot, true)

	s.logger.Info("QR rotation stopped")

	return snapshot
}

func (s *rotationService) Snapshot() entity.RotationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *rotationService) CurrentToken() (*entity.DisplayToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return nil, domainerrors.ErrTokenUnavailable
	}

	token := *s.token

	return &token, nil
}

func (s *rotationService) onRotationTick(epoch uint64) {
	s.mu.Lock()
	ctx := s.sessionCtx
	s.mu.Unlock()

	// failures are reported through the notifier
	_ = s.generate(ctx, epoch)
}

// generate requests a token for the given epoch. The cutoff is re-checked
// synchronously right before the call, and the result is dropped when the
// session left Running while the call was in flight.
func (s *rotationService) generate(ctx context.Context, epoch uint64) error {
	s.mu.Lock()
	if s.refreshCutoffLocked(s.scheduler.Now()) {
		s.unlockAndPublish(s.snapshotLocked(), true)

		return nil
	}
	if s.state != entity.RotationStateRunning || s.epoch != epoch {
		s.mu.Unlock()

		return nil
	}
	if s.inflight == epoch {
		s.mu.Unlock()
		s.logger.Warn("Previous QR generation still in flight, skipping tick")

		return nil
	}
	s.inflight = epoch
	s.mu.Unlock()

	token, err := s.issuer.GenerateToken(ctx)

	s.mu.Lock()
	if s.inflight == epoch {
		s.inflight = 0
	}
	if s.state != entity.RotationStateRunning || s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("Discarding QR generation result for a finished session")

		return nil
	}

	if err != nil {
		genErr := domainerrors.ErrGenerationFailure.WithDetails(err.Error())

		s.notifyMu.Lock()
		s.mu.Unlock()
		s.notifier.GenerationFailed(genErr)
		s.notifyMu.Unlock()

		s.logger.Warn("QR generation failed, keeping current token", slog.Any("error", err))

		return genErr
	}

	token.IssuedAt = s.scheduler.Now()
	token.ValidFor = s.validFor
	s.token = token
	s.secondsRemaining = s.validForSeconds()
	s.restartCountdownLocked()
	s.unlockAndPublish(s.snapshotLocked(), true)

	s.logger.Debug("QR token rotated", slog.Time("issued_at", token.IssuedAt))

	return nil
}

func (s *rotationService) restartCountdownLocked() {
	if s.countdownTask != nil {
		s.countdownTask.Cancel()
	}

	s.countdownSerial++
	serial := s.countdownSerial
	s.countdownTask = s.scheduler.Every(countdownInterval, func() {
		s.onCountdownTick(serial)
	})
}

func (s *rotationService) onCountdownTick(serial uint64) {
	s.mu.Lock()
	if serial != s.countdownSerial || s.state != entity.RotationStateRunning {
		s.mu.Unlock()

		return
	}

	if s.secondsRemaining > 0 {
		s.secondsRemaining--
	}
	if s.secondsRemaining == 0 && s.countdownTask != nil {
		s.countdownTask.Cancel()
		s.countdownTask = nil
	}
	s.unlockAndPublish(s.snapshotLocked(), true)
}

func (s *rotationService) onCutoffPoll() {
	s.mu.Lock()
	changed := s.refreshCutoffLocked(s.scheduler.Now())
	snapshot := s.snapshotLocked()
	s.unlockAndPublish(snapshot, changed)

	if changed {
		s.logger.Info("QR rotation cutoff state changed", slog.String("state", string(snapshot.State)))
	}
}

// unlockAndPublish releases mu and, when publish is set, broadcasts the
// snapshot taken under it. Must be called with mu held.
func (s *rotationService) unlockAndPublish(snapshot entity.RotationSnapshot, publish bool) {
	if !publish {
		s.mu.Unlock()

		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Unlock()
	s.notifier.SessionChanged(snapshot)
}

// refreshCutoffLocked applies the cutoff transitions for the given time and
// reports whether the state changed. Past the cutoff hour Idle and Running
// move to Cutoff. On a later calendar day before the cutoff hour, Cutoff
// moves back to Idle.
func (s *rotationService) refreshCutoffLocked(now time.Time) bool {
	local := now.In(s.location)
	pastCutoff := local.Hour() >= s.cutoffHour
	today := local.Format(time.DateOnly)

	switch s.state {
	case entity.RotationStateIdle:
		if pastCutoff {
			s.state = entity.RotationStateCutoff
			s.cutoffDate = today

			return true
		}

	case entity.RotationStateRunning:
		if pastCutoff {
			s.leaveRunningLocked(entity.RotationStateCutoff)
			s.cutoffDate = today

			return true
		}

	case entity.RotationStateCutoff:
		if !pastCutoff && today != s.cutoffDate {
			s.state = entity.RotationStateIdle
			s.cutoffDate = ""

			return true
		}
	}

	return false
}

// leaveRunningLocked releases both session tasks and discards the token
func (s *rotationService) leaveRunningLocked(next entity.RotationState) {
	if s.rotationTask != nil {
		s.rotationTask.Cancel()
		s.rotationTask = nil
	}
	if s.countdownTask != nil {
		s.countdownTask.Cancel()
		s.countdownTask = nil
	}

	s.countdownSerial++
	s.state = next
	s.token = nil
	s.secondsRemaining = 0
}

func (s *rotationService) validForSeconds() int {
	return int(s.validFor / time.Second)
}

func (s *rotationService) snapshotLocked() entity.RotationSnapshot {
	snapshot := entity.RotationSnapshot{
		State:            s.state,
		Active:           s.state == entity.RotationStateRunning,
		PastCutoff:       s.state == entity.RotationStateCutoff,
		SecondsRemaining: s.secondsRemaining,
		ValidForSeconds:  s.validForSeconds(),
		CutoffHour:       s.cutoffHour,
	}
	if s.token != nil {
		token := *s.token
		snapshot.Token = &token
	}

	return snapshot
}
