package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/pelmanism"
	"github.com/rocketscienceinc/pelmanism/internal/pkg"
	"github.com/rocketscienceinc/pelmanism/internal/repository"
	"github.com/rocketscienceinc/pelmanism/internal/service"
)

const subscriberBuffer = 8

type snapshotRepo interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, sessionID string) (*entity.Snapshot, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type Settings struct {
	Options       pelmanism.Options
	FrameInterval time.Duration
	InputQueue    int
}

// SessionManager runs one frame loop goroutine per session and routes input to it.
type SessionManager struct {
	logger       *slog.Logger
	snapshotRepo snapshotRepo
	settings     Settings
	newRNG       func() *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*runningSession
}

type runningSession struct {
	inputs chan service.Input
	cancel context.CancelFunc
	done   chan struct{}
	latest atomic.Pointer[entity.Snapshot]

	subsMu      sync.Mutex
	subscribers map[int]chan *entity.Snapshot
	nextSub     int
	closed      bool
}

func NewSessionManager(logger *slog.Logger, snapshotRepo snapshotRepo, settings Settings) *SessionManager {
	if settings.InputQueue < 1 {
		settings.InputQueue = 1
	}

	return &SessionManager{
		logger:       logger.With("component", "sessionManager"),
		snapshotRepo: snapshotRepo,
		settings:     settings,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // placement only
		},
		sessions: make(map[string]*runningSession),
	}
}

// CreateSession deals a new board and starts its frame loop. The loop outlives
// ctx and stops on CloseSession or Shutdown.
func (that *SessionManager) CreateSession(ctx context.Context) (*entity.Snapshot, error) {
	log := that.logger.With("method", "CreateSession")

	sessionID, err := pkg.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("error generating session ID: %w", err)
	}

	session, err := service.NewGameSession(that.logger, sessionID, that.settings.Options, that.newRNG())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	snapshot := session.Snapshot()
	if err = that.snapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	running := &runningSession{
		inputs:      make(chan service.Input, that.settings.InputQueue),
		cancel:      cancel,
		done:        make(chan struct{}),
		subscribers: make(map[int]chan *entity.Snapshot),
	}
	running.latest.Store(snapshot)

	that.mu.Lock()
	that.sessions[sessionID] = running
	that.mu.Unlock()

	go that.run(loopCtx, session, running)

	log.Info("session created", "sessionID", sessionID)

	return snapshot, nil
}

func (that *SessionManager) run(ctx context.Context, session *service.GameSession, running *runningSession) {
	defer close(running.done)

	log := that.logger.With("method", "run", "sessionID", session.ID())

	publish := func(snapshot *entity.Snapshot) {
		previous := running.latest.Swap(snapshot)
		if !hasVisibleChange(previous, snapshot) {
			return
		}

		if err := that.snapshotRepo.Save(ctx, snapshot); err != nil && ctx.Err() == nil {
			log.Error("failed to save snapshot", "error", err)
		}

		running.broadcast(snapshot)
	}

	if err := session.Run(ctx, that.settings.FrameInterval, running.inputs, publish); err != nil {
		log.Error("frame loop stopped", "error", err)
	}
}

// hasVisibleChange ignores the frame counter so idle frames are not re-published.
func hasVisibleChange(previous, next *entity.Snapshot) bool {
	if previous == nil {
		return true
	}

	return previous.ClickCount != next.ClickCount ||
		previous.State != next.State ||
		previous.HideInProgress != next.HideInProgress ||
		previous.BannerVisible != next.BannerVisible ||
		previous.CollectedCount != next.CollectedCount
}

func (that *SessionManager) getSession(sessionID string) (*runningSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	running, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return running, nil
}

// SendInput queues pointer input. When the queue is full the input is dropped,
// like a click landing between polled frames.
func (that *SessionManager) SendInput(_ context.Context, sessionID string, input service.Input) error {
	running, err := that.getSession(sessionID)
	if err != nil {
		return err
	}

	select {
	case running.inputs <- input:
	default:
		that.logger.Debug("input queue full, dropping input", "sessionID", sessionID)
	}

	return nil
}

// Restart waits for queue room so the restart is never dropped.
func (that *SessionManager) Restart(ctx context.Context, sessionID string) error {
	running, err := that.getSession(sessionID)
	if err != nil {
		return err
	}

	select {
	case running.inputs <- service.Input{Restart: true}:
		return nil
	case <-running.done:
		return fmt.Errorf("%w: %s", apperror.ErrSessionClosed, sessionID)
	case <-ctx.Done():
		return fmt.Errorf("failed to queue restart: %w", ctx.Err())
	}
}

// GetSnapshot prefers the live session and falls back to the snapshot store.
func (that *SessionManager) GetSnapshot(ctx context.Context, sessionID string) (*entity.Snapshot, error) {
	if running, err := that.getSession(sessionID); err == nil {
		return running.latest.Load(), nil
	}

	snapshot, err := that.snapshotRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// Subscribe streams every visible change of a session. The channel is closed
// when the session closes; call the returned func to unsubscribe earlier.
func (that *SessionManager) Subscribe(sessionID string) (<-chan *entity.Snapshot, func(), error) {
	running, err := that.getSession(sessionID)
	if err != nil {
		return nil, nil, err
	}

	running.subsMu.Lock()
	defer running.subsMu.Unlock()

	if running.closed {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrSessionClosed, sessionID)
	}

	id := running.nextSub
	running.nextSub++

	ch := make(chan *entity.Snapshot, subscriberBuffer)
	ch <- running.latest.Load()
	running.subscribers[id] = ch

	unsubscribe := func() {
		running.subsMu.Lock()
		defer running.subsMu.Unlock()

		if sub, ok := running.subscribers[id]; ok {
			delete(running.subscribers, id)
			close(sub)
		}
	}

	return ch, unsubscribe, nil
}

// broadcast never blocks the frame loop. A subscriber with a full buffer loses
// its oldest pending snapshot so the latest state always reaches it.
func (that *runningSession) broadcast(snapshot *entity.Snapshot) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	for _, sub := range that.subscribers {
		select {
		case sub <- snapshot:
			continue
		default:
		}

		select {
		case <-sub:
		default:
		}

		select {
		case sub <- snapshot:
		default:
		}
	}
}

func (that *runningSession) stop() {
	that.cancel()
	<-that.done

	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	that.closed = true
	for id, sub := range that.subscribers {
		delete(that.subscribers, id)
		close(sub)
	}
}

// CloseSession stops the frame loop and drops the stored snapshot.
func (that *SessionManager) CloseSession(ctx context.Context, sessionID string) error {
	log := that.logger.With("method", "CloseSession", "sessionID", sessionID)

	that.mu.Lock()
	running, ok := that.sessions[sessionID]
	delete(that.sessions, sessionID)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	running.stop()

	if err := that.snapshotRepo.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrSnapshotNotFound) {
		log.Error("failed to delete snapshot", "error", err)
	}

	log.Info("session closed")

	return nil
}

// Shutdown closes every running session.
func (that *SessionManager) Shutdown(ctx context.Context) {
	that.mu.RLock()
	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.RUnlock()

	for _, id := range ids {
		if err := that.CloseSession(ctx, id); err != nil {
			that.logger.Error("failed to close session", "sessionID", id, "error", err)
		}
	}
}

// SessionCount returns the number of running sessions.
func (that *SessionManager) SessionCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}
