package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/pelmanism"
)

// Input is what the input adapter saw during one frame.
type Input struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Select  bool    `json:"select"`
	Restart bool    `json:"restart,omitempty"`
}

// GameSession owns one board and its engine. It is not safe for concurrent
// use: a single goroutine drives it, normally through Run.
type GameSession struct {
	logger  *slog.Logger
	id      string
	options pelmanism.Options
	rng     *rand.Rand
	board   *pelmanism.Board
}

func NewGameSession(logger *slog.Logger, id string, options pelmanism.Options, rng *rand.Rand) (*GameSession, error) {
	board, err := pelmanism.NewBoard(options, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	return &GameSession{
		logger:  logger.With("component", "session", "sessionID", id),
		id:      id,
		options: options,
		rng:     rng,
		board:   board,
	}, nil
}

func (that *GameSession) ID() string {
	return that.id
}

func (that *GameSession) Board() *pelmanism.Board {
	return that.board
}

// Reset discards the board and engine and deals a fresh one with the same options.
func (that *GameSession) Reset() error {
	board, err := pelmanism.NewBoard(that.options, that.rng)
	if err != nil {
		return fmt.Errorf("failed to rebuild board: %w", err)
	}

	that.board = board
	that.logger.Info("board reset")

	return nil
}

// Step runs one frame: dispatch input, then the hide check and frame advance.
func (that *GameSession) Step(input *Input) (*entity.Snapshot, error) {
	if input != nil {
		if err := that.dispatch(input); err != nil {
			return nil, err
		}
	}

	engine := that.board.Engine()
	if engine.Tick() {
		that.logger.Debug("mismatched pair hidden", "clicks", engine.ClickCount())
	}

	return that.Snapshot(), nil
}

func (that *GameSession) dispatch(input *Input) error {
	if input.Restart {
		return that.Reset()
	}

	engine := that.board.Engine()
	wasCompleted := engine.IsCompleted()

	if that.board.HandlePointer(input.X, input.Y, input.Select) && !wasCompleted && engine.IsCompleted() {
		that.logger.Info("board completed", "clicks", engine.ClickCount())
	}

	return nil
}

func (that *GameSession) Snapshot() *entity.Snapshot {
	return entity.NewSnapshot(that.id, that.board)
}

// Run steps the session once per interval until ctx is done. At most one
// queued input is consumed per frame.
func (that *GameSession) Run(ctx context.Context, interval time.Duration, inputs <-chan Input, publish func(*entity.Snapshot)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var input *Input
		select {
		case in := <-inputs:
			input = &in
		default:
		}

		snapshot, err := that.Step(input)
		if err != nil {
			return fmt.Errorf("frame failed: %w", err)
		}

		publish(snapshot)
	}
}
