package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/pelmanism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// 2x2 grid of 10px cells starting at the viewport origin.
func smallOptions() pelmanism.Options {
	return pelmanism.Options{
		Side:      2,
		BoardSize: 20,
		Width:     20,
		Height:    20,
		Alphabet:  "AB",
		HideDelay: 3,
	}
}

func newTestSession(t *testing.T) *GameSession {
	t.Helper()

	session, err := NewGameSession(discardLogger(), "s1", smallOptions(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	return session
}

func clickOn(cell *pelmanism.Cell) *Input {
	return &Input{X: cell.Left() + cell.Size()/2, Y: cell.Top() + cell.Size()/2, Select: true}
}

func cellsBySymbol(board *pelmanism.Board) map[pelmanism.Symbol][]*pelmanism.Cell {
	out := make(map[pelmanism.Symbol][]*pelmanism.Cell)
	for _, cell := range board.Cells() {
		out[cell.Symbol()] = append(out[cell.Symbol()], cell)
	}
	return out
}

// symbolLayout lists symbols in row-major grid order.
func symbolLayout(board *pelmanism.Board) []pelmanism.Symbol {
	layout := make([]pelmanism.Symbol, 0, board.Side()*board.Side())
	for y := 0; y < board.Side(); y++ {
		for x := 0; x < board.Side(); x++ {
			layout = append(layout, board.CellAt(x, y).Symbol())
		}
	}
	return layout
}

func TestNewGameSession(t *testing.T) {
	t.Run("Rejects invalid options", func(t *testing.T) {
		options := smallOptions()
		options.Alphabet = "A"

		session, err := NewGameSession(discardLogger(), "s1", options, rand.New(rand.NewSource(1)))

		require.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestGameSession_Step(t *testing.T) {
	t.Run("Idle frame only advances the counter", func(t *testing.T) {
		session := newTestSession(t)

		snapshot, err := session.Step(nil)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), snapshot.Frame)
		assert.Equal(t, 0, snapshot.ClickCount)
	})

	t.Run("Mismatch is hidden after the delay", func(t *testing.T) {
		// Given: a session and one A and one B cell
		session := newTestSession(t)
		bySymbol := cellsBySymbol(session.Board())
		a, b := bySymbol["A"][0], bySymbol["B"][0]

		// When: both are clicked on consecutive frames
		_, err := session.Step(clickOn(a))
		require.NoError(t, err)
		snapshot, err := session.Step(clickOn(b))
		require.NoError(t, err)

		// Then: they stay up for the delay, then go face down
		assert.True(t, snapshot.HideInProgress)
		for i := 0; i < 2; i++ {
			snapshot, err = session.Step(nil)
			require.NoError(t, err)
			assert.True(t, snapshot.HideInProgress)
		}

		snapshot, err = session.Step(nil)
		require.NoError(t, err)
		assert.False(t, snapshot.HideInProgress)
		assert.False(t, a.IsRevealed())
		assert.False(t, b.IsRevealed())
		assert.Equal(t, 2, snapshot.ClickCount)
	})

	t.Run("Clicks during a hide are ignored", func(t *testing.T) {
		session := newTestSession(t)
		bySymbol := cellsBySymbol(session.Board())

		_, err := session.Step(clickOn(bySymbol["A"][0]))
		require.NoError(t, err)
		_, err = session.Step(clickOn(bySymbol["B"][0]))
		require.NoError(t, err)

		snapshot, err := session.Step(clickOn(bySymbol["A"][1]))

		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.ClickCount)
		assert.False(t, bySymbol["A"][1].IsRevealed())
	})

	t.Run("Matching every pair completes the board", func(t *testing.T) {
		session := newTestSession(t)
		bySymbol := cellsBySymbol(session.Board())

		var snapshot *entity.Snapshot
		var err error
		for _, symbol := range []pelmanism.Symbol{"A", "B"} {
			for _, cell := range bySymbol[symbol] {
				snapshot, err = session.Step(clickOn(cell))
				require.NoError(t, err)
			}
		}

		assert.True(t, snapshot.Completed)
		assert.Equal(t, string(pelmanism.StateCompleted), snapshot.State)
		assert.Equal(t, 4, snapshot.ClickCount)
	})

	t.Run("Restart deals a fresh board", func(t *testing.T) {
		// Given: a session with some progress
		session := newTestSession(t)
		before := session.Board()
		_, err := session.Step(clickOn(before.Cells()[0]))
		require.NoError(t, err)

		// When: a restart arrives
		snapshot, err := session.Step(&Input{Restart: true})

		// Then: board and engine are replaced with the same configuration
		require.NoError(t, err)
		assert.NotSame(t, before, session.Board())
		assert.Equal(t, 0, snapshot.ClickCount)
		assert.Equal(t, uint64(1), snapshot.Frame)
		assert.Equal(t, before.Options(), session.Board().Options())
	})

	t.Run("Restart reshuffles the symbol layout", func(t *testing.T) {
		// Given: a default 5x5 session on a seeded generator
		session, err := NewGameSession(discardLogger(), "s1", pelmanism.DefaultOptions(), rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		before := symbolLayout(session.Board())

		// When: the session is restarted
		_, err = session.Step(&Input{Restart: true})
		require.NoError(t, err)

		// Then: the same symbols sit on different coordinates
		after := symbolLayout(session.Board())
		assert.NotEqual(t, before, after)
		assert.ElementsMatch(t, before, after)
	})
}

func TestGameSession_Run(t *testing.T) {
	// Given: a session with two clicks queued before it starts
	session := newTestSession(t)
	first := session.Board().Cells()[0]

	inputs := make(chan Input, 2)
	inputs <- *clickOn(first)
	inputs <- *clickOn(first)

	var mu sync.Mutex
	var published []*entity.Snapshot

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// When: the loop runs for a few frames
	go func() {
		done <- session.Run(ctx, time.Millisecond, inputs, func(snapshot *entity.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			published = append(published, snapshot)
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(published) >= 3
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	// Then: one input per frame was consumed and the second click was ignored
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, published[0].ClickCount)
	assert.Equal(t, 1, published[1].ClickCount)
	assert.Empty(t, inputs)
	for i := 1; i < len(published); i++ {
		assert.Greater(t, published[i].Frame, published[i-1].Frame)
	}
}
