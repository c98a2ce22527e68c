package pelmanism

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	return Options{
		Side:      2,
		BoardSize: 20,
		Width:     20,
		Height:    20,
		Alphabet:  "AB",
		HideDelay: DefaultHideDelay,
	}
}

func TestOptions_Geometry(t *testing.T) {
	// Given: the default configuration
	options := DefaultOptions()

	// When: the geometry is derived
	geometry := options.Geometry()

	// Then: the 70px grid is centred in the 160x120 viewport with 14px cells
	assert.InDelta(t, 45.0, geometry.OriginX, 1e-9)
	assert.InDelta(t, 25.0, geometry.OriginY, 1e-9)
	assert.InDelta(t, 14.0, geometry.CellSize, 1e-9)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr error
	}{
		{"Default options are valid", func(_ *Options) {}, nil},
		{"Zero side", func(o *Options) { o.Side = 0 }, apperror.ErrInvalidSide},
		{"Zero board size", func(o *Options) { o.BoardSize = 0 }, apperror.ErrInvalidGeometry},
		{"Zero hide delay", func(o *Options) { o.HideDelay = 0 }, apperror.ErrInvalidHideDelay},
		{"Pool too small", func(o *Options) { o.Alphabet = "ABC" }, apperror.ErrSymbolPoolTooSmall},
		{"Odd board with strict pairs", func(o *Options) { o.StrictPairs = true }, apperror.ErrOddBoard},
		{"Even board with strict pairs", func(o *Options) { o.Side = 4; o.StrictPairs = true }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := DefaultOptions()
			tt.mutate(&options)

			err := options.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewBoard(t *testing.T) {
	t.Run("Every coordinate is assigned exactly once", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			// Given: a default board built from a seeded generator
			board, err := NewBoard(DefaultOptions(), rand.New(rand.NewSource(seed)))
			require.NoError(t, err)

			// Then: the grid has no gaps and no duplicates
			seen := make(map[Coordinate]bool)
			for _, cell := range board.Cells() {
				at := Coordinate{X: cell.X(), Y: cell.Y()}
				assert.False(t, seen[at], "duplicate coordinate %v", at)
				seen[at] = true
			}
			assert.Len(t, seen, 25)

			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					assert.NotNil(t, board.CellAt(x, y))
				}
			}
		}
	})

	t.Run("Symbols follow the pool in placement order", func(t *testing.T) {
		// Given: a seeded default board
		board, err := NewBoard(DefaultOptions(), rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		// Then: the placement order consumes A, A, B, B, ... M
		pool, err := BuildSymbolPool(DefaultAlphabet, 25)
		require.NoError(t, err)

		for i, cell := range board.Cells() {
			assert.Equal(t, pool[i], cell.Symbol())
		}
	})

	t.Run("Same seed gives the same layout", func(t *testing.T) {
		first := MustNewBoard(DefaultOptions(), rand.New(rand.NewSource(42)))
		second := MustNewBoard(DefaultOptions(), rand.New(rand.NewSource(42)))

		for i, cell := range first.Cells() {
			other := second.Cells()[i]
			assert.Equal(t, cell.X(), other.X())
			assert.Equal(t, cell.Y(), other.Y())
			assert.Equal(t, cell.Symbol(), other.Symbol())
		}
	})

	t.Run("Invalid options abort construction", func(t *testing.T) {
		options := DefaultOptions()
		options.Alphabet = "AB"

		board, err := NewBoard(options, rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, apperror.ErrSymbolPoolTooSmall)
		assert.Nil(t, board)
	})

	t.Run("Negative side is rejected before any coordinate is drawn", func(t *testing.T) {
		options := DefaultOptions()
		options.Side = -3

		board, err := NewBoard(options, rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, apperror.ErrInvalidSide)
		assert.Nil(t, board)
	})

	t.Run("MustNewBoard panics on setup errors", func(t *testing.T) {
		options := DefaultOptions()
		options.Side = 0

		assert.Panics(t, func() {
			MustNewBoard(options, rand.New(rand.NewSource(1)))
		})
	})
}

func TestNewBoardWithCoordinates(t *testing.T) {
	t.Run("Assigns the pool to coordinates in order", func(t *testing.T) {
		board, err := NewBoardWithCoordinates(smallOptions(), []Coordinate{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
		require.NoError(t, err)

		assert.Equal(t, Symbol("A"), board.CellAt(0, 0).Symbol())
		assert.Equal(t, Symbol("A"), board.CellAt(1, 0).Symbol())
		assert.Equal(t, Symbol("B"), board.CellAt(0, 1).Symbol())
		assert.Equal(t, Symbol("B"), board.CellAt(1, 1).Symbol())
	})

	t.Run("Duplicate coordinate", func(t *testing.T) {
		_, err := NewBoardWithCoordinates(smallOptions(), []Coordinate{{0, 0}, {0, 0}, {0, 1}, {1, 1}})

		assert.ErrorIs(t, err, apperror.ErrDuplicateCoordinate)
	})

	t.Run("Coordinate out of range", func(t *testing.T) {
		_, err := NewBoardWithCoordinates(smallOptions(), []Coordinate{{0, 0}, {2, 0}, {0, 1}, {1, 1}})

		assert.ErrorIs(t, err, apperror.ErrCoordinateOutOfRange)
	})

	t.Run("Wrong number of coordinates", func(t *testing.T) {
		_, err := NewBoardWithCoordinates(smallOptions(), []Coordinate{{0, 0}})

		assert.ErrorIs(t, err, apperror.ErrCoordinateCount)
		assert.NotErrorIs(t, err, apperror.ErrCoordinateOutOfRange)
	})
}

func TestBoard_HandlePointer(t *testing.T) {
	newBoard := func(t *testing.T) *Board {
		t.Helper()
		board, err := NewBoardWithCoordinates(smallOptions(), []Coordinate{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
		require.NoError(t, err)
		return board
	}

	t.Run("Select inside a cell reveals it", func(t *testing.T) {
		board := newBoard(t)

		ok := board.HandlePointer(15, 5, true)

		assert.True(t, ok)
		assert.True(t, board.CellAt(1, 0).IsRevealed())
		assert.Equal(t, 1, board.Engine().ClickCount())
	})

	t.Run("Hover without select does nothing", func(t *testing.T) {
		board := newBoard(t)

		ok := board.HandlePointer(15, 5, false)

		assert.False(t, ok)
		assert.Equal(t, 0, board.Engine().ClickCount())
		assert.Equal(t, board.CellAt(1, 0), board.CellUnder(15, 5))
	})

	t.Run("Select on a grid line hits nothing", func(t *testing.T) {
		board := newBoard(t)

		ok := board.HandlePointer(10, 5, true)

		assert.False(t, ok)
		assert.Nil(t, board.CellUnder(10, 5))
		assert.Equal(t, 0, board.Engine().ClickCount())
	})

	t.Run("Select outside the grid hits nothing", func(t *testing.T) {
		board := newBoard(t)

		assert.False(t, board.HandlePointer(-5, -5, true))
		assert.Nil(t, board.CellAt(-1, 0))
		assert.Nil(t, board.CellAt(0, 2))
	})
}
