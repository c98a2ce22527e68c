package pelmanism

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
)

const (
	DefaultSide      = 5
	DefaultBoardSize = 70
	DefaultWidth     = 160
	DefaultHeight    = 120
)

// Options is the fixed configuration a board is built from.
type Options struct {
	Side      int
	BoardSize float64 // pixel size of the whole grid
	Width     float64 // viewport width
	Height    float64 // viewport height
	Alphabet  string
	HideDelay uint64

	// StrictPairs rejects boards with an odd cell count instead of leaving
	// one symbol without a partner.
	StrictPairs bool
}

func DefaultOptions() Options {
	return Options{
		Side:      DefaultSide,
		BoardSize: DefaultBoardSize,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Alphabet:  DefaultAlphabet,
		HideDelay: DefaultHideDelay,
	}
}

func (that Options) TotalCells() int {
	return that.Side * that.Side
}

// Geometry centres the grid in the viewport.
func (that Options) Geometry() Geometry {
	return Geometry{
		OriginX:  (that.Width - that.BoardSize) / 2,
		OriginY:  (that.Height - that.BoardSize) / 2,
		CellSize: that.BoardSize / float64(that.Side),
	}
}

func (that Options) Validate() error {
	switch {
	case that.Side < 1:
		return fmt.Errorf("%w: side %d", apperror.ErrInvalidSide, that.Side)
	case that.BoardSize <= 0:
		return fmt.Errorf("%w: board size %v", apperror.ErrInvalidGeometry, that.BoardSize)
	case that.HideDelay == 0:
		return apperror.ErrInvalidHideDelay
	case that.StrictPairs && that.TotalCells()%2 != 0:
		return fmt.Errorf("%w: %d cells", apperror.ErrOddBoard, that.TotalCells())
	case PoolCapacity(that.Alphabet) < that.TotalCells():
		return fmt.Errorf("%w: capacity %d for %d cells",
			apperror.ErrSymbolPoolTooSmall, PoolCapacity(that.Alphabet), that.TotalCells())
	}

	return nil
}

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board owns every cell of one game and the engine they report to.
type Board struct {
	options  Options
	geometry Geometry
	cells    []*Cell
	grid     [][]*Cell
	engine   *MatchEngine
}

// NewBoard draws random coordinates until every grid position is used and
// hands out symbols from the pool in order as coordinates are accepted.
func NewBoard(options Options, rng *rand.Rand) (*Board, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board options: %w", err)
	}

	return assemble(options, drawCoordinates(options.Side, rng))
}

// MustNewBoard is NewBoard for configuration that has already been validated.
func MustNewBoard(options Options, rng *rand.Rand) *Board {
	board, err := NewBoard(options, rng)
	if err != nil {
		panic(fmt.Errorf("unable to build board: %w", err))
	}

	return board
}

// NewBoardWithCoordinates assigns the symbol pool to coordinates in the given order.
func NewBoardWithCoordinates(options Options, coordinates []Coordinate) (*Board, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board options: %w", err)
	}

	if len(coordinates) != options.TotalCells() {
		return nil, fmt.Errorf("%w: %d coordinates for %d cells", apperror.ErrCoordinateCount, len(coordinates), options.TotalCells())
	}

	return assemble(options, coordinates)
}

// assemble expects validated options and one coordinate per cell.
func assemble(options Options, coordinates []Coordinate) (*Board, error) {
	total := options.TotalCells()

	pool, err := BuildSymbolPool(options.Alphabet, total)
	if err != nil {
		return nil, fmt.Errorf("failed to build symbol pool: %w", err)
	}

	board := &Board{
		options:  options,
		geometry: options.Geometry(),
		cells:    make([]*Cell, 0, total),
		grid:     make([][]*Cell, options.Side),
		engine:   NewMatchEngine(total, options.HideDelay),
	}

	for y := range board.grid {
		board.grid[y] = make([]*Cell, options.Side)
	}

	for i, coordinate := range coordinates {
		if err = board.place(pool[i], coordinate); err != nil {
			return nil, err
		}
	}

	return board, nil
}

func (that *Board) place(symbol Symbol, at Coordinate) error {
	if at.X < 0 || at.X >= that.options.Side || at.Y < 0 || at.Y >= that.options.Side {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCoordinateOutOfRange, at.X, at.Y)
	}

	if that.grid[at.Y][at.X] != nil {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrDuplicateCoordinate, at.X, at.Y)
	}

	cell := NewCell(symbol, at.X, at.Y, that.geometry)
	cell.Subscribe(that.engine, that.engine)

	that.grid[at.Y][at.X] = cell
	that.cells = append(that.cells, cell)

	return nil
}

// drawCoordinates samples with rejection: a drawn pair is kept only if unused.
func drawCoordinates(side int, rng *rand.Rand) []Coordinate {
	total := side * side
	used := make(map[Coordinate]struct{}, total)
	coordinates := make([]Coordinate, 0, total)

	for len(coordinates) != total {
		candidate := Coordinate{
			X: rng.Intn(side), //nolint: gosec // placement only
			Y: rng.Intn(side), //nolint: gosec // placement only
		}

		if _, ok := used[candidate]; ok {
			continue
		}

		used[candidate] = struct{}{}
		coordinates = append(coordinates, candidate)
	}

	return coordinates
}

// HandlePointer is the input adapter entry point. On a select edge it offers
// the reveal to the cell under the pointer, so at most one reveal per frame.
func (that *Board) HandlePointer(px, py float64, selected bool) bool {
	if !selected {
		return false
	}

	cell := that.CellUnder(px, py)
	if cell == nil {
		return false
	}

	return cell.AttemptReveal()
}

// CellUnder returns the cell containing the point, or nil.
func (that *Board) CellUnder(px, py float64) *Cell {
	for _, cell := range that.cells {
		if cell.IsInsideBounds(px, py) {
			return cell
		}
	}

	return nil
}

// CellAt returns the cell at a grid coordinate, or nil when out of range.
func (that *Board) CellAt(x, y int) *Cell {
	if x < 0 || x >= that.options.Side || y < 0 || y >= that.options.Side {
		return nil
	}

	return that.grid[y][x]
}

// Cells returns the cells in placement order.
func (that *Board) Cells() []*Cell {
	out := make([]*Cell, len(that.cells))
	copy(out, that.cells)

	return out
}

func (that *Board) Engine() *MatchEngine {
	return that.engine
}

func (that *Board) Options() Options {
	return that.options
}

func (that *Board) Geometry() Geometry {
	return that.geometry
}

func (that *Board) Side() int {
	return that.options.Side
}
