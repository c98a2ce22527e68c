package pelmanism

// Symbol is the label printed on a cell. Two cells match when their symbols are equal.
type Symbol string

// RevealListener receives every legal reveal of a cell.
type RevealListener interface {
	OnCellRevealed(cell *Cell)
}

// HideGate reports whether a mismatched pair is still on display.
type HideGate interface {
	HideInProgress() bool
}

// Geometry places the grid in viewport pixels.
type Geometry struct {
	OriginX  float64 `json:"origin_x"`
	OriginY  float64 `json:"origin_y"`
	CellSize float64 `json:"cell_size"`
}

type Cell struct {
	symbol   Symbol
	x, y     int
	geometry Geometry

	revealed  bool
	collected bool

	listener RevealListener
	gate     HideGate
}

func NewCell(symbol Symbol, x, y int, geometry Geometry) *Cell {
	return &Cell{
		symbol:   symbol,
		x:        x,
		y:        y,
		geometry: geometry,
	}
}

// Subscribe attaches the reveal listener and the gate consulted before every reveal.
func (that *Cell) Subscribe(listener RevealListener, gate HideGate) {
	that.listener = listener
	that.gate = gate
}

// AttemptReveal notifies the listener when the cell is face down, not collected
// and no hide is pending. Any other click is ignored.
func (that *Cell) AttemptReveal() bool {
	if that.revealed || that.collected {
		return false
	}

	if that.gate != nil && that.gate.HideInProgress() {
		return false
	}

	if that.listener == nil {
		return false
	}

	that.listener.OnCellRevealed(that)

	return true
}

func (that *Cell) Symbol() Symbol {
	return that.symbol
}

func (that *Cell) X() int {
	return that.x
}

func (that *Cell) Y() int {
	return that.y
}

func (that *Cell) IsRevealed() bool {
	return that.revealed
}

func (that *Cell) IsCollected() bool {
	return that.collected
}

// IsVisible reports whether the symbol should be drawn.
func (that *Cell) IsVisible() bool {
	return that.revealed || that.collected
}

func (that *Cell) Left() float64 {
	return that.geometry.OriginX + float64(that.x)*that.geometry.CellSize
}

func (that *Cell) Right() float64 {
	return that.Left() + that.geometry.CellSize
}

func (that *Cell) Top() float64 {
	return that.geometry.OriginY + float64(that.y)*that.geometry.CellSize
}

func (that *Cell) Bottom() float64 {
	return that.Top() + that.geometry.CellSize
}

func (that *Cell) Size() float64 {
	return that.geometry.CellSize
}

// IsInsideBounds is strict on every edge, so a point on a grid line hits no cell.
func (that *Cell) IsInsideBounds(px, py float64) bool {
	return !(that.Top() >= py || that.Bottom() <= py || that.Left() >= px || that.Right() <= px)
}
