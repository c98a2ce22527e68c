package pelmanism

const DefaultHideDelay uint64 = 45

type State string

const (
	StateIdle         State = "idle"
	StateOneRevealed  State = "one_revealed"
	StateAwaitingHide State = "awaiting_hide"
	StateCompleted    State = "completed"
)

// MatchEngine tracks the pair in progress, collected pairs, the click counter
// and the frame counter the hide deadline is measured against.
type MatchEngine struct {
	totalCells int
	hideDelay  uint64

	pending *Cell
	target  *Cell

	collected  []Symbol
	clickCount int

	frame        uint64
	hideDeadline uint64
	awaitingHide bool
}

func NewMatchEngine(totalCells int, hideDelay uint64) *MatchEngine {
	return &MatchEngine{
		totalCells: totalCells,
		hideDelay:  hideDelay,
		collected:  []Symbol{},
	}
}

// OnCellRevealed applies a reveal. It is ignored once the game is completed
// or while a mismatched pair waits to be hidden.
func (that *MatchEngine) OnCellRevealed(cell *Cell) {
	if that.IsCompleted() || that.awaitingHide {
		return
	}

	if cell.revealed || cell.collected {
		return
	}

	cell.revealed = true
	that.clickCount++

	if that.pending == nil {
		that.pending = cell
		return
	}

	if cell.symbol == that.pending.symbol {
		that.collect(cell)
		return
	}

	that.armHide(cell)
}

func (that *MatchEngine) collect(cell *Cell) {
	cell.collected = true
	that.pending.collected = true

	that.collected = append(that.collected, cell.symbol)
	that.pending = nil
}

func (that *MatchEngine) armHide(cell *Cell) {
	that.target = cell
	that.awaitingHide = true
	that.hideDeadline = that.frame + that.hideDelay
}

// Tick runs the per-frame hide check and then advances the frame counter.
// It reports whether a mismatched pair was turned face down.
func (that *MatchEngine) Tick() bool {
	hidden := that.updateHide()
	that.frame++

	return hidden
}

func (that *MatchEngine) updateHide() bool {
	if !that.awaitingHide || that.frame < that.hideDeadline {
		return false
	}

	that.target.revealed = false
	that.pending.revealed = false

	that.target = nil
	that.pending = nil
	that.awaitingHide = false

	return true
}

// isComplete leaves the unpaired symbol of an odd board out of the target.
func isComplete(totalCells, collectedPairs int) bool {
	if totalCells%2 == 0 {
		return totalCells == collectedPairs*2
	}

	return totalCells == collectedPairs*2+1
}

func (that *MatchEngine) State() State {
	switch {
	case that.IsCompleted():
		return StateCompleted
	case that.awaitingHide:
		return StateAwaitingHide
	case that.pending != nil:
		return StateOneRevealed
	default:
		return StateIdle
	}
}

func (that *MatchEngine) HideInProgress() bool {
	return that.awaitingHide
}

// IsCompleted is evaluated from the collected count, so a board too small to
// hold a pair is completed from the start.
func (that *MatchEngine) IsCompleted() bool {
	return isComplete(that.totalCells, len(that.collected))
}

func (that *MatchEngine) ClickCount() int {
	return that.clickCount
}

func (that *MatchEngine) CollectedCount() int {
	return len(that.collected)
}

// Collected returns the matched symbols in the order they were collected.
func (that *MatchEngine) Collected() []Symbol {
	out := make([]Symbol, len(that.collected))
	copy(out, that.collected)

	return out
}

func (that *MatchEngine) PendingCell() *Cell {
	return that.pending
}

func (that *MatchEngine) Frame() uint64 {
	return that.frame
}

// HideDeadline returns the frame at which the pending mismatch is hidden.
func (that *MatchEngine) HideDeadline() (uint64, bool) {
	return that.hideDeadline, that.awaitingHide
}

func (that *MatchEngine) TotalCells() int {
	return that.totalCells
}
