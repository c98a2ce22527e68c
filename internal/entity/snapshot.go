package entity

import (
	"github.com/rocketscienceinc/pelmanism/internal/pelmanism"
)

// BannerBlinkPeriod is the frame modulo on which the congratulations banner is shown.
const BannerBlinkPeriod = 5

type CellView struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Symbol    string `json:"symbol,omitempty"`
	Revealed  bool   `json:"revealed"`
	Collected bool   `json:"collected"`
}

// Snapshot is the read-only state a renderer needs for one frame.
type Snapshot struct {
	SessionID      string             `json:"session_id"`
	Frame          uint64             `json:"frame"`
	State          string             `json:"state"`
	ClickCount     int                `json:"click_count"`
	CollectedCount int                `json:"collected_count"`
	Collected      []string           `json:"collected"`
	Completed      bool               `json:"completed"`
	HideInProgress bool               `json:"hide_in_progress"`
	BannerVisible  bool               `json:"banner_visible"`
	Side           int                `json:"side"`
	Geometry       pelmanism.Geometry `json:"geometry"`
	Cells          []CellView         `json:"cells"`
}

// NewSnapshot copies the board into a view. Symbols of face down cells are withheld.
func NewSnapshot(sessionID string, board *pelmanism.Board) *Snapshot {
	engine := board.Engine()

	collected := make([]string, 0, engine.CollectedCount())
	for _, symbol := range engine.Collected() {
		collected = append(collected, string(symbol))
	}

	cells := make([]CellView, 0, board.Side()*board.Side())
	for y := 0; y < board.Side(); y++ {
		for x := 0; x < board.Side(); x++ {
			cell := board.CellAt(x, y)

			view := CellView{
				X:         x,
				Y:         y,
				Revealed:  cell.IsRevealed(),
				Collected: cell.IsCollected(),
			}
			if cell.IsVisible() {
				view.Symbol = string(cell.Symbol())
			}

			cells = append(cells, view)
		}
	}

	return &Snapshot{
		SessionID:      sessionID,
		Frame:          engine.Frame(),
		State:          string(engine.State()),
		ClickCount:     engine.ClickCount(),
		CollectedCount: engine.CollectedCount(),
		Collected:      collected,
		Completed:      engine.IsCompleted(),
		HideInProgress: engine.HideInProgress(),
		BannerVisible:  IsBannerVisible(engine.IsCompleted(), engine.Frame()),
		Side:           board.Side(),
		Geometry:       board.Geometry(),
		Cells:          cells,
	}
}

func IsBannerVisible(completed bool, frame uint64) bool {
	return completed && frame%BannerBlinkPeriod == 0
}

// CellAt returns the view of a grid coordinate.
func (that *Snapshot) CellAt(x, y int) (CellView, bool) {
	if x < 0 || x >= that.Side || y < 0 || y >= that.Side {
		return CellView{}, false
	}

	return that.Cells[y*that.Side+x], true
}
