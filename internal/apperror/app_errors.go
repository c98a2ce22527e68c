package apperror

import "errors"

var (
	ErrInvalidSide         = errors.New("grid side must be positive")
	ErrSymbolPoolTooSmall  = errors.New("symbol pool is smaller than cell count")
	ErrDuplicateCoordinate = errors.New("coordinate is already assigned")
	ErrOddBoard            = errors.New("board has an odd number of cells")
	ErrInvalidHideDelay    = errors.New("hide delay must be positive")
	ErrInvalidFrameRate    = errors.New("frame rate must be positive")
	ErrInvalidGeometry     = errors.New("board geometry must be positive")

	ErrCoordinateOutOfRange = errors.New("coordinate is out of grid range")
	ErrCoordinateCount      = errors.New("coordinate count does not match cell count")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
	ErrUnknownAction   = errors.New("unknown action")
)
