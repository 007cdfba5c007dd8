package match3

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPalette is returned when a selection is requested from a
	// palette with no regular token types.
	ErrEmptyPalette = errors.New("match3: palette has no token types")

	// ErrBusy is returned when a turn is requested while another one is
	// still being resolved.
	ErrBusy = errors.New("match3: board is resolving")

	// ErrInvalidSwap is returned for swaps between non-adjacent, empty or
	// out-of-bounds cells.
	ErrInvalidSwap = errors.New("match3: invalid swap")

	// ErrNotPopulated is returned when a swap is requested before the board
	// has been filled.
	ErrNotPopulated = errors.New("match3: board not populated")
)

// ValidationError describes a rejected engine option.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("match3: invalid %s: %s", e.Field, e.Message)
}
