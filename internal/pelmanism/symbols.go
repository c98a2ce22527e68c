package pelmanism

import (
	"fmt"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
)

const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789"

// BuildSymbolPool emits every alphabet symbol twice in order (A, A, B, B, ...)
// and returns the first size entries. When size is odd the last entry has no partner.
func BuildSymbolPool(alphabet string, size int) ([]Symbol, error) {
	pool := make([]Symbol, 0, size)

	for _, r := range alphabet {
		if len(pool) == size {
			break
		}
		pool = append(pool, Symbol(r))

		if len(pool) == size {
			break
		}
		pool = append(pool, Symbol(r))
	}

	if len(pool) < size {
		return nil, fmt.Errorf("%w: %d symbols for %d cells", apperror.ErrSymbolPoolTooSmall, len(pool), size)
	}

	return pool, nil
}

// PoolCapacity is the largest cell count an alphabet can fill.
func PoolCapacity(alphabet string) int {
	return len([]rune(alphabet)) * 2
}
