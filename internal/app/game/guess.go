package game

import (
	"strconv"
	"strings"

	"mysterynum/internal/pkg/errs"
	"mysterynum/internal/pkg/randx"
)

// parseGuess validates a free-text guess line: it must parse as a decimal
// integer inside [TargetMin, TargetMax]. Neither failure mutates room state.
func parseGuess(line string) (int, *errs.CustomError) {
	value, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errs.NewError(errs.ErrGuessNotANumber)
	}

	if value < randx.TargetMin || value > randx.TargetMax {
		return 0, errs.NewError(errs.ErrGuessOutOfRange, randx.TargetMin, randx.TargetMax)
	}

	return value, nil
}
