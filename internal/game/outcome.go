package game

import (
	"errors"

	"github.com/annel0/jenga/internal/tower"
)

// Outcome — как фронтенд должен показать результат хода.
type Outcome int

const (
	// OutcomeOK — ход выполнен.
	OutcomeOK Outcome = iota
	// OutcomeInvalid — неверные координаты или пустая позиция, состояние не изменилось.
	OutcomeInvalid
	// OutcomeWarning — попытка жульничества, списан шанс.
	OutcomeWarning
	// OutcomeGameOver — башня разрушена.
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeWarning:
		return "warning"
	case OutcomeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Classify переводит ошибку башни в Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, tower.ErrCheatingAttempt):
		return OutcomeWarning
	case tower.IsFatal(err), errors.Is(err, tower.ErrCollapsed):
		return OutcomeGameOver
	default:
		return OutcomeInvalid
	}
}
