package tower

import (
	"errors"
	"fmt"
)

// Ошибки адресации. Не изменяют состояние башни.
var (
	ErrOutOfRange       = errors.New("index out of range")
	ErrEmptySlot        = errors.New("slot is empty")
	ErrNonExistentBlock = errors.New("there is no block there, so you cannot do anything with it")
)

// Ошибки политики и риска.
var (
	ErrCheatingAttempt = errors.New("cheating attempt")
	ErrTowerCollapse   = errors.New("the tower has become too unstable, tower collapsed and all data destroyed")
	ErrHandOfGod       = errors.New("you have knocked over the tower, all data is lost")
	ErrCollapsed       = errors.New("tower has already collapsed")
)

// CheatingAttemptError возвращается при попытке вытащить блок из трёх верхних слоёв,
// пока остаются попытки. Remaining — сколько попыток осталось после списания.
type CheatingAttemptError struct {
	Remaining int
}

func (e *CheatingAttemptError) Error() string {
	return fmt.Sprintf("you have been caught cheating, no removing from the top %d layers, you have %d chances remaining",
		ProtectedLayers, e.Remaining)
}

func (e *CheatingAttemptError) Unwrap() error { return ErrCheatingAttempt }

// nonExistent оборачивает ошибку слоя так, чтобы работали errors.Is
// и для ErrNonExistentBlock, и для исходной причины.
func nonExistent(cause error) error {
	return fmt.Errorf("%w: %w", ErrNonExistentBlock, cause)
}

// IsFatal сообщает, уничтожила ли ошибка башню.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTowerCollapse) || errors.Is(err, ErrHandOfGod)
}
