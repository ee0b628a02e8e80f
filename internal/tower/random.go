package tower

import (
	"math/rand"
	"time"
)

// RandomSource — источник случайных чисел для трения и проверки обрушения.
// *rand.Rand удовлетворяет интерфейсу.
type RandomSource interface {
	// Intn возвращает число в [0, n).
	Intn(n int) int
}

// NewRandomSource создаёт детерминированный источник по seed.
// seed == 0 означает seed от текущего времени.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
