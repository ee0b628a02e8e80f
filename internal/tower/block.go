package tower

// Диапазон трения блока (включительно).
const (
	MinFriction = 1
	MaxFriction = 10
)

// Block — ячейка башни: данные и неизменяемое трение.
// Чем выше трение, тем труднее вытащить блок, не уронив башню.
type Block[E any] struct {
	data     E
	friction int
}

// newBlock создаёт блок со случайным трением в [MinFriction, MaxFriction].
func newBlock[E any](data E, rng RandomSource) *Block[E] {
	return &Block[E]{
		data:     data,
		friction: MinFriction + rng.Intn(MaxFriction-MinFriction+1),
	}
}

// Data возвращает хранимые данные
func (b *Block[E]) Data() E { return b.data }

// Friction возвращает трение блока
func (b *Block[E]) Friction() int { return b.friction }
