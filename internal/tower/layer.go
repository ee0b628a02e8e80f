package tower

import "fmt"

// LayerBlocks — количество блоков в слое. Правило устойчивости ниже
// рассчитано только на три позиции.
const LayerBlocks = 3

// Layout — занятость позиций слоя по порядку индексов.
type Layout [LayerBlocks]bool

// stableLayouts — конфигурации, при которых слой держится:
// все три блока, любые два соседних, крайние или один центральный.
var stableLayouts = []Layout{
	{true, true, true},
	{true, true, false},
	{true, false, true},
	{false, true, true},
	{false, true, false},
}

// IsStableLayout сообщает, входит ли раскладка в список устойчивых
func IsStableLayout(l Layout) bool {
	for _, stable := range stableLayouts {
		if l == stable {
			return true
		}
	}
	return false
}

// String рисует раскладку: '#' — блок, '0' — пусто.
func (l Layout) String() string {
	buf := make([]byte, LayerBlocks)
	for i, occupied := range l {
		if occupied {
			buf[i] = '#'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// Layer — один "этаж" башни из трёх позиций.
type Layer[E any] struct {
	blocks [LayerBlocks]*Block[E]
	rng    RandomSource // трение новых блоков
}

// NewLayer создаёт пустой слой. rng задаёт трение добавляемых блоков.
func NewLayer[E any](rng RandomSource) *Layer[E] {
	return &Layer[E]{rng: rng}
}

func checkSlot(i int) error {
	if i < 0 || i >= LayerBlocks {
		return fmt.Errorf("%w: slot %d not in [0,%d)", ErrOutOfRange, i, LayerBlocks)
	}
	return nil
}

// occupied возвращает блок в позиции или ошибку, если позиции нет или она пуста.
func (l *Layer[E]) occupied(i int) (*Block[E], error) {
	if err := checkSlot(i); err != nil {
		return nil, err
	}
	if l.blocks[i] == nil {
		return nil, fmt.Errorf("%w: slot %d", ErrEmptySlot, i)
	}
	return l.blocks[i], nil
}

// Add кладёт значение в позицию i. Возвращает false, если позиция занята.
func (l *Layer[E]) Add(value E, i int) (bool, error) {
	if err := checkSlot(i); err != nil {
		return false, err
	}
	if l.blocks[i] != nil {
		return false, nil
	}
	l.blocks[i] = newBlock(value, l.rng)
	return true, nil
}

// Friction возвращает трение блока в позиции i
func (l *Layer[E]) Friction(i int) (int, error) {
	b, err := l.occupied(i)
	if err != nil {
		return 0, err
	}
	return b.friction, nil
}

// Peek возвращает данные блока, не вынимая его
func (l *Layer[E]) Peek(i int) (E, error) {
	b, err := l.occupied(i)
	if err != nil {
		var zero E
		return zero, err
	}
	return b.data, nil
}

// Remove освобождает позицию и возвращает данные блока
func (l *Layer[E]) Remove(i int) (E, error) {
	b, err := l.occupied(i)
	if err != nil {
		var zero E
		return zero, err
	}
	l.blocks[i] = nil
	return b.data, nil
}

// Block возвращает блок в позиции i; для пустой позиции — nil без ошибки.
func (l *Layer[E]) Block(i int) (*Block[E], error) {
	if err := checkSlot(i); err != nil {
		return nil, err
	}
	return l.blocks[i], nil
}

// IsFull сообщает, заняты ли все позиции
func (l *Layer[E]) IsFull() bool {
	return l.FirstFree() < 0
}

// FirstFree возвращает индекс первой свободной позиции или -1
func (l *Layer[E]) FirstFree() int {
	for i, b := range l.blocks {
		if b == nil {
			return i
		}
	}
	return -1
}

// Count возвращает количество блоков в слое
func (l *Layer[E]) Count() int {
	n := 0
	for _, b := range l.blocks {
		if b != nil {
			n++
		}
	}
	return n
}

// Layout возвращает занятость позиций
func (l *Layer[E]) Layout() Layout {
	var layout Layout
	for i, b := range l.blocks {
		layout[i] = b != nil
	}
	return layout
}

// CheckFeasibility сообщает, останется ли слой устойчивым,
// если освободить позицию i. Для индекса вне слоя — false.
func (l *Layer[E]) CheckFeasibility(i int) bool {
	if checkSlot(i) != nil {
		return false
	}
	layout := l.Layout()
	layout[i] = false
	return IsStableLayout(layout)
}
