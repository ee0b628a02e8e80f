package tower

import (
	"fmt"
	"iter"
	"strings"
)

// Параметры устойчивости башни.
const (
	BaseStability = 100
	// RemovedDivider — сколько вынутых блоков отнимают одно очко стабильности.
	RemovedDivider = 10
	// AddedDivider — сколько слоёв отнимают одно очко стабильности.
	AddedDivider = 10
	// ProtectedLayers — из стольких верхних слоёв вынимать блоки нельзя.
	ProtectedLayers = 3
	// DefaultCheatChances — попытки жульничества по умолчанию.
	DefaultCheatChances = 3
)

// Tower — контейнер в виде башни Дженги.
// Данные добавляются слоями по LayerBlocks блоков. Вынимать блоки можно только
// ниже трёх верхних слоёв, и каждое вынимание может обрушить всю башню.
//
// Tower не потокобезопасна: при доступе из нескольких горутин вызывающий
// должен сериализовать операции целиком.
type Tower[E any] struct {
	layers        []*Layer[E] // индекс 0 — нижний слой
	removedBlocks int
	stability     int
	cheatChances  int
	collapsed     bool

	rng     RandomSource
	checker *CollapseChecker
}

// Option настраивает башню при создании.
type Option func(*options)

type options struct {
	cheatChances int
	rng          RandomSource
}

// WithCheatChances задаёт число попыток жульничества
func WithCheatChances(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.cheatChances = n
		}
	}
}

// WithRandomSource задаёт источник случайности для трения и обрушений
func WithRandomSource(rng RandomSource) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// New создаёт пустую башню. По умолчанию — DefaultCheatChances попыток
// и источник случайности от текущего времени.
func New[E any](opts ...Option) *Tower[E] {
	o := options{cheatChances: DefaultCheatChances}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = NewRandomSource(0)
	}
	return &Tower[E]{
		stability:    BaseStability,
		cheatChances: o.cheatChances,
		rng:          o.rng,
		checker:      NewCollapseChecker(o.rng),
	}
}

// Height возвращает количество слоёв
func (t *Tower[E]) Height() int { return len(t.layers) }

// Stability возвращает текущую стабильность
func (t *Tower[E]) Stability() int { return t.stability }

// CheatChances возвращает оставшиеся попытки жульничества
func (t *Tower[E]) CheatChances() int { return t.cheatChances }

// RemovedBlocks возвращает количество успешно вынутых блоков
func (t *Tower[E]) RemovedBlocks() int { return t.removedBlocks }

// Collapsed сообщает, разрушена ли башня
func (t *Tower[E]) Collapsed() bool { return t.collapsed }

// topForAdd возвращает верхний слой, создавая новый, если его нет или он заполнен.
func (t *Tower[E]) topForAdd() *Layer[E] {
	if n := len(t.layers); n > 0 && !t.layers[n-1].IsFull() {
		return t.layers[n-1]
	}
	layer := NewLayer[E](t.rng)
	t.layers = append(t.layers, layer)
	return layer
}

// Add кладёт значение в первую свободную позицию верхнего слоя.
// На разрушенной башне возвращает false.
func (t *Tower[E]) Add(value E) bool {
	if t.collapsed {
		return false
	}
	layer := t.topForAdd()
	ok, err := layer.Add(value, layer.FirstFree())
	if err != nil || !ok {
		return false
	}
	t.updateStability()
	return true
}

// AddAt кладёт значение в позицию slot верхнего слоя (нового, если верхний заполнен).
// Возвращает false, если позиция занята.
func (t *Tower[E]) AddAt(value E, slot int) (bool, error) {
	if t.collapsed {
		return false, ErrCollapsed
	}
	if err := checkSlot(slot); err != nil {
		return false, err
	}
	ok, err := t.topForAdd().Add(value, slot)
	if err != nil {
		return false, err
	}
	// Новый слой учитывается в стабильности, даже если позиция оказалась занята.
	t.updateStability()
	return ok, nil
}

// Remove вынимает блок из слоя layer в позиции slot.
//
// Из трёх верхних слоёв вынимать нельзя: попытка списывает шанс и возвращает
// *CheatingAttemptError, а без шансов обрушивает башню. Иначе блок вынимается,
// но при неудачном броске или неустойчивой раскладке слоя башня падает
// вместе с вынутыми данными (ErrTowerCollapse).
func (t *Tower[E]) Remove(layer, slot int) (E, error) {
	var zero E
	if t.collapsed {
		return zero, ErrCollapsed
	}

	if t.Height()-layer <= ProtectedLayers {
		if t.cheatChances == 0 {
			t.collapse()
			return zero, fmt.Errorf("%w: no chances left with which to cheat", ErrTowerCollapse)
		}
		t.cheatChances--
		return zero, &CheatingAttemptError{Remaining: t.cheatChances}
	}

	chosen, err := t.layer(layer)
	if err != nil {
		return zero, err
	}
	friction, err := chosen.Friction(slot)
	if err != nil {
		return zero, err
	}
	structuralRisk := t.checker.Check(t.stability, friction)
	layoutRisk := !chosen.CheckFeasibility(slot)

	data, err := chosen.Remove(slot)
	if err != nil {
		return zero, err
	}
	if structuralRisk || layoutRisk {
		t.collapse()
		return zero, ErrTowerCollapse
	}

	t.removedBlocks++
	t.updateStability()
	return data, nil
}

func (t *Tower[E]) layer(i int) (*Layer[E], error) {
	if i < 0 || i >= len(t.layers) {
		return nil, fmt.Errorf("%w: layer %d not in [0,%d)", ErrOutOfRange, i, len(t.layers))
	}
	return t.layers[i], nil
}

// Peek возвращает данные блока без изъятия
func (t *Tower[E]) Peek(layer, slot int) (E, error) {
	var zero E
	l, err := t.layer(layer)
	if err != nil {
		return zero, nonExistent(err)
	}
	v, err := l.Peek(slot)
	if err != nil {
		return zero, nonExistent(err)
	}
	return v, nil
}

// Friction возвращает трение блока, значения в [MinFriction, MaxFriction]
func (t *Tower[E]) Friction(layer, slot int) (int, error) {
	l, err := t.layer(layer)
	if err != nil {
		return 0, nonExistent(err)
	}
	f, err := l.Friction(slot)
	if err != nil {
		return 0, nonExistent(err)
	}
	return f, nil
}

// Block возвращает блок по координатам
func (t *Tower[E]) Block(layer, slot int) (*Block[E], error) {
	l, err := t.layer(layer)
	if err != nil {
		return nil, nonExistent(err)
	}
	b, err := l.Block(slot)
	if err != nil {
		return nil, nonExistent(err)
	}
	if b == nil {
		return nil, nonExistent(fmt.Errorf("%w: slot %d", ErrEmptySlot, slot))
	}
	return b, nil
}

// Layers перебирает слои снизу вверх
func (t *Tower[E]) Layers() iter.Seq2[int, *Layer[E]] {
	return func(yield func(int, *Layer[E]) bool) {
		for i, l := range t.layers {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Destroy роняет башню. Всегда возвращает ErrHandOfGod.
func (t *Tower[E]) Destroy() error {
	t.collapse()
	return ErrHandOfGod
}

// collapse уничтожает все слои. Счётчики вынутых блоков и попыток не сбрасываются.
func (t *Tower[E]) collapse() {
	t.layers = nil
	t.collapsed = true
	t.updateStability()
}

func (t *Tower[E]) updateStability() {
	t.stability = BaseStability - t.removedBlocks/RemovedDivider - t.Height()/AddedDivider
}

// String рисует башню снизу вверх, по строке на слой
func (t *Tower[E]) String() string {
	var sb strings.Builder
	for _, l := range t.layers {
		sb.WriteString(l.Layout().String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
