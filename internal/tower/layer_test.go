package tower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayer_AddOutOfRange(t *testing.T) {
	l := NewLayer[int](maxSource())

	for _, slot := range []int{-1, LayerBlocks, 4} {
		ok, err := l.Add(1, slot)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrOutOfRange, "слот %d вне слоя", slot)
	}
	assert.Equal(t, Layout{}, l.Layout(), "слой не должен измениться")
}

func TestLayer_AddOccupied(t *testing.T) {
	l := NewLayer[string](maxSource())

	ok, err := l.Add("a", 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Add("b", 1)
	require.NoError(t, err)
	assert.False(t, ok, "занятая позиция не перезаписывается")

	v, err := l.Peek(1)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestLayer_RoundTrip(t *testing.T) {
	for slot := 0; slot < LayerBlocks; slot++ {
		l := NewLayer[int](minSource())
		ok, err := l.Add(42+slot, slot)
		require.NoError(t, err)
		require.True(t, ok)

		v, err := l.Remove(slot)
		require.NoError(t, err)
		assert.Equal(t, 42+slot, v)
		assert.Equal(t, Layout{}, l.Layout(), "позиция %d должна освободиться", slot)
	}
}

func TestLayer_EmptySlotErrors(t *testing.T) {
	l := NewLayer[int](maxSource())

	_, err := l.Friction(0)
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = l.Peek(2)
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = l.Remove(1)
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = l.Remove(7)
	assert.ErrorIs(t, err, ErrOutOfRange)

	b, err := l.Block(0)
	assert.NoError(t, err)
	assert.Nil(t, b, "пустая позиция даёт nil блок")
}

func TestLayer_FullMatchesLayout(t *testing.T) {
	l := NewLayer[int](maxSource())
	for i := 0; i < LayerBlocks; i++ {
		assert.False(t, l.IsFull())
		assert.Equal(t, i, l.FirstFree())
		_, err := l.Add(i, i)
		require.NoError(t, err)
	}
	assert.True(t, l.IsFull())
	assert.Equal(t, Layout{true, true, true}, l.Layout())
	assert.Equal(t, -1, l.FirstFree())
	assert.Equal(t, LayerBlocks, l.Count())

	for slot := 0; slot < LayerBlocks; slot++ {
		ok, err := l.Add(99, slot)
		assert.NoError(t, err)
		assert.False(t, ok, "в заполненный слой добавить нельзя")
	}
}

func TestLayer_Friction(t *testing.T) {
	l := NewLayer[int](maxSource())
	_, _ = l.Add(1, 0)
	f, err := l.Friction(0)
	require.NoError(t, err)
	assert.Equal(t, MaxFriction, f)

	l = NewLayer[int](minSource())
	_, _ = l.Add(1, 0)
	f, err = l.Friction(0)
	require.NoError(t, err)
	assert.Equal(t, MinFriction, f)
}

func TestIsStableLayout(t *testing.T) {
	cases := map[string]bool{
		"###": true,
		"##0": true,
		"#0#": true,
		"0##": true,
		"0#0": true,
		"#00": false,
		"00#": false,
		"000": false,
	}
	for i := 0; i < 1<<LayerBlocks; i++ {
		var l Layout
		for j := 0; j < LayerBlocks; j++ {
			l[j] = i&(1<<j) != 0
		}
		want, ok := cases[l.String()]
		require.True(t, ok, "раскладка %s не покрыта", l)
		assert.Equal(t, want, IsStableLayout(l), "раскладка %s", l)
	}
}

func TestLayer_CheckFeasibility(t *testing.T) {
	full := func() *Layer[int] {
		l := NewLayer[int](maxSource())
		for i := 0; i < LayerBlocks; i++ {
			_, _ = l.Add(i, i)
		}
		return l
	}

	// Из полного слоя можно вынуть любой блок.
	for slot := 0; slot < LayerBlocks; slot++ {
		assert.True(t, full().CheckFeasibility(slot), "слот %d", slot)
	}

	l := full()
	_, _ = l.Remove(1) // #0#
	assert.False(t, l.CheckFeasibility(0), "останется 00#")
	assert.False(t, l.CheckFeasibility(2), "останется #00")

	l = full()
	_, _ = l.Remove(0) // 0##
	assert.True(t, l.CheckFeasibility(2), "останется 0#0")
	assert.False(t, l.CheckFeasibility(1), "останется 00#")

	assert.False(t, l.CheckFeasibility(-1))
	assert.False(t, l.CheckFeasibility(LayerBlocks))
}

func TestLayer_FeasibilityLeavesLayerUntouched(t *testing.T) {
	l := NewLayer[int](maxSource())
	_, _ = l.Add(1, 0)
	_, _ = l.Add(2, 1)
	before := l.Layout()

	l.CheckFeasibility(0)
	l.CheckFeasibility(1)
	assert.Equal(t, before, l.Layout())
}
