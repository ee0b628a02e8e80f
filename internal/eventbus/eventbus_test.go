package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pulled struct {
	Layer int    `json:"layer"`
	Slot  int    `json:"slot"`
	Data  string `json:"data"`
}

func TestNewEnvelope(t *testing.T) {
	ev, err := NewEnvelope("session-1", EventBlockPulled, 1, pulled{Layer: 2, Slot: 1, Data: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "session-1", ev.Source)
	assert.Equal(t, EventBlockPulled, ev.EventType)
	assert.JSONEq(t, `{"layer":2,"slot":1,"data":"x"}`, string(ev.Payload))

	var got pulled
	require.NoError(t, ev.Decode(&got))
	assert.Equal(t, pulled{Layer: 2, Slot: 1, Data: "x"}, got)

	_, err = NewEnvelope("s", EventBlockAdded, 0, make(chan int))
	assert.Error(t, err)
}

func TestMemoryBus_DeliversFiltered(t *testing.T) {
	bus := NewMemoryBus(8)

	var mu sync.Mutex
	var got []string
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventTowerCollapse, EventHandOfGod}},
		func(ctx context.Context, ev *Envelope) {
			mu.Lock()
			got = append(got, ev.EventType)
			mu.Unlock()
		})
	require.NoError(t, err)

	ctx := context.Background()
	for _, typ := range []string{EventBlockAdded, EventTowerCollapse, EventBlockPulled, EventHandOfGod} {
		ev, err := NewEnvelope("s", typ, 9, nil)
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, ev))
	}
	bus.Close()

	assert.Equal(t, []string{EventTowerCollapse, EventHandOfGod}, got)
	stats := bus.Metrics()
	assert.Equal(t, uint64(4), stats.Published)
	assert.Equal(t, uint64(2), stats.Consumed)
	assert.Equal(t, 0, stats.InFlight)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	calls := make(chan struct{}, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		calls <- struct{}{}
	})
	require.NoError(t, err)

	ev, _ := NewEnvelope("s", EventBlockAdded, 9, nil)
	require.NoError(t, bus.Publish(context.Background(), ev))
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("событие не доставлено")
	}

	sub.Unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), ev))
	select {
	case <-calls:
		t.Fatal("отписанный обработчик вызван")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	ev, _ := NewEnvelope("s", EventBlockAdded, 0, nil)
	require.NoError(t, bus.Publish(ctx, ev)) // уходит в обработчик
	<-started
	require.NoError(t, bus.Publish(ctx, ev)) // занимает буфер
	require.NoError(t, bus.Publish(ctx, ev)) // дропается

	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	// High-priority ждёт место и отменяется по контексту.
	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	high, _ := NewEnvelope("s", EventTowerCollapse, 9, nil)
	assert.ErrorIs(t, bus.Publish(cctx, high), context.DeadlineExceeded)

	close(block)
	bus.Close()
	assert.ErrorIs(t, bus.Publish(ctx, ev), ErrBusClosed)
	_, err = bus.Subscribe(ctx, Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(4)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, bus))

	ev, _ := NewEnvelope("s", EventBlockAdded, 9, nil)
	require.NoError(t, bus.Publish(context.Background(), ev))
	bus.Close()

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.Error(t, RegisterMetrics(reg, bus), "повторная регистрация")
}

func TestGlobalPublishWithoutBus(t *testing.T) {
	Init(nil)
	assert.NoError(t, Publish(context.Background(), &Envelope{}))
	assert.Nil(t, Global())
}
