package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/jenga/internal/eventbus"
	"github.com/annel0/jenga/internal/logging"
	"github.com/annel0/jenga/internal/tower"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/jenga/internal/game"

// Приоритеты событий в шине: обрушения не должны теряться при back-pressure.
const (
	priorityLow      = 1
	priorityWarning  = 5
	priorityCritical = 9
)

// Options настраивает игровую сессию. Нулевые Bus/Metrics/Tracer отключают
// соответствующую функциональность.
type Options struct {
	CheatChances int
	// Random — источник случайности башни; nil — NewRandomSource(Seed).
	Random tower.RandomSource
	Seed   int64

	Bus     eventbus.EventBus
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Status — снимок состояния башни для отображения.
type Status struct {
	SessionID     string `json:"session_id"`
	Height        int    `json:"height"`
	Stability     int    `json:"stability"`
	CheatChances  int    `json:"cheat_chances"`
	RemovedBlocks int    `json:"removed_blocks"`
	Collapsed     bool   `json:"collapsed"`
	Render        string `json:"render"`
}

// Session — одна партия: башня строк под мьютексом, события, метрики и трассировка.
// Все операции над башней выполняются целиком под одной блокировкой.
type Session struct {
	mu    sync.Mutex
	id    string
	opts  Options
	rng   tower.RandomSource
	tower *tower.Tower[string]

	tracer trace.Tracer
	log    *logging.Logger
}

// NewSession создаёт сессию с пустой башней.
func NewSession(opts Options) *Session {
	rng := opts.Random
	if rng == nil {
		rng = tower.NewRandomSource(opts.Seed)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	s := &Session{
		opts:   opts,
		rng:    rng,
		tracer: tracer,
		log:    logging.GetGameLogger(),
	}
	s.reset()
	s.log.Debug("Сессия %s создана, попыток жульничества: %d", s.id, opts.CheatChances)
	return s
}

func (s *Session) reset() {
	s.id = uuid.NewString()
	s.tower = tower.New[string](
		tower.WithCheatChances(s.opts.CheatChances),
		tower.WithRandomSource(s.rng),
	)
	s.opts.Metrics.observe(s.statusLocked())
}

// ID возвращает идентификатор текущей партии
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Status возвращает снимок состояния
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	return Status{
		SessionID:     s.id,
		Height:        s.tower.Height(),
		Stability:     s.tower.Stability(),
		CheatChances:  s.tower.CheatChances(),
		RemovedBlocks: s.tower.RemovedBlocks(),
		Collapsed:     s.tower.Collapsed(),
		Render:        s.tower.String(),
	}
}

type blockEvent struct {
	Layer    int    `json:"layer"`
	Slot     int    `json:"slot"`
	Data     string `json:"data,omitempty"`
	Friction int    `json:"friction,omitempty"`
}

type cheatingEvent struct {
	Layer     int `json:"layer"`
	Slot      int `json:"slot"`
	Remaining int `json:"remaining"`
}

type collapseEvent struct {
	Cause         string `json:"cause"`
	RemovedBlocks int    `json:"removed_blocks"`
}

// Add кладёт значение в первую свободную позицию верхнего слоя.
func (s *Session) Add(ctx context.Context, value string) bool {
	ctx, span := s.tracer.Start(ctx, "tower.add")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	layer, slot := s.nextSlotLocked()
	ok := s.tower.Add(value)
	span.SetAttributes(attribute.Bool("jenga.added", ok))
	if ok {
		s.afterAddLocked(ctx, value, layer, slot)
	}
	return ok
}

// AddAt кладёт значение в позицию slot верхнего слоя.
func (s *Session) AddAt(ctx context.Context, value string, slot int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "tower.add_at", trace.WithAttributes(attribute.Int("jenga.slot", slot)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	layer, _ := s.nextSlotLocked()
	ok, err := s.tower.AddAt(value, slot)
	if err != nil {
		recordError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("jenga.added", ok))
	if ok {
		s.afterAddLocked(ctx, value, layer, slot)
	} else {
		s.opts.Metrics.observe(s.statusLocked())
	}
	return ok, nil
}

// nextSlotLocked возвращает слой и позицию, куда ляжет следующий Add.
func (s *Session) nextSlotLocked() (layer, slot int) {
	var top *tower.Layer[string]
	for _, l := range s.tower.Layers() {
		top = l
	}
	if top == nil || top.IsFull() {
		return s.tower.Height(), 0
	}
	return s.tower.Height() - 1, top.FirstFree()
}

func (s *Session) afterAddLocked(ctx context.Context, value string, layer, slot int) {
	friction, _ := s.tower.Friction(layer, slot)
	s.opts.Metrics.blockAdded()
	s.opts.Metrics.observe(s.statusLocked())
	s.publishLocked(ctx, eventbus.EventBlockAdded, priorityLow, blockEvent{Layer: layer, Slot: slot, Data: value, Friction: friction})
	s.log.Trace("Блок %q добавлен в слой %d позицию %d (трение %d)", value, layer, slot, friction)
}

// Pull вынимает блок. Outcome подсказывает, как показать результат:
// предупреждение при жульничестве, конец игры при обрушении.
func (s *Session) Pull(ctx context.Context, layer, slot int) (string, Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "tower.pull", trace.WithAttributes(
		attribute.Int("jenga.layer", layer),
		attribute.Int("jenga.slot", slot),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	protected := s.tower.Height()-layer <= tower.ProtectedLayers
	friction, _ := s.tower.Friction(layer, slot)
	span.SetAttributes(attribute.Int("jenga.stability", s.tower.Stability()))

	data, err := s.tower.Remove(layer, slot)
	outcome := Classify(err)
	span.SetAttributes(attribute.String("jenga.outcome", outcome.String()))
	s.opts.Metrics.pull(outcome)

	var cheat *tower.CheatingAttemptError
	switch {
	case err == nil:
		s.publishLocked(ctx, eventbus.EventBlockPulled, priorityLow, blockEvent{Layer: layer, Slot: slot, Data: data, Friction: friction})
		s.log.Debug("Вынут блок (%d,%d) = %q, стабильность %d", layer, slot, data, s.tower.Stability())
	case errors.As(err, &cheat):
		s.opts.Metrics.cheatingAttempt()
		s.publishLocked(ctx, eventbus.EventCheatingAttempt, priorityWarning, cheatingEvent{Layer: layer, Slot: slot, Remaining: cheat.Remaining})
		s.log.Warn("Попытка жульничества в слое %d, осталось шансов: %d", layer, cheat.Remaining)
	case errors.Is(err, tower.ErrTowerCollapse):
		cause := causeRisk
		if protected {
			cause = causeNoCheats
		}
		recordError(span, err)
		s.collapsedLocked(ctx, eventbus.EventTowerCollapse, cause)
	default:
		recordError(span, err)
	}
	s.opts.Metrics.observe(s.statusLocked())

	if err != nil {
		return "", outcome, err
	}
	return data, outcome, nil
}

// Peek возвращает данные блока без изъятия
func (s *Session) Peek(layer, slot int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tower.Peek(layer, slot)
}

// Friction возвращает трение блока
func (s *Session) Friction(layer, slot int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tower.Friction(layer, slot)
}

// Destroy роняет башню. Всегда возвращает tower.ErrHandOfGod.
func (s *Session) Destroy(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "tower.destroy")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tower.Destroy()
	recordError(span, err)
	s.collapsedLocked(ctx, eventbus.EventHandOfGod, causeHandOfGod)
	s.opts.Metrics.observe(s.statusLocked())
	return err
}

func (s *Session) collapsedLocked(ctx context.Context, eventType, cause string) {
	s.opts.Metrics.collapse(cause)
	s.publishLocked(ctx, eventType, priorityCritical, collapseEvent{Cause: cause, RemovedBlocks: s.tower.RemovedBlocks()})
	s.log.Warn("Башня разрушена (%s), вынуто блоков: %d", cause, s.tower.RemovedBlocks())
}

// Restart начинает новую партию с новой башней. Разрушенная башня не переиспользуется.
func (s *Session) Restart(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.id
	s.reset()
	s.publishLocked(ctx, eventbus.EventSessionRestarted, priorityLow, map[string]string{"previous": prev})
	s.log.Info("Новая партия %s (предыдущая %s)", s.id, prev)
	return s.id
}

func (s *Session) publishLocked(ctx context.Context, eventType string, priority int, payload any) {
	if s.opts.Bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(s.id, eventType, priority, payload)
	if err == nil {
		err = s.opts.Bus.Publish(ctx, ev)
	}
	if err != nil {
		s.log.Warn("Не удалось опубликовать %s: %v", eventType, err)
	}
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Message возвращает текст для игрока по результату хода.
func Message(err error) string {
	var cheat *tower.CheatingAttemptError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &cheat):
		return fmt.Sprintf("You have been caught cheating. No removing from the top %d layers. You have %d chances remaining.",
			tower.ProtectedLayers, cheat.Remaining)
	case errors.Is(err, tower.ErrHandOfGod):
		return "You have knocked over the tower, all data is lost."
	case errors.Is(err, tower.ErrTowerCollapse):
		return "The tower has become too unstable. Tower collapsed and all data destroyed."
	case errors.Is(err, tower.ErrCollapsed):
		return "The tower has already fallen. Restart to play again."
	case errors.Is(err, tower.ErrNonExistentBlock), errors.Is(err, tower.ErrEmptySlot), errors.Is(err, tower.ErrOutOfRange):
		return "There is no block there, so you cannot do anything with it."
	default:
		return err.Error()
	}
}
