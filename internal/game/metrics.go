package game

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — Prometheus-метрики игровых сессий.
type Metrics struct {
	adds       prometheus.Counter
	pulls      *prometheus.CounterVec
	cheating   prometheus.Counter
	collapses  *prometheus.CounterVec
	height     prometheus.Gauge
	stability  prometheus.Gauge
	cheatsLeft prometheus.Gauge
}

// Причины обрушения для метки cause.
const (
	causeRisk      = "risk"
	causeNoCheats  = "no_cheats"
	causeHandOfGod = "hand_of_god"
)

// NewMetrics создаёт метрики и регистрирует их в reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		adds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jenga",
			Name:      "blocks_added_total",
			Help:      "Добавленные в башню блоки.",
		}),
		pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jenga",
			Name:      "pulls_total",
			Help:      "Попытки вынуть блок по результату.",
		}, []string{"outcome"}),
		cheating: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jenga",
			Name:      "cheating_attempts_total",
			Help:      "Попытки вынуть блок из трёх верхних слоёв.",
		}),
		collapses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jenga",
			Name:      "collapses_total",
			Help:      "Обрушения башни по причине.",
		}, []string{"cause"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jenga",
			Name:      "tower_height",
			Help:      "Текущая высота башни в слоях.",
		}),
		stability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jenga",
			Name:      "tower_stability",
			Help:      "Текущая стабильность башни.",
		}),
		cheatsLeft: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jenga",
			Name:      "cheat_chances_remaining",
			Help:      "Оставшиеся попытки жульничества.",
		}),
	}

	for _, c := range []prometheus.Collector{m.adds, m.pulls, m.cheating, m.collapses, m.height, m.stability, m.cheatsLeft} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(st Status) {
	if m == nil {
		return
	}
	m.height.Set(float64(st.Height))
	m.stability.Set(float64(st.Stability))
	m.cheatsLeft.Set(float64(st.CheatChances))
}

func (m *Metrics) blockAdded() {
	if m != nil {
		m.adds.Inc()
	}
}

func (m *Metrics) pull(outcome Outcome) {
	if m != nil {
		m.pulls.WithLabelValues(outcome.String()).Inc()
	}
}

func (m *Metrics) cheatingAttempt() {
	if m != nil {
		m.cheating.Inc()
	}
}

func (m *Metrics) collapse(cause string) {
	if m != nil {
		m.collapses.WithLabelValues(cause).Inc()
	}
}
