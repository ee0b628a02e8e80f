package eventbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics публикует статистику шины как Prometheus-метрики.
// Значения читаются из bus.Metrics() в момент сбора, фоновых горутин нет.
func RegisterMetrics(reg prometheus.Registerer, bus EventBus) error {
	stat := func(pick func(Stats) float64) func() float64 {
		return func() float64 { return pick(bus.Metrics()) }
	}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_published_total",
			Help:      "Общее число опубликованных сообщений.",
		}, stat(func(s Stats) float64 { return float64(s.Published) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_consumed_total",
			Help:      "Общее число доставленных сообщений подписчикам.",
		}, stat(func(s Stats) float64 { return float64(s.Consumed) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "eventbus",
			Name:      "messages_dropped_total",
			Help:      "Сообщений, отброшенных из-за ограничения back-pressure.",
		}, stat(func(s Stats) float64 { return float64(s.Dropped) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "eventbus",
			Name:      "messages_inflight",
			Help:      "Количество сообщений, находящихся в очереди (не доставленных).",
		}, stat(func(s Stats) float64 { return float64(s.InFlight) })),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
