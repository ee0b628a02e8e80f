package eventbus

import (
	"context"

	"github.com/annel0/jenga/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог eventbus.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	log := logging.GetEventBusLogger()
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		log.Debug("%s %s src=%s prio=%d payload=%s", ev.ID, ev.EventType, ev.Source, ev.Priority, ev.Payload)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("LoggingListener: подписка на все события активирована")
	return sub, nil
}
