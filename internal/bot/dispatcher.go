// Package bot — dispatcher.go маршрутизирует событие по операциям.
package bot

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/bot/middleware"
)

// Operation — единица логики обработки команд: смотрит на событие
// и возвращает ноль или больше ответов. Ошибка означает, что операция
// не смогла отработать (например, недоступна БД) — диспетчер её логирует
// и продолжает с остальными операциями.
type Operation interface {
	Name() string
	Handle(ctx context.Context, event Event) ([]Message, error)
}

// Dispatcher хранит упорядоченный список операций и прогоняет каждое
// событие по всем операциям по порядку регистрации. Список собирается
// один раз на старте и дальше не меняется, поэтому без мьютекса.
type Dispatcher struct {
	operations []Operation
}

// NewDispatcher создаёт диспетчер с операциями в порядке регистрации.
func NewDispatcher(operations ...Operation) *Dispatcher {
	return &Dispatcher{operations: operations}
}

// Handle вызывает каждую операцию и склеивает ответы в порядке регистрации.
// Падение одной операции (ошибка или паника) не мешает остальным.
func (d *Dispatcher) Handle(ctx context.Context, event Event) []Message {
	var out []Message
	for _, op := range d.operations {
		out = append(out, d.run(ctx, op, event)...)
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, op Operation, event Event) (replies []Message) {
	defer middleware.RecoverFromPanic()

	replies, err := op.Handle(ctx, event)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"operation": op.Name(),
			"channel":   event.Channel,
			"sender":    event.Sender.Nick,
		}).Error("Операция завершилась ошибкой")
		return nil
	}
	return replies
}
