// Package bot — bot.go содержит цикл допуска: троттлинг, диспетчеризация,
// отправка ответов.
package bot

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/bot/middleware"
	"serotonyl.ru/irc-bot/internal/config"
	"serotonyl.ru/irc-bot/internal/features/nickserv"
)

// Throttler решает, пропускать ли сообщение пользователя.
// Ошибка nickserv.ViolationError означает «личность не подтверждена» —
// сообщение молча выбрасывается.
type Throttler interface {
	IsThrottled(ctx context.Context, user User) (bool, error)
}

// Bot связывает транспорт, троттлер и диспетчер операций.
type Bot struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	throttler  Throttler
	sender     Sender

	// ограничитель параллелизма обработки событий
	inflight chan struct{}
}

// New создаёт бота со всеми зависимостями.
func New(cfg *config.Config, dispatcher *Dispatcher, throttler Throttler, sender Sender) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		cfg:        cfg,
		dispatcher: dispatcher,
		throttler:  throttler,
		sender:     sender,
		inflight:   make(chan struct{}, maxInFlight),
	}
}

// HandleEvent принимает событие от транспорта и обрабатывает его
// в отдельной горутине. Лимит параллелизма нужен, потому что проверка
// NickServ может держать горутину до таймаута, а флуд не должен
// порождать горутины без предела.
func (b *Bot) HandleEvent(ctx context.Context, event Event) {
	b.inflight <- struct{}{}
	go func() {
		defer func() { <-b.inflight }()
		b.process(ctx, event)
	}()
}

// process обрабатывает одно событие до конца: допуск → операции → отправка.
// Ответы уходят в порядке регистрации операций.
func (b *Bot) process(ctx context.Context, event Event) {
	defer middleware.RecoverFromPanic()

	middleware.LogEvent(event.Channel, event.Sender.Nick, event.Message)

	throttled, err := b.throttler.IsThrottled(ctx, event.Sender)
	if err != nil {
		if nickserv.IsViolation(err) {
			// Ожидаемая ситуация: незарегистрированный или слишком свежий
			// аккаунт. Сообщение выбрасываем, но оператору это видно в логах.
			log.WithError(err).WithField("nick", event.Sender.Nick).
				Info("Личность не подтверждена, сообщение отброшено")
			return
		}
		log.WithError(err).WithField("nick", event.Sender.Nick).
			Error("Ошибка проверки допуска, сообщение отброшено")
		return
	}
	if throttled {
		log.WithField("nick", event.Sender.Nick).Debug("throttled")
		return
	}

	for _, msg := range b.dispatcher.Handle(ctx, event) {
		b.sender.Send(msg.Channel, msg.Text)
	}
}
