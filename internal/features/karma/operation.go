// Package karma — operation.go разбирает команды "nick++", "nick--"
// и "karma nick" и применяет правила изменения кармы.
package karma

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/common"
)

// Хвост вида " --name=foo" — это опция админской команды, а не декремент
// кармы ника "name". Ищем: пробел, "--", буква, буквы/цифры, "=".
var optionPattern = regexp.MustCompile(`\s--[A-Za-z][A-Za-z0-9]*=`)

// Store — персистентное хранилище кармы.
type Store interface {
	Find(ctx context.Context, name string) (*Record, error)
	Adjust(ctx context.Context, name string, delta int, modifiedBy string) (*Record, error)
}

// ChangeRecorder пишет человекочитаемую строку в журнал изменений.
type ChangeRecorder interface {
	Record(ctx context.Context, text string) error
}

// Operation обрабатывает карма-команды.
type Operation struct {
	store   Store
	changes ChangeRecorder
}

// NewOperation создаёт операцию кармы. changes может быть nil —
// тогда журнал изменений не ведётся.
func NewOperation(store Store, changes ChangeRecorder) *Operation {
	return &Operation{store: store, changes: changes}
}

func (o *Operation) Name() string { return "karma" }

// Handle реализует полный разбор карма-команды.
//
// Порядок строго такой:
//  1. запрос "karma nick" — только чтение;
//  2. поиск "++", иначе "--" (декремент в нулевой позиции — не команда);
//  3. защита от опций "--foo=" при декременте;
//  4. пустой ник после обрезки пробелов — не команда;
//  5. в личке изменения запрещены;
//  6. свой ник инкрементить нельзя (декремент себе — можно);
//  7. атомарное изменение в хранилище и повторное чтение, чтобы автор
//     сразу увидел результат.
func (o *Operation) Handle(ctx context.Context, event bot.Event) ([]bot.Message, error) {
	replies, err := o.readKarma(ctx, event)
	if err != nil || len(replies) > 0 {
		return replies, err
	}

	message := event.Message
	sender := event.Sender

	delta := 1
	pointer := strings.Index(message, "++")
	if pointer == -1 {
		pointer = strings.Index(message, "--")
		delta = -1
		// "--" в самом начале строки — перед ним нет ника
		if pointer < 1 {
			return nil, nil
		}
		// Декремент легко перепутать с опцией: "admin --name=foo" выглядит
		// как "foo --". Проверяем хвост, начиная с символа перед "--".
		if optionPattern.MatchString(message[pointer-1:]) {
			return nil, nil
		}
	}

	nick := strings.ToLower(strings.TrimSpace(message[:pointer]))
	// одни пробелы перед токеном — ника нет
	if nick == "" {
		return nil, nil
	}

	if !strings.HasPrefix(event.Channel, "#") {
		return []bot.Message{event.Reply("Sorry, karma changes are not allowed in private messages.")}, nil
	}

	if strings.EqualFold(nick, sender.Nick) && delta > 0 {
		// Самоинкремент — отказ без обращения к хранилищу.
		// Самодекремент проходит как обычный.
		return []bot.Message{event.Reply("You can't increment your own karma.")}, nil
	}

	record, err := o.store.Adjust(ctx, nick, delta, sender.Nick)
	if err != nil {
		return nil, fmt.Errorf("карма %q: %w", nick, err)
	}
	o.recordChange(ctx, sender.Nick, record)

	// Повторяем путь чтения синтетическим событием — автор видит итог.
	return o.readKarma(ctx, bot.Event{
		Channel: event.Channel,
		Sender:  sender,
		Message: "karma " + nick,
	})
}

// readKarma обрабатывает запрос "karma nick". Фраза во втором лице, если
// спрашивают про себя, и в третьем — про другого.
func (o *Operation) readKarma(ctx context.Context, event bot.Event) ([]bot.Message, error) {
	if !strings.HasPrefix(event.Message, "karma ") {
		return nil, nil
	}
	nick := strings.ToLower(event.Message[len("karma "):])
	sender := event.Sender

	record, err := o.store.Find(ctx, nick)
	if errors.Is(err, common.ErrNotFound) {
		if strings.EqualFold(nick, sender.Nick) {
			return []bot.Message{event.Reply("you have no karma, " + sender.Nick)}, nil
		}
		return []bot.Message{event.Reply(nick + " has no karma, " + sender.Nick)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение кармы %q: %w", nick, err)
	}

	if strings.EqualFold(nick, sender.Nick) {
		return []bot.Message{event.Reply(
			fmt.Sprintf("%s, you have a karma level of %d", sender.Nick, record.Value),
		)}, nil
	}
	return []bot.Message{event.Reply(
		fmt.Sprintf("%s has a karma level of %d, %s", nick, record.Value, sender.Nick),
	)}, nil
}

// recordChange пишет изменение в журнал. Журнал — не критичный путь:
// ошибку логируем и продолжаем.
func (o *Operation) recordChange(ctx context.Context, actor string, record *Record) {
	if o.changes == nil {
		return
	}
	text := fmt.Sprintf("%s changed karma for %s to %d", actor, record.Name, record.Value)
	if err := o.changes.Record(ctx, text); err != nil {
		log.WithError(err).WithField("nick", record.Name).Error("Ошибка записи журнала изменений")
	}
}
