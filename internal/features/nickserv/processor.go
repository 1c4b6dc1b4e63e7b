// Package nickserv — processor.go разбирает уведомления NickServ.
//
// Ответ на "info <nick>" приходит несколькими NOTICE-строками:
//
//	Information on alice (account alice):
//	Registered : Jan 15 18:30:05 2019 +0000 (7y 3w 2d ago)
//	...
//
// Процессор склеивает ник из первой строки с датой из второй, сохраняет
// запись в стор и будит ожидающий верификатор.
package nickserv

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ник бывает обёрнут в \x02 (IRC bold)
	infoPattern       = regexp.MustCompile(`^Information on \x02?([^\s\x02]+)\x02?`)
	registeredPattern = regexp.MustCompile(`^Registered\s*:\s*(.+)$`)
	unknownPattern    = regexp.MustCompile(`is not registered`)
)

// Форматы даты у разных форков services различаются.
var registeredLayouts = []string{
	"Jan 02 15:04:05 2006 -0700",
	"Jan 02 15:04:05 2006 MST",
	"Jan 02 2006 15:04:05 -0700",
}

// Processor превращает NOTICE-строки NickServ в записи стора.
type Processor struct {
	store   Store
	waiters *Waiters

	mu sync.Mutex
	// ник из последней строки "Information on", ждём для него "Registered :"
	pending string
}

// NewProcessor создаёт процессор уведомлений.
func NewProcessor(store Store, waiters *Waiters) *Processor {
	return &Processor{store: store, waiters: waiters}
}

// Process обрабатывает одну NOTICE-строку от NickServ.
func (p *Processor) Process(ctx context.Context, line string) {
	line = strings.TrimSpace(line)

	if m := infoPattern.FindStringSubmatch(line); m != nil {
		p.mu.Lock()
		p.pending = strings.ToLower(m[1])
		p.mu.Unlock()
		return
	}

	if unknownPattern.MatchString(line) {
		// Незарегистрированный ник: записи не будет, верификатор
		// отвалится по таймауту.
		log.WithField("line", line).Debug("NickServ: ник не зарегистрирован")
		p.mu.Lock()
		p.pending = ""
		p.mu.Unlock()
		return
	}

	m := registeredPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}

	p.mu.Lock()
	nick := p.pending
	p.pending = ""
	p.mu.Unlock()
	if nick == "" {
		return
	}

	registered, ok := parseRegistered(m[1])
	if !ok {
		log.WithFields(log.Fields{"nick": nick, "value": m[1]}).
			Warn("NickServ: не удалось разобрать дату регистрации")
		return
	}

	if err := p.store.Save(ctx, &Record{Nick: nick, RegisteredAt: registered}); err != nil {
		log.WithError(err).WithField("nick", nick).Error("Ошибка сохранения nickserv-записи")
		return
	}
	log.WithFields(log.Fields{"nick": nick, "registered": registered}).
		Debug("NickServ-запись сохранена")

	p.waiters.Notify(nick)
}

// parseRegistered разбирает значение "Registered :". Относительный хвост
// вида "(7y 3w 2d ago)" отрезается.
func parseRegistered(value string) (time.Time, bool) {
	if i := strings.Index(value, "("); i != -1 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)

	for _, layout := range registeredLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
