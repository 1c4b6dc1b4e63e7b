// Package middleware содержит промежуточные обработчики для логирования
// и восстановления после паники.
package middleware

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// LogEvent логирует входящее сообщение.
// Записывает: канал, ник отправителя, текст (первые 50 символов).
func LogEvent(channel, nick, text string) {
	if len(text) > 50 {
		text = text[:50] + "..."
	}

	log.WithFields(log.Fields{
		"channel": channel,
		"nick":    nick,
		"text":    text,
		"time":    time.Now().Format("15:04:05"),
	}).Debug("Входящее сообщение")
}
