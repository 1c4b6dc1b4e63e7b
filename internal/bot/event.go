// Package bot содержит модель событий и диспетчер операций.
// event.go описывает неизменяемые значения, которыми обмениваются
// транспорт и операции.
package bot

// User — отправитель сообщения в IRC: nick!user@host.
type User struct {
	Nick     string
	UserName string
	Host     string
}

// Event — одно входящее сообщение. Создаётся транспортом один раз
// и дальше не меняется.
type Event struct {
	Channel string
	Sender  User
	Message string
}

// Reply строит ответ в тот же канал, откуда пришло событие.
func (e Event) Reply(text string) Message {
	return Message{Channel: e.Channel, Event: e, Text: text}
}

// Message — исходящий ответ операции. Никогда не сохраняется,
// живёт только до отправки транспортом.
type Message struct {
	Channel string
	Event   Event
	Text    string
}

// Sender — исходящая сторона транспорта. Ошибка отправки не
// возвращается в поток управления (транспорт сам её логирует).
type Sender interface {
	Send(channel, text string)
}
