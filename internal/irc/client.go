// Package irc — адаптер транспорта поверх go-ircevent.
// Ядро бота не знает про IRC-протокол: сюда входят сырые PRIVMSG/NOTICE,
// наружу выходят bot.Event и текст для отправки.
package irc

import (
	"context"
	"crypto/tls"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"
	ircevent "github.com/thoj/go-ircevent"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/config"
)

// Client — подключение к IRC-серверу.
type Client struct {
	conn *ircevent.Connection
	cfg  *config.Config
}

// NewClient создаёт клиент без подключения. Обработчики вешаются
// через Bind до вызова Run.
func NewClient(cfg *config.Config) *Client {
	conn := ircevent.IRC(cfg.IRCNick, cfg.IRCUser)
	conn.Password = cfg.IRCPassword
	conn.UseTLS = cfg.IRCUseTLS
	if cfg.IRCUseTLS {
		host, _, err := net.SplitHostPort(cfg.IRCServer)
		if err != nil {
			host = cfg.IRCServer
		}
		conn.TLSConfig = &tls.Config{ServerName: host}
	}
	conn.QuitMessage = "пока"

	return &Client{conn: conn, cfg: cfg}
}

// Bind подключает обработчики: onEvent получает каждое входящее PRIVMSG,
// onServiceNotice — NOTICE от NickServ (асинхронные ответы на "info").
func (c *Client) Bind(onEvent func(bot.Event), onServiceNotice func(line string)) {
	c.conn.AddCallback("001", func(e *ircevent.Event) {
		for _, ch := range c.cfg.IRCChannels {
			log.WithField("channel", ch).Info("Заходим в канал")
			c.conn.Join(ch)
		}
	})

	c.conn.AddCallback("PRIVMSG", func(e *ircevent.Event) {
		if len(e.Arguments) == 0 {
			return
		}
		channel := e.Arguments[0]
		// Личное сообщение: target — наш ник, отвечать надо отправителю.
		if !strings.HasPrefix(channel, "#") {
			channel = e.Nick
		}
		onEvent(bot.Event{
			Channel: channel,
			Sender:  bot.User{Nick: e.Nick, UserName: e.User, Host: e.Host},
			Message: e.Message(),
		})
	})

	c.conn.AddCallback("NOTICE", func(e *ircevent.Event) {
		if strings.EqualFold(e.Nick, c.cfg.NickServNick) {
			onServiceNotice(e.Message())
		}
	})
}

// Run подключается и крутит цикл чтения до отмены контекста.
func (c *Client) Run(ctx context.Context) error {
	if err := c.conn.Connect(c.cfg.IRCServer); err != nil {
		return err
	}
	log.WithField("server", c.cfg.IRCServer).Info("Подключились к IRC")

	go func() {
		<-ctx.Done()
		c.conn.Quit()
	}()

	c.conn.Loop()
	return nil
}

// Send отправляет текст в канал или пользователю. Ошибка доставки
// не возвращается наверх — IRC её всё равно не сообщает.
func (c *Client) Send(channel, text string) {
	c.conn.Privmsg(channel, text)
}

// RequestInfo отправляет NickServ запрос о регистрации ника.
// Ответ придёт асинхронно NOTICE-ом и попадёт в nickserv.Processor.
func (c *Client) RequestInfo(nick string) {
	c.conn.Privmsg(c.cfg.NickServNick, "info "+nick)
}
