// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- IRC ---
	IRCServer string `envconfig:"IRC_SERVER" required:"true"` // host:port
	IRCNick   string `envconfig:"IRC_NICK" default:"karmabot"`
	IRCUser   string `envconfig:"IRC_USER" default:"karmabot"`
	// Серверный пароль (не NickServ). Пустой — без пароля.
	IRCPassword string `envconfig:"IRC_PASSWORD"`
	IRCUseTLS   bool   `envconfig:"IRC_USE_TLS" default:"true"`
	// Каналы через запятую: "#bot,#dev". Первый канал — «домашний»,
	// туда уходят анонсы планировщика.
	IRCChannelsRaw string   `envconfig:"IRC_CHANNELS" required:"true"`
	IRCChannels    []string `envconfig:"-"` // заполним вручную

	// Ник сервиса регистрации. На либере/фриноде это NickServ.
	NickServNick string `envconfig:"NICKSERV_NICK" default:"NickServ"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"irc_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Сколько событий обрабатываем параллельно. Иначе "go на каждое сообщение" =
	// утечка памяти при флуде, а проверка NickServ держит горутину до 10 секунд.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Throttle ---
	// Сколько сообщений от пользователя допускаем, прежде чем начать игнорировать.
	// Счётчик накопительный (см. throttle.Throttler).
	ThrottleThreshold int64 `envconfig:"THROTTLE_THRESHOLD" default:"100"`

	// --- NickServ ---
	// Минимальный возраст аккаунта в днях.
	NickServMinAgeDays int `envconfig:"NICKSERV_MIN_AGE_DAYS" default:"7"`
	// Сколько ждём ответа NickServ на запрос info.
	NickServWaitTimeout time.Duration `envconfig:"NICKSERV_WAIT_TIMEOUT" default:"10s"`

	// --- Admin ---
	// Argon2id-хеш пароля для ~admin login (см. scripts/generate_hash.go).
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// HomeChannel — канал для анонсов (первый из списка).
func (c *Config) HomeChannel() string {
	if len(c.IRCChannels) == 0 {
		return ""
	}
	return c.IRCChannels[0]
}

func (c *Config) Validate() error {
	if len(c.IRCChannels) == 0 {
		return fmt.Errorf("IRC_CHANNELS не задан")
	}
	for _, ch := range c.IRCChannels {
		if !strings.HasPrefix(ch, "#") {
			return fmt.Errorf("канал %q должен начинаться с #", ch)
		}
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.ThrottleThreshold <= 0 {
		return fmt.Errorf("THROTTLE_THRESHOLD должен быть > 0")
	}
	if c.NickServMinAgeDays < 0 {
		return fmt.Errorf("NICKSERV_MIN_AGE_DAYS не может быть отрицательным")
	}
	if c.NickServWaitTimeout <= 0 {
		return fmt.Errorf("NICKSERV_WAIT_TIMEOUT должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	cfg.IRCChannels = parseCSV(cfg.IRCChannelsRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
