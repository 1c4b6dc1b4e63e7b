// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, операции,
// диспетчер и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/config"
	"serotonyl.ru/irc-bot/internal/db/postgres"
	"serotonyl.ru/irc-bot/internal/features/admin"
	"serotonyl.ru/irc-bot/internal/features/changes"
	"serotonyl.ru/irc-bot/internal/features/karma"
	"serotonyl.ru/irc-bot/internal/features/nickserv"
	"serotonyl.ru/irc-bot/internal/features/say"
	"serotonyl.ru/irc-bot/internal/features/throttle"
	"serotonyl.ru/irc-bot/internal/irc"
	"serotonyl.ru/irc-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Client    *irc.Client
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Транспорт ===
	client := irc.NewClient(cfg)

	// === 3. Репозитории ===
	karmaRepo := karma.NewRepository(pool)
	throttleRepo := throttle.NewRepository(pool)
	nickservRepo := nickserv.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)
	changesRepo := changes.NewRepository(pool)

	// === 4. NickServ: верификатор и процессор делят один реестр ожиданий ===
	waiters := nickserv.NewWaiters()
	verifier := nickserv.NewVerifier(nickservRepo, client, waiters,
		cfg.NickServWaitTimeout, cfg.NickServMinAgeDays)
	processor := nickserv.NewProcessor(nickservRepo, waiters)

	// === 5. Допуск ===
	throttler := throttle.New(throttleRepo, verifier, adminRepo, cfg.ThrottleThreshold)

	// === 6. Операции (порядок регистрации = порядок ответов) ===
	adminService := admin.NewService(adminRepo, cfg.AdminPasswordHash)
	dispatcher := bot.NewDispatcher(
		karma.NewOperation(karmaRepo, changesRepo),
		admin.NewOperation(adminService),
		say.NewOperation(adminRepo),
	)

	// === 7. Собираем бота и вешаем обработчики на транспорт ===
	b := bot.New(cfg, dispatcher, throttler, client)
	client.Bind(
		func(event bot.Event) { b.HandleEvent(ctx, event) },
		func(line string) { processor.Process(ctx, line) },
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(karmaRepo, client.Send, cfg.HomeChannel())

	log.Info("Приложение собрано")

	return &App{
		Bot:       b,
		Client:    client,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	// Выполняем миграции по порядку
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Karma},
		{2, migration002Throttle},
		{3, migration003NickServ},
		{4, migration004Admins},
		{5, migration005Changes},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Karma = `
CREATE TABLE IF NOT EXISTS karma (
    name VARCHAR(64) PRIMARY KEY,
    value INTEGER NOT NULL DEFAULT 0,
    last_modified_by VARCHAR(64),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

var migration002Throttle = `
CREATE TABLE IF NOT EXISTS throttle_events (
    id BIGSERIAL PRIMARY KEY,
    user_name VARCHAR(64) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_throttle_events_user_name ON throttle_events(user_name);
`

var migration003NickServ = `
CREATE TABLE IF NOT EXISTS nickserv_info (
    nick VARCHAR(64) PRIMARY KEY,
    registered_at TIMESTAMP NOT NULL,
    fetched_at TIMESTAMP DEFAULT NOW()
);
`

var migration004Admins = `
CREATE TABLE IF NOT EXISTS admins (
    id BIGSERIAL PRIMARY KEY,
    nick VARCHAR(64) NOT NULL,
    host VARCHAR(255) NOT NULL,
    added_by VARCHAR(64),
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE(nick, host)
);
`

var migration005Changes = `
CREATE TABLE IF NOT EXISTS changes (
    id BIGSERIAL PRIMARY KEY,
    message TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_changes_created_at ON changes(created_at DESC);
`
