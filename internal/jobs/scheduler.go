// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает ежедневный анонс топа кармы в домашний канал.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/features/karma"
)

// KarmaTop — источник данных для анонса.
type KarmaTop interface {
	Top(ctx context.Context, n int) ([]karma.Record, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	karma    KarmaTop
	sendFunc func(channel, text string)
	channel  string
}

// NewScheduler создаёт планировщик задач.
func NewScheduler(karmaTop KarmaTop, sendFunc func(channel, text string), channel string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		karma:    karmaTop,
		sendFunc: sendFunc,
		channel:  channel,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ежедневный анонс топа кармы в полночь
	s.cron.AddFunc("0 0 * * *", func() {
		log.Info("[CRON] Анонс топа кармы")
		if err := s.announceTop(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка анонса")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) announceTop(ctx context.Context) error {
	top, err := s.karma.Top(ctx, 5)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}

	parts := make([]string, 0, len(top))
	for _, rec := range top {
		parts = append(parts, fmt.Sprintf("%s (%d)", rec.Name, rec.Value))
	}
	s.sendFunc(s.channel, "today's karma leaders: "+strings.Join(parts, ", "))
	return nil
}
