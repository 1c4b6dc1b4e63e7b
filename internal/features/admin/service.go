// Package admin — service.go содержит логику входа: проверку пароля
// Argon2id и защиту от перебора.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/common"
)

// Store — список админов.
type Store interface {
	IsAdmin(ctx context.Context, nick, host string) (bool, error)
	Add(ctx context.Context, nick, host, addedBy string) error
}

// Service управляет входом в админы.
type Service struct {
	repo         Store
	passwordHash string

	// Неудачные попытки держим в памяти: 3 в час на ник.
	// Процесс один, персистить попытки незачем.
	attemptsMu sync.Mutex
	attempts   map[string][]time.Time
}

// NewService создаёт сервис админки.
func NewService(repo Store, passwordHash string) *Service {
	return &Service{
		repo:         repo,
		passwordHash: passwordHash,
		attempts:     make(map[string][]time.Time),
	}
}

// Login проверяет пароль и добавляет отправителя (ник+хост) в админы.
func (s *Service) Login(ctx context.Context, user bot.User, password string) error {
	if s.tooManyAttempts(user.Nick) {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.passwordHash) {
		s.logAttempt(user.Nick)
		return common.ErrWrongPassword
	}

	if err := s.repo.Add(ctx, user.Nick, user.Host, user.Nick); err != nil {
		return err
	}
	log.WithFields(log.Fields{"nick": user.Nick, "host": user.Host}).Info("Добавлен админ")
	return nil
}

func (s *Service) tooManyAttempts(nick string) bool {
	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	var recent []time.Time
	for _, t := range s.attempts[nick] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.attempts[nick] = recent
	return len(recent) >= 3
}

func (s *Service) logAttempt(nick string) {
	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()
	s.attempts[nick] = append(s.attempts[nick], time.Now())
}

// verifyArgon2id сравнивает пароль с хешем формата
// $argon2id$v=19$m=...,t=...,p=...$salt$hash (см. scripts/generate_hash.go).
// Сравнение через subtle — за постоянное время.
func verifyArgon2id(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
