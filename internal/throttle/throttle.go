// Package throttle ограничивает частоту отправки email-уведомлений:
// не больше одной отправки на ключ за скользящее окно.
package throttle

import (
	"fmt"
	"sync"
	"time"

	"prowork_backend/internal/models"
)

const DefaultWindow = time.Minute

// Store - таблица ключ -> время последней отправки. Экземпляр принадлежит
// тому, кто собирает роутер уведомлений (не глобальное состояние), чтобы
// тесты и тенанты получали изолированные стора.
type Store struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

func NewStore(window time.Duration) *Store {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Store{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Key строит ключ троттлинга для треда: "{eventType}_{threadID}".
// Окно считается на диалог/бронирование, а не на пользователя целиком.
func Key(eventType models.NotificationType, threadID string) string {
	return fmt.Sprintf("%s_%s", eventType, threadID)
}

// TryDispatch разрешает отправку, если по ключу еще не отправляли или
// прошло не меньше окна с прошлой отправки. При разрешении фиксирует now.
// Два разрешения по одному ключу внутри одного окна невозможны.
func (s *Store) TryDispatch(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.last[key]; ok && now.Sub(prev) < s.window {
		return false
	}

	s.last[key] = now
	return true
}

// Forget откатывает запись о неудавшейся отправке: проваленный Send не
// должен съедать окно. Откат только если запись все еще от этой попытки.
func (s *Store) Forget(key string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.last[key]; ok && prev.Equal(at) {
		delete(s.last, key)
	}
}

// Window возвращает длину окна
func (s *Store) Window() time.Duration {
	return s.window
}

// Len возвращает число отслеживаемых ключей
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.last)
}

// Sweep удаляет записи старше maxAge и возвращает число удаленных.
// Записи старше окна уже ни на что не влияют, чистка ограничивает рост карты.
func (s *Store) Sweep(now time.Time, maxAge time.Duration) int {
	if maxAge < s.window {
		maxAge = s.window
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ts := range s.last {
		if now.Sub(ts) >= maxAge {
			delete(s.last, key)
			removed++
		}
	}
	return removed
}
