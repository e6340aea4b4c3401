package notify

import (
	"sync"
	"time"

	"prowork_backend/internal/models"
)

// Notification - материализованное уведомление одного пользователя.
type Notification struct {
	ID          string
	Type        models.NotificationType
	Title       string
	Description string
	Timestamp   time.Time
	Read        bool
	Metadata    map[string]string
}

// Store - упорядоченная коллекция уведомлений одного пользователя,
// новые впереди. Вместо UI-контекста подписчики получают новые
// уведомления через Subscribe (push в ws, toast и т.п.).
type Store struct {
	mu    sync.Mutex
	items []Notification

	subMu   sync.Mutex
	subs    map[int]func(Notification)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Notification))}
}

// Append вставляет уведомление в начало списка и рассылает подписчикам
func (s *Store) Append(n Notification) {
	s.mu.Lock()
	s.items = append([]Notification{n}, s.items...)
	s.mu.Unlock()

	s.publish(n)
}

// MarkAsRead помечает уведомление прочитанным. No-op для неизвестного id.
func (s *Store) MarkAsRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			if s.items[i].Read {
				return false
			}
			s.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllAsRead помечает все уведомления прочитанными. Идемпотентно.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		s.items[i].Read = true
	}
}

// UnreadCount - производное значение, не хранится отдельно
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.items {
		if !s.items[i].Read {
			count++
		}
	}
	return count
}

// Notifications возвращает копию списка, новые впереди
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len возвращает размер коллекции
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Subscribe регистрирует подписчика на новые уведомления.
// Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(Notification)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(n Notification) {
	s.subMu.Lock()
	fns := make([]func(Notification), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
