package email

import (
	"log/slog"
	"sync"
)

// MockProvider - провайдер для локальной разработки и тестов:
// письма не отправляются, а логируются и накапливаются в памяти.
type MockProvider struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []*Email
}

// NewMockProvider создает mock провайдер
func NewMockProvider(logger *slog.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

// Send логирует письмо вместо отправки
func (m *MockProvider) Send(email *Email) error {
	m.logger.Info("MOCK EMAIL",
		"to", email.To,
		"subject", email.Subject,
		"body_length", len(email.Body))

	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()
	return nil
}

// SendNotification логирует простое уведомление
func (m *MockProvider) SendNotification(recipient, subject, message string) error {
	return m.Send(&Email{
		To:      []string{recipient},
		Subject: subject,
		Body:    message,
	})
}

// Sent возвращает накопленные письма (для тестов)
func (m *MockProvider) Sent() []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Email, len(m.sent))
	copy(out, m.sent)
	return out
}

// Validate всегда успешен
func (m *MockProvider) Validate() error { return nil }

// Close всегда успешен
func (m *MockProvider) Close() error { return nil }
