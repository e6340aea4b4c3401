package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"prowork_backend/internal/models"
)

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "message_c1", Key(models.NotificationTypeMessage, "c1"))
	assert.Equal(t, "booking_b42", Key(models.NotificationTypeBooking, "b42"))
}

// Точность окна: t и t+30s дают Sent/Throttled, t+61s - снова Sent.
func TestStore_TryDispatchWindow(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, s.TryDispatch("message_c1", t0))
	assert.False(t, s.TryDispatch("message_c1", t0.Add(30*time.Second)))
	assert.True(t, s.TryDispatch("message_c1", t0.Add(61*time.Second)))
}

func TestStore_WindowBoundaryInclusive(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t0 := time.Now()

	assert.True(t, s.TryDispatch("k", t0))
	// Ровно через окно отправка снова разрешена
	assert.True(t, s.TryDispatch("k", t0.Add(time.Minute)))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t0 := time.Now()

	assert.True(t, s.TryDispatch("message_c1", t0))
	assert.True(t, s.TryDispatch("message_c2", t0))
	assert.True(t, s.TryDispatch("booking_c1", t0))
	assert.False(t, s.TryDispatch("message_c1", t0.Add(time.Second)))
}

func TestStore_Forget(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t0 := time.Now()

	assert.True(t, s.TryDispatch("k", t0))

	// Откат неудавшейся отправки освобождает окно немедленно
	s.Forget("k", t0)
	assert.True(t, s.TryDispatch("k", t0.Add(time.Second)))

	// Forget с устаревшей меткой не трогает свежую запись
	s.Forget("k", t0)
	assert.False(t, s.TryDispatch("k", t0.Add(2*time.Second)))
}

func TestStore_Sweep(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.TryDispatch("old_a", t0)
	s.TryDispatch("old_b", t0)
	s.TryDispatch("fresh", t0.Add(5*time.Hour))
	assert.Equal(t, 3, s.Len())

	removed := s.Sweep(t0.Add(6*time.Hour), time.Hour)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Len())

	// Свежий ключ остался и продолжает троттлить
	assert.False(t, s.TryDispatch("fresh", t0.Add(5*time.Hour+30*time.Second)))
}

func TestNewStore_DefaultWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultWindow, NewStore(0).Window())
	assert.Equal(t, time.Second*90, NewStore(90*time.Second).Window())
}
