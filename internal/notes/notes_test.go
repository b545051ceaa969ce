package notes

import (
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/storage"
)

// testClock is a controllable clock for delivery-gate tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService() (*Service, *testClock) {
	clock := &testClock{now: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	svc := NewService(storage.NewMemoryStorage(), "notesbot", zap.NewNop())
	svc.now = clock.Now
	return svc, clock
}
