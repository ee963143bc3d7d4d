package storage

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when an alert id is unknown or already evicted.
	ErrNotFound = errors.New("storage: record not found")
	// ErrClosed indicates the store was closed.
	ErrClosed = errors.New("storage: store closed")
)

// MemoryStore keeps bounded alert and reading logs in process memory.
// Oldest entries are evicted once a log reaches its capacity.
type MemoryStore struct {
	mu       sync.RWMutex
	alerts   []AlertRecord
	readings []ReadingSample
	capacity int
	nextID   int64
	closed   bool
	now      func() time.Time
}

// NewMemoryStore returns a store holding at most capacity entries per log.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryStore{capacity: capacity, nextID: 1, now: time.Now}
}

// Close drops all records. Later calls fail with ErrClosed.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.alerts = nil
	s.readings = nil
}

// InsertAlert stores an alert, assigning ID and CreatedAt.
func (s *MemoryStore) InsertAlert(ctx context.Context, alert AlertRecord) (AlertRecord, error) {
	if err := ctx.Err(); err != nil {
		return AlertRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return AlertRecord{}, ErrClosed
	}

	alert.ID = s.nextID
	s.nextID++
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = s.now()
	}
	if alert.At.IsZero() {
		alert.At = alert.CreatedAt
	}
	s.alerts = append(s.alerts, alert)
	if over := len(s.alerts) - s.capacity; over > 0 {
		s.alerts = append(s.alerts[:0:0], s.alerts[over:]...)
	}
	return alert, nil
}

// ListRecentAlerts returns up to limit alerts ordered by At, newest first.
// A non-positive limit returns everything retained.
func (s *MemoryStore) ListRecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]AlertRecord, len(s.alerts))
	copy(out, s.alerts)
	sortAlertsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetAlert looks up one alert by id.
func (s *MemoryStore) GetAlert(ctx context.Context, id int64) (AlertRecord, error) {
	if err := ctx.Err(); err != nil {
		return AlertRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return AlertRecord{}, ErrClosed
	}
	for _, a := range s.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return AlertRecord{}, ErrNotFound
}

// AppendReading records a reading sample.
func (s *MemoryStore) AppendReading(ctx context.Context, sample ReadingSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.readings = append(s.readings, sample)
	if over := len(s.readings) - s.capacity; over > 0 {
		s.readings = append(s.readings[:0:0], s.readings[over:]...)
	}
	return nil
}

// ListRecentReadings returns up to limit readings, oldest first.
func (s *MemoryStore) ListRecentReadings(ctx context.Context, limit int) ([]ReadingSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	src := s.readings
	if limit > 0 && len(src) > limit {
		src = src[len(src)-limit:]
	}
	out := make([]ReadingSample, len(src))
	copy(out, src)
	return out, nil
}

// CountReadings reports how many readings are retained.
func (s *MemoryStore) CountReadings(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.readings), nil
}

func sortAlertsNewestFirst(alerts []AlertRecord) {
	slices.SortStableFunc(alerts, func(a, b AlertRecord) int {
		if c := b.At.Compare(a.At); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
