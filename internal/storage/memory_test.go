package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quyca-monitor/internal/risk"
)

var base = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestInsertAndListAlertsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	for i, temp := range []float64{29.2, 47.2, 38.5} {
		rec, err := s.InsertAlert(ctx, AlertRecord{
			At:          base.Add(time.Duration(i) * time.Hour),
			Temperature: temp,
			Tier:        risk.Classify(temp),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
	}
	_, err := s.InsertAlert(ctx, AlertRecord{At: base.Add(-time.Hour), Temperature: 10})
	require.NoError(t, err)

	got, err := s.ListRecentAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 38.5, got[0].Temperature)
	assert.Equal(t, 10.0, got[3].Temperature)

	limited, err := s.ListRecentAlerts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAlertCapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	for i := 0; i < 3; i++ {
		_, err := s.InsertAlert(ctx, AlertRecord{At: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	_, err := s.GetAlert(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	rec, err := s.GetAlert(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Minute), rec.At)
}

func TestReadingsRing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.AppendReading(ctx, ReadingSample{Tick: uint64(i), Temperature: float64(20 + i)}))
	}

	n, err := s.CountReadings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.ListRecentReadings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(4), got[0].Tick)
	assert.Equal(t, uint64(5), got[1].Tick)
}

func TestClosedAndCancelled(t *testing.T) {
	s := NewMemoryStore(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.InsertAlert(ctx, AlertRecord{})
	assert.ErrorIs(t, err, context.Canceled)

	s.Close()
	_, err = s.ListRecentAlerts(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.AppendReading(context.Background(), ReadingSample{}), ErrClosed)
}
