package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "test-session"), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
}

func TestManagerLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, questionnaire.DefaultFlow(), time.Hour)

			var deleted []string
			m.OnDelete(func(id string) { deleted = append(deleted, id) })

			s, err := m.Create(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, s.ID)
			assert.Equal(t, questionnaire.StepTripType, s.Questionnaire.Step)

			_, err = m.Update(ctx, s.ID, func(s *Session) error {
				_, err := s.Memory.Update(preferences.Patch{StyleAxes: map[string]int{preferences.AxisPace: 15}}, preferences.SourceManual)
				return err
			})
			require.NoError(t, err)

			loaded, err := m.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, 15, loaded.Memory.Profile.StyleAxes.Pace)
			assert.Equal(t, preferences.SourceManual, loaded.Memory.Sources["style_axes.pace"])
			assert.True(t, loaded.UpdatedAt.After(loaded.CreatedAt) || loaded.UpdatedAt.Equal(loaded.CreatedAt))

			require.NoError(t, m.Delete(ctx, s.ID))
			assert.Equal(t, []string{s.ID}, deleted)

			_, err = m.Get(ctx, s.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, m.Delete(ctx, s.ID), ErrNotFound)
			_, err = m.Update(ctx, s.ID, func(*Session) error { return nil })
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestManagerUpdateFailureDoesNotSave(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), questionnaire.DefaultFlow(), time.Hour)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Update(ctx, s.ID, func(s *Session) error {
		s.Trip.Passengers.Adults = 9
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Trip.Passengers.Adults)
}

func TestManagerSerializesConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	m := NewManager(store, questionnaire.DefaultFlow(), time.Hour)

	s, err := m.Create(ctx)
	require.NoError(t, err)

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, s.ID, func(s *Session) error {
				s.Trip.Passengers.Adults++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1+writers, loaded.Trip.Passengers.Adults)
	assert.Empty(t, m.locks)
}

func TestRedisStoreExpiresSessions(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	m := NewManager(store, questionnaire.DefaultFlow(), time.Minute)

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test-session:"+s.ID))
	assert.Equal(t, time.Minute, mr.TTL("test-session:"+s.ID))

	mr.FastForward(2 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &Session{ID: "s1"}, time.Minute))
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOffer(t *testing.T) {
	s := &Session{Results: []models.LegResult{
		{Index: 0, Offers: []models.FlightOffer{{ID: "a"}, {ID: "b"}}},
	}}

	o, ok := s.FindOffer(0, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", o.ID)

	_, ok = s.FindOffer(0, "z")
	assert.False(t, ok)
	_, ok = s.FindOffer(1, "a")
	assert.False(t, ok)
}
