package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

type stubUpstream struct {
	people      []schedule.Person
	err         error
	peopleCalls int
}

func (s *stubUpstream) ListPeople(context.Context) ([]schedule.Person, error) {
	s.peopleCalls++
	return s.people, s.err
}

func (s *stubUpstream) ListAppointments(context.Context) ([]schedule.Appointment, error) {
	return []schedule.Appointment{{ID: "a1"}}, nil
}

func newCache(t *testing.T) (*miniredis.Miniredis, *PeopleCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), mr.Addr(), "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewPeopleCache(rdb, time.Minute)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", "")
	assert.Error(t, err)
}

func TestPeopleCache_RoundTripAndTTL(t *testing.T) {
	mr, cache := newCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	people := []schedule.Person{{ID: "p1", Name: "Alice Park", Status: schedule.StatusPatient, PhoneNumber: "555-123-4567"}}
	require.NoError(t, cache.Set(ctx, people))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, people, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPeopleCache_CorruptEntry(t *testing.T) {
	mr, cache := newCache(t)
	require.NoError(t, mr.Set(peopleKey, "not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCachedSource_ReadsThrough(t *testing.T) {
	_, cache := newCache(t)
	up := &stubUpstream{people: []schedule.Person{{ID: "p1", Name: "Alice Park"}}}
	src := NewCachedSource(up, cache, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		people, err := src.ListPeople(ctx)
		require.NoError(t, err)
		assert.Len(t, people, 1)
	}
	assert.Equal(t, 1, up.peopleCalls)

	src.Invalidate(ctx)
	_, err := src.ListPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, up.peopleCalls)

	appts, err := src.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", appts[0].ID)
}

func TestCachedSource_UpstreamErrorNotCached(t *testing.T) {
	mr, cache := newCache(t)
	up := &stubUpstream{err: errors.New("boom")}
	src := NewCachedSource(up, cache, nil)

	_, err := src.ListPeople(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(peopleKey))
}

func TestCachedSource_CacheDownFallsThrough(t *testing.T) {
	mr, cache := newCache(t)
	mr.Close()
	up := &stubUpstream{people: []schedule.Person{{ID: "p1"}}}
	src := NewCachedSource(up, cache, nil)

	people, err := src.ListPeople(context.Background())
	require.NoError(t, err)
	assert.Len(t, people, 1)
}

func TestCachedSource_NilCache(t *testing.T) {
	up := &stubUpstream{people: []schedule.Person{{ID: "p1"}}}
	src := NewCachedSource(up, nil, nil)

	_, err := src.ListPeople(context.Background())
	require.NoError(t, err)
	_, err = src.ListPeople(context.Background())
	require.NoError(t, err)
	src.Invalidate(context.Background())
	assert.Equal(t, 2, up.peopleCalls)
}
