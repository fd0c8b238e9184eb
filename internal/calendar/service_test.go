package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchflow/churchflow-backend/internal/auth"
	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/internal/blockout"
	"github.com/churchflow/churchflow-backend/internal/event"
	"github.com/churchflow/churchflow-backend/utils"
)

type fakeBlockouts struct{ items []blockout.Blockout }

func (f *fakeBlockouts) ListAll(start, end *time.Time) ([]blockout.Blockout, error) {
	var out []blockout.Blockout
	for _, b := range f.items {
		if start != nil && b.EndDate.Before(*start) {
			continue
		}
		if end != nil && b.StartDate.After(*end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeEvents struct{ items []event.Event }

func (f *fakeEvents) List(start, end *time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, e := range f.items {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeUsers struct{ byID map[string]auth.User }

func (f *fakeUsers) GetUsersByIDs(userIDs []string) (map[string]auth.User, error) {
	out := make(map[string]auth.User)
	for _, id := range userIDs {
		if u, ok := f.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	cached    map[string]availability.DateAvailability
	gets      int
	refreshes int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{cached: make(map[string]availability.DateAvailability)}
}

func (f *fakeSnapshots) Get(ctx context.Context, date time.Time) (availability.DateAvailability, error) {
	f.gets++
	key := availability.Day(date).Format("2006-01-02")
	if a, ok := f.cached[key]; ok {
		return a, nil
	}
	return availability.DateAvailability{}, utils.ErrCacheMiss
}

func (f *fakeSnapshots) Refresh(ctx context.Context, date time.Time, compute func() (availability.DateAvailability, error)) (availability.DateAvailability, error) {
	f.refreshes++
	a, err := compute()
	if err != nil {
		return a, err
	}
	f.cached[availability.Day(date).Format("2006-01-02")] = a
	return a, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(blockouts []blockout.Blockout, events []event.Event, users map[string]auth.User) (Service, *fakeSnapshots) {
	snaps := newFakeSnapshots()
	svc := NewService(
		&fakeBlockouts{items: blockouts},
		&fakeEvents{items: events},
		&fakeUsers{byID: users},
		snaps,
	)
	return svc, snaps
}

func TestCheckDateAvailable(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)

	resp, err := svc.CheckDate(context.Background(), day(2024, 6, 11))
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Equal(t, "2024-06-11", resp.Date)
	assert.Empty(t, resp.ConflictingUsers)
}

func TestCheckDateResolvesConflictingUsers(t *testing.T) {
	blockouts := []blockout.Blockout{
		{ID: "b1", UserID: "u1", StartDate: day(2024, 6, 10), EndDate: day(2024, 6, 12), Reason: "vacation"},
		{ID: "b2", UserID: "u2", StartDate: day(2024, 6, 11), EndDate: day(2024, 6, 11)},
		{ID: "b3", UserID: "u1", StartDate: day(2024, 6, 11), EndDate: day(2024, 6, 14)},
	}
	users := map[string]auth.User{
		"u1": {ID: "u1", FirstName: "Ada", LastName: "Okafor", Email: "ada@example.org"},
		"u2": {ID: "u2", FirstName: "Ben", LastName: "Huang", Email: "ben@example.org"},
	}
	svc, _ := newTestService(blockouts, nil, users)

	resp, err := svc.CheckDate(context.Background(), day(2024, 6, 11))
	require.NoError(t, err)

	assert.False(t, resp.Available)
	require.Len(t, resp.ConflictingUsers, 2)

	// first-seen order, one entry per user, with all their covering blockouts
	assert.Equal(t, "u1", resp.ConflictingUsers[0].UserID)
	assert.Equal(t, "Ada Okafor", resp.ConflictingUsers[0].Name)
	assert.Equal(t, "ada@example.org", resp.ConflictingUsers[0].Email)
	require.Len(t, resp.ConflictingUsers[0].Blockouts, 2)
	assert.Equal(t, "b1", resp.ConflictingUsers[0].Blockouts[0].ID)
	assert.Equal(t, "b3", resp.ConflictingUsers[0].Blockouts[1].ID)

	assert.Equal(t, "u2", resp.ConflictingUsers[1].UserID)
	require.Len(t, resp.ConflictingUsers[1].Blockouts, 1)
}

func TestCheckDateUsesSnapshotCache(t *testing.T) {
	blockouts := []blockout.Blockout{
		{ID: "b1", UserID: "u1", StartDate: day(2024, 6, 11), EndDate: day(2024, 6, 11)},
	}
	users := map[string]auth.User{"u1": {ID: "u1", FirstName: "Ada"}}
	svc, snaps := newTestService(blockouts, nil, users)

	_, err := svc.CheckDate(context.Background(), day(2024, 6, 11))
	require.NoError(t, err)
	assert.Equal(t, 1, snaps.refreshes)

	_, err = svc.CheckDate(context.Background(), day(2024, 6, 11))
	require.NoError(t, err)

	// second read is a cache hit, no recompute
	assert.Equal(t, 2, snaps.gets)
	assert.Equal(t, 1, snaps.refreshes)
}

func TestMonthViewShapeAndPlacement(t *testing.T) {
	events := []event.Event{
		{ID: "e1", Title: "Sunday Service", Date: time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC)},
		{ID: "e2", Title: "Rehearsal", Date: time.Date(2024, 6, 9, 18, 30, 0, 0, time.UTC)},
		{ID: "e3", Title: "Youth Night", Date: time.Date(2024, 6, 21, 19, 0, 0, 0, time.UTC)},
	}
	blockouts := []blockout.Blockout{
		{ID: "b1", UserID: "u1", StartDate: day(2024, 6, 8), EndDate: day(2024, 6, 10)},
	}
	svc, _ := newTestService(blockouts, events, nil)

	resp, err := svc.MonthView(2024, time.June)
	require.NoError(t, err)

	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, 6, resp.Month)

	// June 2024 spans six Sunday-aligned weeks
	require.Len(t, resp.Days, 42)
	assert.Equal(t, "2024-05-26", resp.Days[0].Date)
	assert.False(t, resp.Days[0].InMonth)

	byDate := make(map[string]DayCell)
	for _, cell := range resp.Days {
		byDate[cell.Date] = cell
	}

	ninth := byDate["2024-06-09"]
	assert.True(t, ninth.InMonth)
	require.Len(t, ninth.Events, 2)
	assert.Equal(t, "Sunday Service", ninth.Events[0].Title)
	assert.False(t, ninth.Available)
	require.Len(t, ninth.Blockouts, 1)

	// blockout covers the 8th through the 10th, not the 11th
	assert.False(t, byDate["2024-06-10"].Available)
	assert.True(t, byDate["2024-06-11"].Available)
	assert.Empty(t, byDate["2024-06-11"].Blockouts)

	twentyFirst := byDate["2024-06-21"]
	require.Len(t, twentyFirst.Events, 1)
	assert.Equal(t, "Youth Night", twentyFirst.Events[0].Title)
	assert.True(t, twentyFirst.Available)
}
