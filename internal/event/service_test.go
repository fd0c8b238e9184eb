package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/song"
	"github.com/churchflow/churchflow-backend/middleware"
)

type fakeRepo struct {
	events      map[string]*Event
	assignments []*EventSong
}

func newFakeRepo() *fakeRepo { return &fakeRepo{events: make(map[string]*Event)} }

func (r *fakeRepo) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(id string) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	for _, es := range r.assignments {
		if es.EventID == id {
			cp.Songs = append(cp.Songs, *es)
		}
	}
	return &cp, nil
}

func (r *fakeRepo) List(start, end *time.Time) ([]Event, error) {
	var out []Event
	for _, e := range r.events {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeRepo) FindAssignment(eventID, songID string) (*EventSong, error) {
	for _, es := range r.assignments {
		if es.EventID == eventID && es.SongID == songID {
			cp := *es
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) AttachSong(es *EventSong) error {
	cp := *es
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.assignments = append(r.assignments, &cp)
	return nil
}

func (r *fakeRepo) DetachSong(eventID, songID string) error {
	for i, es := range r.assignments {
		if es.EventID == eventID && es.SongID == songID {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRepo) NextOrder(eventID string) (int, error) {
	next := 0
	for _, es := range r.assignments {
		if es.EventID == eventID && es.Order >= next {
			next = es.Order + 1
		}
	}
	return next, nil
}

func (r *fakeRepo) CountEvents() (int64, error) {
	return int64(len(r.events)), nil
}

func (r *fakeRepo) CountEventsSince(t time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if !e.Date.Before(t) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountEventsBetween(start, end time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if !e.Date.Before(start) && e.Date.Before(end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountAssignments() (int64, error) {
	return int64(len(r.assignments)), nil
}

type fakeSongFinder struct {
	known map[string]bool
}

func (f *fakeSongFinder) GetByID(id string) (*song.Song, error) {
	if !f.known[id] {
		return nil, song.ErrNotFound
	}
	return &song.Song{ID: id, Title: "song " + id}, nil
}

func newTestService(known ...string) (*service, *fakeRepo) {
	repo := newFakeRepo()
	finder := &fakeSongFinder{known: make(map[string]bool)}
	for _, id := range known {
		finder.known[id] = true
	}
	svc := &service{
		repo:  repo,
		songs: finder,
		now:   func() time.Time { return time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC) },
	}
	return svc, repo
}

func asAdmin() middleware.AccessContext {
	return middleware.AccessContext{UserID: "admin-1", Role: middleware.RoleAdmin}
}

func asMember() middleware.AccessContext {
	return middleware.AccessContext{UserID: "member-1", Role: middleware.RoleUser}
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &CreateEventRequest{
		Title: "Sunday Service",
		Date:  "2024-07-07T09:00",
	}, asMember(), "10.0.0.1")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateAcceptsBothDateFormats(t *testing.T) {
	svc, _ := newTestService()

	e, err := svc.Create(context.Background(), &CreateEventRequest{
		Title: "Sunday Service",
		Date:  "2024-07-07T09:00:00Z",
	}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 7, 9, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, "admin-1", e.CreatedBy)

	e, err = svc.Create(context.Background(), &CreateEventRequest{
		Title: "Evening Worship",
		Date:  "2024-07-07T18:30",
	}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 18, e.Date.Hour())
	assert.Equal(t, 30, e.Date.Minute())
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &CreateEventRequest{
		Title: "Sunday Service",
		Date:  "07/07/2024",
	}, asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), &CreateEventRequest{
		Title: "   ",
		Date:  "2024-07-07T09:00",
	}, asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAttachSongsRequiresAdmin(t *testing.T) {
	svc, _ := newTestService("s1")
	e := mustCreate(t, svc, "Sunday Service", "2024-07-07T09:00")

	_, err := svc.AttachSongs(context.Background(), e.ID, []string{"s1"}, asMember(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAttachSongsUnknownEvent(t *testing.T) {
	svc, _ := newTestService("s1")

	_, err := svc.AttachSongs(context.Background(), "missing", []string{"s1"}, asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// A failing song in the middle of the batch must not undo the songs
// attached before it or block the ones after it.
func TestAttachSongsPartialFailureKeepsOthers(t *testing.T) {
	svc, repo := newTestService("s1", "s3")
	e := mustCreate(t, svc, "Sunday Service", "2024-07-07T09:00")

	resp, err := svc.AttachSongs(context.Background(), e.ID, []string{"s1", "s2", "s3"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s3"}, resp.Attached)
	require.Contains(t, resp.Failed, "s2")

	got, err := repo.FindByID(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Songs, 2)
	assert.Equal(t, "s1", got.Songs[0].SongID)
	assert.Equal(t, "s3", got.Songs[1].SongID)
}

func TestAttachSongsDuplicateRejected(t *testing.T) {
	svc, _ := newTestService("s1")
	e := mustCreate(t, svc, "Sunday Service", "2024-07-07T09:00")

	resp, err := svc.AttachSongs(context.Background(), e.ID, []string{"s1"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, resp.Attached)

	resp, err = svc.AttachSongs(context.Background(), e.ID, []string{"s1"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, resp.Attached)
	assert.Contains(t, resp.Failed, "s1")
}

func TestAttachSongsOrderIsSequential(t *testing.T) {
	svc, repo := newTestService("s1", "s2", "s3")
	e := mustCreate(t, svc, "Sunday Service", "2024-07-07T09:00")

	_, err := svc.AttachSongs(context.Background(), e.ID, []string{"s1", "s2", "s3"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	got, err := repo.FindByID(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Songs, 3)
	for i, es := range got.Songs {
		assert.Equal(t, i, es.Order)
	}
}

func TestDetachSong(t *testing.T) {
	svc, repo := newTestService("s1", "s2")
	e := mustCreate(t, svc, "Sunday Service", "2024-07-07T09:00")

	_, err := svc.AttachSongs(context.Background(), e.ID, []string{"s1", "s2"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	err = svc.DetachSong(context.Background(), e.ID, "s1", asMember(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DetachSong(context.Background(), e.ID, "s1", asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	got, err := repo.FindByID(e.ID)
	require.NoError(t, err)
	require.Len(t, got.Songs, 1)
	assert.Equal(t, "s2", got.Songs[0].SongID)

	err = svc.DetachSong(context.Background(), e.ID, "s1", asAdmin(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService("s1")

	// now is fixed at 2024-06-11
	mustCreate(t, svc, "Past Event", "2024-05-01T09:00")
	mustCreate(t, svc, "Earlier This Month", "2024-06-02T09:00")
	this := mustCreate(t, svc, "Later This Month", "2024-06-23T09:00")
	mustCreate(t, svc, "Next Month", "2024-07-07T09:00")

	_, err := svc.AttachSongs(context.Background(), this.ID, []string{"s1"}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalEvents)
	assert.Equal(t, int64(2), stats.UpcomingEvents)
	assert.Equal(t, int64(2), stats.ThisMonthEvents)
	assert.Equal(t, int64(1), stats.SongAssignments)
}

func mustCreate(t *testing.T, svc *service, title, date string) *Event {
	t.Helper()
	e, err := svc.Create(context.Background(), &CreateEventRequest{Title: title, Date: date}, asAdmin(), "10.0.0.1")
	require.NoError(t, err)
	return e
}
