package blockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/middleware"
)

type fakeRepo struct {
	byID    map[string]*Blockout
	nextID  int
	created []*Blockout
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Blockout)}
}

func (f *fakeRepo) Create(b *Blockout) error {
	f.nextID++
	if b.ID == "" {
		b.ID = "b" + time.Now().Format("150405") + string(rune('a'+f.nextID))
	}
	copy := *b
	f.byID[b.ID] = &copy
	f.created = append(f.created, &copy)
	return nil
}

func (f *fakeRepo) FindByID(id string) (*Blockout, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copy := *b
	return &copy, nil
}

func (f *fakeRepo) ListByUser(userID string, start, end *time.Time) ([]Blockout, error) {
	var out []Blockout
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(start, end *time.Time) ([]Blockout, error) {
	var out []Blockout
	for _, b := range f.byID {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) Update(b *Blockout) error {
	copy := *b
	f.byID[b.ID] = &copy
	return nil
}

func (f *fakeRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(ctx context.Context, start, end time.Time) error {
	f.calls++
	return nil
}

func newTestService(repo Repository) (*service, *fakeInvalidator) {
	inv := &fakeInvalidator{}
	svc := &service{
		repo:      repo,
		snapshots: inv,
		now:       func() time.Time { return time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC) },
	}
	return svc, inv
}

func member(id string) middleware.AccessContext {
	return middleware.AccessContext{UserID: id, Role: middleware.RoleUser}
}

func admin(id string) middleware.AccessContext {
	return middleware.AccessContext{UserID: id, Role: middleware.RoleAdmin}
}

func TestCreateSetsOwnerFromSession(t *testing.T) {
	repo := newFakeRepo()
	svc, inv := newTestService(repo)

	b, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10",
		EndDate:   "2024-06-12",
		Reason:    "family trip",
	}, member("u1"), "127.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, "u1", b.UserID, "owner must come from the session, not the body")
	assert.Equal(t, availability.StatusActive, b.Status)
	assert.Equal(t, 1, inv.calls, "cache must be invalidated on create")
}

func TestCreateRejectsInvertedInterval(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-12",
		EndDate:   "2024-06-10",
	}, member("u1"), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRejectsMalformedDates(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "June 10",
		EndDate:   "2024-06-12",
	}, member("u1"), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12",
	}, member("u1"), "")
	require.NoError(t, err)

	reason := "changed"
	_, err = svc.Update(context.Background(), created.ID, &UpdateBlockoutRequest{Reason: &reason}, member("u2"), "")
	assert.ErrorIs(t, err, ErrForbidden)

	// even an admin cannot update someone else's blockout
	_, err = svc.Update(context.Background(), created.ID, &UpdateBlockoutRequest{Reason: &reason}, admin("a1"), "")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), created.ID, &UpdateBlockoutRequest{Reason: &reason}, member("u1"), "")
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Reason)
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12", Reason: "trip",
	}, member("u1"), "")
	require.NoError(t, err)

	end := "2024-06-15"
	updated, err := svc.Update(context.Background(), created.ID, &UpdateBlockoutRequest{EndDate: &end}, member("u1"), "")
	require.NoError(t, err)

	assert.Equal(t, "trip", updated.Reason, "unsupplied fields keep their values")
	assert.Equal(t, "2024-06-10", updated.StartDate.Format(dateLayout))
	assert.Equal(t, "2024-06-15", updated.EndDate.Format(dateLayout))
}

func TestUpdateRejectsMergedInvertedInterval(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12",
	}, member("u1"), "")
	require.NoError(t, err)

	end := "2024-06-01"
	_, err = svc.Update(context.Background(), created.ID, &UpdateBlockoutRequest{EndDate: &end}, member("u1"), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateMissingBlockout(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())
	reason := "x"
	_, err := svc.Update(context.Background(), "nope", &UpdateBlockoutRequest{Reason: &reason}, member("u1"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	first, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12",
	}, member("u1"), "")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-07-01", EndDate: "2024-07-02",
	}, member("u1"), "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), first.ID, member("u2"), ""), ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), first.ID, member("u1"), ""))
	assert.NoError(t, svc.Delete(context.Background(), second.ID, admin("a1"), ""))
}

func TestListTeamRequiresAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.ListTeam(member("u1"), nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListTeam(admin("a1"), nil, nil)
	assert.NoError(t, err)
}

func TestListMineAnnotatesStatus(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo) // now = 2024-06-11

	_, err := svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-06-10", EndDate: "2024-06-12",
	}, member("u1"), "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-05-01", EndDate: "2024-05-02",
	}, member("u1"), "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateBlockoutRequest{
		StartDate: "2024-07-01", EndDate: "2024-07-02",
	}, member("u1"), "")
	require.NoError(t, err)

	mine, err := svc.ListMine(member("u1"), nil, nil)
	require.NoError(t, err)
	require.Len(t, mine, 3)

	statuses := make(map[availability.Status]int)
	for _, b := range mine {
		statuses[b.Status]++
	}
	assert.Equal(t, 1, statuses[availability.StatusActive])
	assert.Equal(t, 1, statuses[availability.StatusPast])
	assert.Equal(t, 1, statuses[availability.StatusUpcoming])
}
