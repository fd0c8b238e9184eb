package song

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/middleware"
)

type fakeRepo struct {
	byID map[string]*Song
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: make(map[string]*Song)} }

func (f *fakeRepo) Create(s *Song) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stored := *s
	f.byID[s.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(id string) (*Song, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	stored := *s
	return &stored, nil
}

func (f *fakeRepo) List(search string) ([]Song, error) {
	var out []Song
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeRepo) Update(s *Song) error {
	stored := *s
	f.byID[s.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

var (
	asAdmin  = middleware.AccessContext{UserID: "a1", Role: middleware.RoleAdmin}
	asMember = middleware.AccessContext{UserID: "u1", Role: middleware.RoleUser}
)

func TestCreateRequiresAdmin(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), &CreateSongRequest{Title: "Amazing Grace"}, asMember, "")
	assert.ErrorIs(t, err, ErrForbidden)

	song, err := svc.Create(context.Background(), &CreateSongRequest{Title: "Amazing Grace"}, asAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, "a1", song.CreatedBy)
}

func TestCreateValidatesKey(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	for _, key := range MusicKeys {
		_, err := svc.Create(context.Background(), &CreateSongRequest{Title: "t", Key: key}, asAdmin, "")
		assert.NoError(t, err, key)
	}

	// unset key is fine
	_, err := svc.Create(context.Background(), &CreateSongRequest{Title: "t"}, asAdmin, "")
	assert.NoError(t, err)

	for _, key := range []string{"H", "c", "Db", "C♯", "B#"} {
		_, err := svc.Create(context.Background(), &CreateSongRequest{Title: "t", Key: key}, asAdmin, "")
		assert.ErrorIs(t, err, ErrValidation, key)
	}
}

func TestCreateValidatesYoutubeURL(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), &CreateSongRequest{
		Title: "t", YoutubeURL: "https://www.youtube.com/watch?v=abc123",
	}, asAdmin, "")
	assert.NoError(t, err)

	for _, bad := range []string{"notaurl", "ftp://example.com/x", "//missing-scheme"} {
		_, err := svc.Create(context.Background(), &CreateSongRequest{Title: "t", YoutubeURL: bad}, asAdmin, "")
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestUpdatePartialAndValidated(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	song, err := svc.Create(context.Background(), &CreateSongRequest{
		Title: "Oceans", Artist: "Hillsong", Key: "D",
	}, asAdmin, "")
	require.NoError(t, err)

	newKey := "E"
	updated, err := svc.Update(context.Background(), song.ID, &UpdateSongRequest{Key: &newKey}, asAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, "E", updated.Key)
	assert.Equal(t, "Hillsong", updated.Artist, "unsupplied fields keep their values")

	empty := ""
	_, err = svc.Update(context.Background(), song.ID, &UpdateSongRequest{Title: &empty}, asAdmin, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), song.ID, &UpdateSongRequest{Key: &newKey}, asMember, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteAdminOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	song, err := svc.Create(context.Background(), &CreateSongRequest{Title: "t"}, asAdmin, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), song.ID, asMember, ""), ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), song.ID, asAdmin, ""))
	assert.ErrorIs(t, svc.Delete(context.Background(), song.ID, asAdmin, ""), ErrNotFound)
}
