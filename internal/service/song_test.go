package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/model"
)

func newSongFixture(t *testing.T) (*SongService, *fakeSongs, string) {
	t.Helper()
	store := &fakeSongs{}
	dir := t.TempDir()
	return NewSongService(store, dir), store, dir
}

func seedSong(store *fakeSongs, ownerID, name string) model.Song {
	s := model.Song{
		ID:         uuid.NewString(),
		Name:       name,
		Artist:     "artist",
		Genre:      "genre",
		FileURL:    FilesRoutePrefix + "/" + uuid.NewString() + ".mp3",
		UploadedBy: ownerID,
	}
	store.songs = append(store.songs, s)
	return s
}

func TestCreateFromUpload(t *testing.T) {
	svc, store, dir := newSongFixture(t)

	view, err := svc.CreateFromUpload(context.Background(), "owner-1",
		`{"name":"Song A","artist":"Band","genre":"rock"}`, "track.mp3",
		strings.NewReader("mp3-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Song A", view.Name)
	assert.True(t, strings.HasPrefix(view.FileURL, FilesRoutePrefix+"/"))
	assert.True(t, strings.HasSuffix(view.FileURL, ".mp3"))

	require.Len(t, store.songs, 1)
	assert.Equal(t, "owner-1", store.songs[0].UploadedBy)

	// The payload landed on disk under the stored name.
	stored := view.FileURL[strings.LastIndex(view.FileURL, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, stored))
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestCreateFromUploadBadInfo(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	ctx := context.Background()

	_, err := svc.CreateFromUpload(ctx, "owner-1", `not-json`, "track.mp3", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	// Missing required metadata field.
	_, err = svc.CreateFromUpload(ctx, "owner-1", `{"name":"A","artist":"B"}`, "track.mp3", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)

	assert.Empty(t, store.songs)
}

func TestCreateFromUploadRejectsExtension(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	_, err := svc.CreateFromUpload(context.Background(), "owner-1",
		`{"name":"A","artist":"B","genre":"C"}`, "track.wav", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrInvalidFile)
	assert.Empty(t, store.songs)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	s := seedSong(store, "owner-1", "Original")

	name := "Renamed"
	view, err := svc.Update(context.Background(), "owner-1", s.ID, SongUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Name)
	assert.Equal(t, "artist", view.Artist, "unset fields keep their value")
}

func TestUpdateForeignSong(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	s := seedSong(store, "owner-1", "Original")

	name := "Stolen"
	_, err := svc.Update(context.Background(), "owner-2", s.ID, SongUpdate{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestGetMissingSong(t *testing.T) {
	svc, _, _ := newSongFixture(t)
	_, err := svc.GetByID(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, apperr.ErrSongNotFound)
}

func TestDeleteOwnedSong(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	s := seedSong(store, "owner-1", "A")

	require.NoError(t, svc.Delete(context.Background(), "owner-1", s.ID))
	assert.Empty(t, store.songs)
}

func TestSearchBlankKeywordListsAll(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	seedSong(store, "owner-1", "Alpha")
	seedSong(store, "owner-1", "Beta")
	seedSong(store, "owner-2", "Gamma")

	all, err := svc.Search(context.Background(), "owner-1", "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.Search(context.Background(), "owner-1", "alp")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Alpha", matched[0].Name)
}

func TestGetPagedMetadata(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	for i := 0; i < 25; i++ {
		seedSong(store, "owner-1", "song")
	}

	first, err := svc.GetPaged(context.Background(), "owner-1", 0, 10)
	require.NoError(t, err)
	assert.Len(t, first.Content, 10)
	assert.Equal(t, int64(25), first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.First)
	assert.False(t, first.Last)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	last, err := svc.GetPaged(context.Background(), "owner-1", 2, 10)
	require.NoError(t, err)
	assert.Len(t, last.Content, 5)
	assert.True(t, last.Last)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)

	// Out-of-range pages return empty content with intact metadata.
	beyond, err := svc.GetPaged(context.Background(), "owner-1", 9, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Content)
	assert.Equal(t, int64(25), beyond.TotalElements)
}

func TestGetPagedClampsArguments(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	seedSong(store, "owner-1", "song")

	page, err := svc.GetPaged(context.Background(), "owner-1", -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPlayPathResolvesMediaType(t *testing.T) {
	svc, store, dir := newSongFixture(t)
	s := seedSong(store, "owner-1", "A")
	stored := s.FileURL[strings.LastIndex(s.FileURL, "/")+1:]
	require.NoError(t, os.WriteFile(filepath.Join(dir, stored), []byte("bytes"), 0o644))

	path, mediaType, err := svc.PlayPath(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, stored), path)
	assert.Equal(t, "audio/mpeg", mediaType)

	// Play is not owner-scoped: any authenticated caller can resolve it.
	_, _, err = svc.PlayPath(context.Background(), s.ID)
	assert.NoError(t, err)
}

func TestPlayPathMissingFile(t *testing.T) {
	svc, store, _ := newSongFixture(t)
	s := seedSong(store, "owner-1", "A")

	_, _, err := svc.PlayPath(context.Background(), s.ID)
	assert.ErrorIs(t, err, apperr.ErrSongNotFound)
}
