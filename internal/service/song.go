package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/repository"
)

// FilesRoutePrefix is the public static route under which uploaded files
// are served; stored fileUrl values point below it.
const FilesRoutePrefix = "/music/api/v1/files"

// SongInfo is the metadata part of a multipart upload.
type SongInfo struct {
	Name   string `json:"name" validate:"required"`
	Artist string `json:"artist" validate:"required"`
	Genre  string `json:"genre" validate:"required"`
}

// SongUpdate carries optional replacement fields; nil means keep.
type SongUpdate struct {
	Name    *string `json:"name"`
	Artist  *string `json:"artist"`
	Genre   *string `json:"genre"`
	FileURL *string `json:"fileUrl"`
}

// SongService owns the song catalog: uploads, metadata CRUD, search,
// pagination and streaming.  Every operation except Play is scoped to the
// authenticated owner.
type SongService struct {
	songs     SongStore
	uploadDir string
	validate  *validator.Validate
}

func NewSongService(songs SongStore, uploadDir string) *SongService {
	return &SongService{songs: songs, uploadDir: uploadDir, validate: validator.New()}
}

// CreateFromUpload parses and validates the metadata JSON, stores the file
// under a fresh name and inserts the song.
func (s *SongService) CreateFromUpload(ctx context.Context, ownerID, infoJSON, filename string, file io.Reader) (SongView, error) {
	var info SongInfo
	if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
		return SongView{}, apperr.ErrInvalidRequest
	}
	if err := s.validate.Struct(info); err != nil {
		return SongView{}, apperr.ErrInvalidRequest
	}
	fileURL, err := s.StoreFile(filename, file)
	if err != nil {
		return SongView{}, err
	}
	song := model.Song{
		ID:         uuid.NewString(),
		Name:       info.Name,
		Artist:     info.Artist,
		Genre:      info.Genre,
		FileURL:    fileURL,
		UploadedBy: ownerID,
	}
	if err := s.songs.Insert(ctx, song); err != nil {
		return SongView{}, err
	}
	return songViewOf(song), nil
}

// StoreFile writes an uploaded .mp3/.mp4 into the upload directory under a
// random name and returns the public URL it will be served from.
func (s *SongService) StoreFile(filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "mp3" && ext != "mp4" {
		return "", apperr.ErrInvalidFile
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	stored := uuid.NewString() + "." + ext
	dest, err := os.Create(filepath.Join(s.uploadDir, stored))
	if err != nil {
		return "", err
	}
	defer dest.Close()
	if _, err := io.Copy(dest, file); err != nil {
		return "", err
	}
	return FilesRoutePrefix + "/" + stored, nil
}

// Update applies the non-nil fields of upd to an owned song.
func (s *SongService) Update(ctx context.Context, ownerID, id string, upd SongUpdate) (SongView, error) {
	song, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return SongView{}, err
	}
	if upd.Name != nil {
		song.Name = *upd.Name
	}
	if upd.Artist != nil {
		song.Artist = *upd.Artist
	}
	if upd.Genre != nil {
		song.Genre = *upd.Genre
	}
	if upd.FileURL != nil {
		song.FileURL = *upd.FileURL
	}
	if err := s.songs.Update(ctx, song); err != nil {
		return SongView{}, err
	}
	return songViewOf(song), nil
}

// Delete removes an owned song.  The stored file is left behind; uploads
// are content-addressed by random name and harmless to keep.
func (s *SongService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.songs.Delete(ctx, id)
}

// GetByID returns an owned song.
func (s *SongService) GetByID(ctx context.Context, ownerID, id string) (SongView, error) {
	song, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return SongView{}, err
	}
	return songViewOf(song), nil
}

// Search lists the owner's songs matching the keyword; a blank keyword
// lists everything they uploaded.
func (s *SongService) Search(ctx context.Context, ownerID, keyword string) ([]SongView, error) {
	var (
		songs []model.Song
		err   error
	)
	if strings.TrimSpace(keyword) == "" {
		songs, err = s.songs.ListByOwner(ctx, ownerID)
	} else {
		songs, err = s.songs.SearchByName(ctx, ownerID, strings.TrimSpace(keyword))
	}
	if err != nil {
		return nil, err
	}
	views := make([]SongView, 0, len(songs))
	for _, song := range songs {
		views = append(views, songViewOf(song))
	}
	return views, nil
}

// GetPaged returns one zero-based page of the owner's songs, newest first.
func (s *SongService) GetPaged(ctx context.Context, ownerID string, page, size int) (PagedSongs, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	songs, total, err := s.songs.PageByOwner(ctx, ownerID, page, size)
	if err != nil {
		return PagedSongs{}, err
	}
	views := make([]SongView, 0, len(songs))
	for _, song := range songs {
		views = append(views, songViewOf(song))
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	return PagedSongs{
		Content:       views,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
		HasNext:       page < totalPages-1,
		HasPrevious:   page > 0,
	}, nil
}

// PlayPath resolves a song to the on-disk file and its media type.  Any
// authenticated user may stream any song by id.
func (s *SongService) PlayPath(ctx context.Context, id string) (string, string, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", apperr.ErrSongNotFound
		}
		return "", "", err
	}
	filename := song.FileURL[strings.LastIndex(song.FileURL, "/")+1:]
	path := filepath.Join(s.uploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", "", apperr.ErrSongNotFound
	}
	mediaType := "video/mp4"
	if strings.HasSuffix(song.FileURL, "mp3") {
		mediaType = "audio/mpeg"
	}
	return path, mediaType, nil
}

func (s *SongService) getOwned(ctx context.Context, ownerID, id string) (model.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Song{}, apperr.ErrSongNotFound
		}
		return model.Song{}, err
	}
	if song.UploadedBy != ownerID {
		return model.Song{}, apperr.ErrAccessDenied
	}
	return song, nil
}
