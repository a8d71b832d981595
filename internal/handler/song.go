package handler

import (
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/middleware"
	"github.com/iliyamo/music-manager/internal/service"
)

// SongHandler exposes the song catalog endpoints.  Every route sits behind
// JWTAuth, so a principal is always present.
type SongHandler struct {
	Songs *service.SongService
}

func NewSongHandler(s *service.SongService) *SongHandler { return &SongHandler{Songs: s} }

// Upload creates a song from a multipart request: an "info" part carrying
// the metadata JSON and a "file" part carrying the audio.
func (h *SongHandler) Upload(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	info := c.FormValue("info")
	if info == "" {
		return apperr.ErrInvalidRequest
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.ErrInvalidFile
	}
	src, err := fh.Open()
	if err != nil {
		return apperr.ErrInvalidFile
	}
	defer src.Close()

	song, err := h.Songs.CreateFromUpload(c.Request().Context(), p.UserID, info, fh.Filename, src)
	if err != nil {
		return err
	}
	return respond(c, "Song created", song)
}

// Update rewrites the metadata of an owned song.
func (h *SongHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	var req service.SongUpdate
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidRequest
	}
	song, err := h.Songs.Update(c.Request().Context(), p.UserID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return respond(c, "Song updated", song)
}

// Delete removes an owned song.
func (h *SongHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	if err := h.Songs.Delete(c.Request().Context(), p.UserID, c.Param("id")); err != nil {
		return err
	}
	return respond(c, "Song deleted", nil)
}

// Get returns one owned song.
func (h *SongHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	song, err := h.Songs.GetByID(c.Request().Context(), p.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, "", song)
}

// Search lists the caller's songs matching ?keyword=.
func (h *SongHandler) Search(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	songs, err := h.Songs.Search(c.Request().Context(), p.UserID, c.QueryParam("keyword"))
	if err != nil {
		return err
	}
	return respond(c, "", songs)
}

// Page returns one page of the caller's songs (?page=&size=, zero-based,
// default size 10).
func (h *SongHandler) Page(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size < 1 {
		size = 10
	}
	result, err := h.Songs.GetPaged(c.Request().Context(), p.UserID, page, size)
	if err != nil {
		return err
	}
	return respond(c, "", result)
}

// Play streams the song file with its media type.
func (h *SongHandler) Play(c echo.Context) error {
	path, mediaType, err := h.Songs.PlayPath(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return apperr.ErrSongNotFound
	}
	defer f.Close()
	return c.Stream(http.StatusOK, mediaType, f)
}
