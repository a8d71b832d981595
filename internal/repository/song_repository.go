package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/music-manager/internal/model"
)

type SongRepo struct{ DB *sql.DB }

func NewSongRepo(db *sql.DB) *SongRepo { return &SongRepo{DB: db} }

const songColumns = "id,name,artist,genre,file_url,uploaded_by,created_at,updated_at"

// Insert stores a new song row.
func (r *SongRepo) Insert(ctx context.Context, s model.Song) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO songs (id, name, artist, genre, file_url, uploaded_by) VALUES (?,?,?,?,?,?)",
		s.ID, s.Name, s.Artist, s.Genre, s.FileURL, s.UploadedBy)
	return err
}

// GetByID fetches a song regardless of owner; ownership is enforced by the
// service layer so missing and foreign songs can report different errors.
func (r *SongRepo) GetByID(ctx context.Context, id string) (model.Song, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return scanSong(r.DB.QueryRowContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE id=? LIMIT 1", id))
}

// Update rewrites the mutable fields of a song.
func (r *SongRepo) Update(ctx context.Context, s model.Song) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE songs SET name=?, artist=?, genre=?, file_url=?, updated_at=NOW() WHERE id=?",
		s.Name, s.Artist, s.Genre, s.FileURL, s.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a song row.
func (r *SongRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.DB.ExecContext(ctx, "DELETE FROM songs WHERE id=?", id)
	return err
}

// ListByOwner returns every song uploaded by the user, newest first.
func (r *SongRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Song, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE uploaded_by=? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

// SearchByName returns the owner's songs whose name contains the keyword,
// case-insensitively.
func (r *SongRepo) SearchByName(ctx context.Context, ownerID, keyword string) ([]model.Song, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE uploaded_by=? AND LOWER(name) LIKE LOWER(?) ORDER BY created_at DESC",
		ownerID, "%"+keyword+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

// PageByOwner returns one zero-based page of the owner's songs, newest
// first, along with the total row count for pagination metadata.
func (r *SongRepo) PageByOwner(ctx context.Context, ownerID string, page, size int) ([]model.Song, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM songs WHERE uploaded_by=?", ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+songColumns+" FROM songs WHERE uploaded_by=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		ownerID, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

func collectSongs(rows *sql.Rows) ([]model.Song, error) {
	out := []model.Song{}
	for rows.Next() {
		var (
			s         model.Song
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Artist, &s.Genre, &s.FileURL, &s.UploadedBy, &s.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			s.UpdatedAt = updatedAt.Time
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSong(row *sql.Row) (model.Song, error) {
	var (
		s         model.Song
		updatedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.Name, &s.Artist, &s.Genre, &s.FileURL, &s.UploadedBy, &s.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return model.Song{}, ErrNotFound
	}
	if err != nil {
		return model.Song{}, err
	}
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.Time
	}
	return s, nil
}
