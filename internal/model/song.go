package model

import "time"

// Song mirrors the 'songs' table.  FileURL points at the public static
// route serving the uploaded file; UploadedBy scopes every song to the
// user who created it.
type Song struct {
	ID         string
	Name       string
	Artist     string
	Genre      string
	FileURL    string
	UploadedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
