package testsupport

import (
	"path/filepath"
	"time"

	"promptalbum/internal/album"
)

// PhotoOption customizes a record built by Photo.
type PhotoOption func(*album.PhotoRecord)

// Photo builds an in-memory PhotoRecord for path. The filename and folder
// name are derived from path; dates default to absent.
func Photo(path string, opts ...PhotoOption) album.PhotoRecord {
	rec := album.PhotoRecord{
		Path:       path,
		Filename:   filepath.Base(path),
		FolderName: filepath.Base(filepath.Dir(path)),
		SizeBytes:  1024,
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// TakenAt sets the EXIF capture date.
func TakenAt(ts time.Time) PhotoOption {
	return func(r *album.PhotoRecord) { r.ExifDate = ts }
}

// ModifiedAt sets the file modification time.
func ModifiedAt(ts time.Time) PhotoOption {
	return func(r *album.PhotoRecord) { r.FileModified = ts }
}

// Size sets the byte size.
func Size(n int64) PhotoOption {
	return func(r *album.PhotoRecord) { r.SizeBytes = n }
}

// Day is a UTC-midnight date shorthand for tests.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
