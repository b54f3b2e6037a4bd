package scanner

import (
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"promptalbum/internal/album"
)

// Metadata is the subset of EXIF the matcher and docs care about.
type Metadata struct {
	Taken    time.Time
	Camera   string
	Location *album.GeoPoint
}

// ReadEXIF decodes EXIF from path. Taken prefers DateTimeOriginal and falls
// back to DateTime; missing GPS or camera tags leave those fields empty.
func ReadEXIF(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	if taken, err := x.DateTime(); err == nil {
		meta.Taken = taken
	}
	if lat, long, err := x.LatLong(); err == nil {
		meta.Location = &album.GeoPoint{Latitude: lat, Longitude: long}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			meta.Camera = strings.TrimSpace(strings.TrimRight(model, "\x00"))
		}
	}
	return meta, nil
}
