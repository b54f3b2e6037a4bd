package docs

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"promptalbum/internal/album"
	"promptalbum/internal/logging"
)

const (
	IndexName = "index.html"
	ThumbDir  = ".thumbs"
)

var indexTemplate = htmltemplate.Must(htmltemplate.New("index.html.tmpl").
	Funcs(htmltemplate.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/index.html.tmpl"))

// GalleryEntry is one placed album offered to the gallery.
type GalleryEntry struct {
	Album album.ResolvedAlbum
	// Dir is the album folder under the gallery root.
	Dir string
	// Cover is the placed file used for the thumbnail; empty for none.
	Cover string
}

type galleryCard struct {
	Title    string
	Folder   string
	Thumb    string
	Count    int
	Size     string
	Earliest string
	Latest   string
	Keywords []string
}

type galleryData struct {
	Cards     []galleryCard
	Total     int
	Generated string
}

// Gallery renders index.html at a target root.
type Gallery struct {
	root      string
	thumbSize int
	logger    *slog.Logger
	title     cases.Caser
}

// NewGallery constructs a Gallery writing under root.
func NewGallery(root string, thumbSize int, logger *slog.Logger) *Gallery {
	if thumbSize <= 0 {
		thumbSize = 200
	}
	return &Gallery{
		root:      root,
		thumbSize: thumbSize,
		logger:    logging.NewComponentLogger(logger, "gallery"),
		title:     cases.Title(language.Und),
	}
}

// Write creates thumbnails for each entry and writes index.html. Thumbnail
// failures degrade the card to "No Preview" and are logged.
func (g *Gallery) Write(entries []GalleryEntry, generated time.Time) (string, error) {
	data := galleryData{Generated: generated.Format("2006-01-02 15:04")}
	for _, entry := range entries {
		folder := filepath.Base(entry.Dir)
		earliest, latest := entry.Album.DateSpan()
		card := galleryCard{
			Title:    g.title.String(entry.Album.SpecName),
			Folder:   folder,
			Count:    len(entry.Album.Photos),
			Size:     humanize.Bytes(uint64(entry.Album.TotalBytes())),
			Earliest: formatDate(earliest),
			Latest:   formatDate(latest),
			Keywords: entry.Album.Keywords,
		}
		if entry.Cover != "" {
			thumbPath := filepath.Join(g.root, ThumbDir, folder+".jpg")
			if err := WriteThumbnail(entry.Cover, thumbPath, g.thumbSize); err != nil {
				logging.WarnWithContext(g.logger, "thumbnail skipped", "thumbnail_failed",
					logging.String("source", entry.Cover),
					logging.Error(err),
					logging.String(logging.FieldImpact, "gallery card shows no preview"),
				)
			} else {
				card.Thumb = path.Join(ThumbDir, folder+".jpg")
			}
		}
		data.Total += card.Count
		data.Cards = append(data.Cards, card)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render gallery: %w", err)
	}
	indexPath := filepath.Join(g.root, IndexName)
	if err := os.WriteFile(indexPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write gallery: %w", err)
	}
	g.logger.Info("gallery written", logging.String("path", indexPath), logging.Int("albums", len(data.Cards)))
	return indexPath, nil
}
