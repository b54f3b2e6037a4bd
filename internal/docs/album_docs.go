package docs

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"promptalbum/internal/album"
)

const (
	ReadmeName  = "README.md"
	SummaryName = "summary.json"
	dateLayout  = "2006-01-02"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var readmeTemplate = template.Must(template.New("readme.md.tmpl").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(templateFS, "templates/readme.md.tmpl"))

// Summary is the summary.json document written into each album folder.
type Summary struct {
	AlbumName      string         `json:"album_name"`
	FolderLabel    string         `json:"folder_label"`
	TotalPhotos    int            `json:"total_photos"`
	TotalBytes     int64          `json:"total_bytes"`
	EarliestDate   string         `json:"earliest_date"`
	LatestDate     string         `json:"latest_date"`
	KeywordsUsed   []string       `json:"keywords_used"`
	OriginalPrompt string         `json:"original_prompt"`
	CreatedAt      string         `json:"created_at"`
	Photos         []SummaryPhoto `json:"photos"`
}

// SummaryPhoto is one entry of Summary.Photos.
type SummaryPhoto struct {
	Filename  string `json:"filename"`
	DateTaken string `json:"date_taken"`
	SizeBytes int64  `json:"size_bytes"`
	Camera    string `json:"camera,omitempty"`
}

type readmePhoto struct {
	Filename string
	Date     string
}

type readmeData struct {
	Name     string
	Count    int
	Size     string
	Earliest string
	Latest   string
	Keywords []string
	Filter   string
	Prompt   string
	Photos   []readmePhoto
}

// BuildSummary assembles the summary document for an album.
func BuildSummary(a album.ResolvedAlbum, prompt string, createdAt time.Time) Summary {
	earliest, latest := a.DateSpan()
	photos := make([]SummaryPhoto, 0, len(a.Photos))
	for _, p := range a.Photos {
		photos = append(photos, SummaryPhoto{
			Filename:  p.Filename,
			DateTaken: photoDate(p),
			SizeBytes: p.SizeBytes,
			Camera:    p.Camera,
		})
	}
	keywords := a.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return Summary{
		AlbumName:      a.SpecName,
		FolderLabel:    a.FolderLabel,
		TotalPhotos:    len(a.Photos),
		TotalBytes:     a.TotalBytes(),
		EarliestDate:   formatDate(earliest),
		LatestDate:     formatDate(latest),
		KeywordsUsed:   keywords,
		OriginalPrompt: prompt,
		CreatedAt:      createdAt.UTC().Format(time.RFC3339),
		Photos:         photos,
	}
}

// WriteAlbum writes README.md and summary.json into dir. Photo filenames are
// listed as given, so callers pass the placed names when conflicts renamed
// any file.
func WriteAlbum(dir string, a album.ResolvedAlbum, filter, prompt string, createdAt time.Time) error {
	readme, err := RenderReadme(a, filter, prompt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ReadmeName), readme, 0o644); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}

	data, err := json.MarshalIndent(BuildSummary(a, prompt, createdAt), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, SummaryName), data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// RenderReadme renders the album README without writing it.
func RenderReadme(a album.ResolvedAlbum, filter, prompt string) ([]byte, error) {
	earliest, latest := a.DateSpan()
	data := readmeData{
		Name:     a.SpecName,
		Count:    len(a.Photos),
		Size:     humanize.Bytes(uint64(a.TotalBytes())),
		Earliest: formatDate(earliest),
		Latest:   formatDate(latest),
		Keywords: a.Keywords,
		Filter:   filter,
		Prompt:   strings.TrimSpace(prompt),
	}
	for _, p := range a.Photos {
		data.Photos = append(data.Photos, readmePhoto{Filename: p.Filename, Date: photoDate(p)})
	}
	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render readme: %w", err)
	}
	return buf.Bytes(), nil
}

func photoDate(p album.PhotoRecord) string {
	d, ok := p.EffectiveDate()
	if !ok {
		return "unknown"
	}
	return d.Format(dateLayout)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format(dateLayout)
}
