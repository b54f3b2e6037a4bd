package matcher

import (
	"testing"
	"time"

	"promptalbum/internal/album"
)

func mustMonth(t *testing.T, year int, month time.Month) *album.DateFilter {
	t.Helper()
	filter, err := album.MonthFilter(year, month)
	if err != nil {
		t.Fatalf("MonthFilter: %v", err)
	}
	return &filter
}

func photo(filename, folder string) album.PhotoRecord {
	return album.PhotoRecord{
		Path:         "/src/" + folder + "/" + filename,
		Filename:     filename,
		FolderName:   folder,
		FileModified: time.Date(2019, time.June, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestFilenameSubstringIgnoresCase(t *testing.T) {
	spec := album.AlbumSpec{Name: "NCC events", Keywords: []string{"ncc", "events"}}
	pred := Compile(spec)

	for _, name := range []string{"NCC_parade.jpg", "ncc.jpg", "my-nCc-day.JPG", "Events2024.png"} {
		if !pred.MatchesFilename(name) {
			t.Errorf("expected %q to match", name)
		}
	}
	if pred.MatchesFilename("family.jpg") {
		t.Error("unexpected match for family.jpg")
	}
}

func TestFolderCheck(t *testing.T) {
	spec := album.AlbumSpec{Name: "college fests", Keywords: []string{"college", "fests"}}
	if !Evaluates(photo("IMG_0001.jpg", "College_Fests"), spec) {
		t.Fatal("expected folder name to match")
	}
	if Evaluates(photo("IMG_0001.jpg", "Misc"), spec) {
		t.Fatal("expected no match without filename, folder or date signal")
	}
}

func TestWildcardKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		filename string
		want     bool
	}{
		{"*fest*", "techfest01.jpg", true},
		{"*fest*", "festival.jpg", true},
		{"*fest*", "FESTIVAL.JPG", true},
		{"*fest*", "family.jpg", false},
		{"*fest*", "manifesto.jpg", true},
		{"*fest", "techfest01.jpg", true},
		{"ncc*parade", "NCC_parade_2024.jpg", true},
		{"ncc*parade", "old_ncc_parade.jpg", false},
		{"img*", "IMG_2001.jpg", true},
		{"img*", "holiday_img.jpg", false},
		{"img*", "my_img_01.jpg", false},
		{"*.png", "scan.PNG", true},
		{"*.png", "scan.png.jpg", true},
		{"*.png", "scan.jpg", false},
		{"dsc*01.jpg", "DSC_7701.jpg", true},
		{"dsc*01.jpg", "DSC_7702.jpg", false},
		{"a+b*", "a+b.jpg", true},
		{"a+b*", "aab.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.keyword+"/"+tt.filename, func(t *testing.T) {
			pred := Compile(album.AlbumSpec{Keywords: []string{tt.keyword}})
			if got := pred.MatchesFilename(tt.filename); got != tt.want {
				t.Fatalf("MatchesFilename(%q) with %q = %v, want %v", tt.filename, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestPrefixWildcardFallsBackToOtherKeywords(t *testing.T) {
	spec := album.AlbumSpec{Keywords: []string{"img*", "holiday"}}
	if !Evaluates(photo("holiday_img.jpg", "Misc"), spec) {
		t.Fatal("expected second keyword to match even when the prefix glob does not")
	}
}

func TestDateCheckAlone(t *testing.T) {
	spec := album.AlbumSpec{
		Name:       "college fests",
		Keywords:   []string{"college", "fests"},
		DateFilter: mustMonth(t, 2024, time.March),
	}
	p := photo("IMG_1234.jpg", "Camera")
	p.ExifDate = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	pred := Compile(spec)
	if pred.MatchesFilename(p.Filename) || pred.MatchesFolder(p.FolderName) {
		t.Fatal("keywords should not match this photo")
	}
	if !pred.Matches(p) {
		t.Fatal("expected match through date check alone")
	}
}

func TestDateCheckUsesEffectiveDate(t *testing.T) {
	spec := album.AlbumSpec{Keywords: []string{"zzz"}, DateFilter: mustMonth(t, 2024, time.March)}
	pred := Compile(spec)

	inside := time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)
	outside := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	exifOutside := album.PhotoRecord{Filename: "a.jpg", ExifDate: outside, FileModified: inside}
	if pred.Matches(exifOutside) {
		t.Fatal("EXIF date must take precedence over modification time")
	}
	modifiedInside := album.PhotoRecord{Filename: "a.jpg", FileModified: inside, FileCreated: outside}
	if !pred.Matches(modifiedInside) {
		t.Fatal("modification time must be used when EXIF date is missing")
	}
	createdInside := album.PhotoRecord{Filename: "a.jpg", FileCreated: inside}
	if !pred.Matches(createdInside) {
		t.Fatal("creation time must be used as last resort")
	}
}

func TestNoDateFilterNeverMatchesOnDate(t *testing.T) {
	spec := album.AlbumSpec{Keywords: []string{"zzz"}}
	p := photo("a.jpg", "b")
	if Compile(spec).MatchesDate(p) {
		t.Fatal("spec without date filter must not match on date")
	}
}

func TestEmptyKeywordsIgnored(t *testing.T) {
	pred := Compile(album.AlbumSpec{Keywords: []string{"", "  "}})
	if pred.MatchesFilename("anything.jpg") {
		t.Fatal("blank keywords must not match everything")
	}
}
