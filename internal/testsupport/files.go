package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Touch sets both access and modification time of path.
func Touch(t testing.TB, path string, ts time.Time) {
	t.Helper()
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// WriteJPEG writes a small solid-colour JPEG. When taken is non-zero an EXIF
// block carrying DateTimeOriginal and the camera model is embedded.
func WriteJPEG(t testing.TB, path string, taken time.Time, camera string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	data := buf.Bytes()
	if !taken.IsZero() {
		app1 := exifSegment(taken, camera)
		data = append(append(append([]byte{}, data[:2]...), app1...), data[2:]...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// exifSegment builds a big-endian APP1 segment with IFD0 {Model, ExifIFD}
// and an Exif IFD holding DateTimeOriginal.
func exifSegment(taken time.Time, camera string) []byte {
	if camera == "" {
		camera = "TestCam"
	}
	model := append([]byte(camera), 0)
	for len(model) < 5 || len(model)%2 != 0 {
		model = append(model, 0)
	}
	stamp := append([]byte(taken.Format("2006:01:02 15:04:05")), 0)

	const ifd0Offset = 8
	ifd0Size := 2 + 2*12 + 4
	modelOffset := ifd0Offset + ifd0Size
	exifOffset := modelOffset + len(model)
	exifSize := 2 + 12 + 4
	stampOffset := exifOffset + exifSize

	be := binary.BigEndian
	var tiff bytes.Buffer
	tiff.WriteString("MM")
	_ = binary.Write(&tiff, be, uint16(42))
	_ = binary.Write(&tiff, be, uint32(ifd0Offset))

	_ = binary.Write(&tiff, be, uint16(2))
	writeEntry(&tiff, 0x0110, 2, uint32(len(model)), uint32(modelOffset))
	writeEntry(&tiff, 0x8769, 4, 1, uint32(exifOffset))
	_ = binary.Write(&tiff, be, uint32(0))
	tiff.Write(model)

	_ = binary.Write(&tiff, be, uint16(1))
	writeEntry(&tiff, 0x9003, 2, uint32(len(stamp)), uint32(stampOffset))
	_ = binary.Write(&tiff, be, uint32(0))
	tiff.Write(stamp)

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	be.PutUint16(segment[2:], uint16(len(payload)+2))
	return append(segment, payload...)
}

func writeEntry(buf *bytes.Buffer, tag, typ uint16, count, value uint32) {
	be := binary.BigEndian
	_ = binary.Write(buf, be, tag)
	_ = binary.Write(buf, be, typ)
	_ = binary.Write(buf, be, count)
	_ = binary.Write(buf, be, value)
}
