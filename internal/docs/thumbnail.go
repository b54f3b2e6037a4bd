package docs

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// WriteThumbnail scales src to fit within size x size, keeping the aspect
// ratio, and writes it to dst as JPEG. Images already smaller are only
// re-encoded.
func WriteThumbnail(src, dst string, size int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	width, height := fitWithin(img.Bounds().Dx(), img.Bounds().Dy(), size)
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Close()
}

func fitWithin(width, height, size int) (int, int) {
	if width <= size && height <= size {
		return max(width, 1), max(height, 1)
	}
	if width >= height {
		return size, max(height*size/width, 1)
	}
	return max(width*size/height, 1), size
}
