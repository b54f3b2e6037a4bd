// Package scanner walks a photo tree and produces the PhotoRecord batch the
// matcher consumes.
//
// Files are selected by extension (case-insensitive). Hidden directories and
// any excluded roots, typically the album target when it lives under the
// source, are skipped. Metadata extraction runs on a bounded worker pool;
// EXIF failures are logged and fall back to file timestamps. The returned
// slice is sorted by path so every run over the same tree yields the same
// order.
package scanner
