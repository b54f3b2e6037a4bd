package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"
)

// CopyFile streams src to dst using io.Copy, carrying over the source permissions.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return CopyFileMode(src, dst, info.Mode().Perm())
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
// It refuses to overwrite an existing dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	if err := CopyFile(src, dst); err != nil {
		return err
	}

	srcSum, srcSize, err := checksum(src)
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("hash source: %w", err)
	}
	dstSum, dstSize, err := checksum(dst)
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("hash copy: %w", err)
	}
	if srcSize != dstSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, dstSize)
	}
	if !bytes.Equal(srcSum, dstSum) {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func checksum(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}

// MoveFile renames src to dst. When the rename crosses filesystems it falls
// back to a verified copy followed by removal of src.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: os.ErrExist}
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return err
	}
	if err := PreserveTimes(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// PreserveTimes copies the modification time of src onto dst. Access time
// is set to the same value.
func PreserveTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	mtime := info.ModTime()
	if mtime.IsZero() {
		mtime = time.Now()
	}
	return os.Chtimes(dst, mtime, mtime)
}
