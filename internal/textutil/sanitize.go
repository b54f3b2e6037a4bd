package textutil

import (
	"path/filepath"
	"strconv"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace
// and never names the current or parent directory.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	out := strings.TrimSpace(fileNameReplacer.Replace(name))
	if strings.Trim(out, ".") == "" {
		return ""
	}
	return out
}

// SplitName separates a file name into its stem and extension. Dot files
// such as ".hidden" have no extension.
func SplitName(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// NumberedName returns the n-th conflict variant of name: "IMG.jpg" becomes
// "IMG_1.jpg", "IMG_2.jpg", and so on. n <= 0 returns name unchanged.
func NumberedName(name string, n int) string {
	if n <= 0 {
		return name
	}
	stem, ext := SplitName(name)
	return stem + "_" + strconv.Itoa(n) + ext
}
