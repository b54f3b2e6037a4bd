//go:build !linux

package scanner

import (
	"os"
	"time"
)

func changeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
