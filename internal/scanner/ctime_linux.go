//go:build linux

package scanner

import (
	"os"
	"syscall"
	"time"
)

// changeTime returns the inode change time, which Linux reports in place of
// a creation time.
func changeTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
}
