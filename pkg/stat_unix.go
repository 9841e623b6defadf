//go:build !windows

package dupehash

import (
	"os"
	"syscall"
)

// fileID identifies a directory by device and inode so followed symlinks
// cannot walk the same directory twice.
type fileID struct {
	dev uint64
	ino uint64
}

func fileIDOf(info os.FileInfo) (fileID, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, false
	}
	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
