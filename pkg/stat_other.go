//go:build windows

package dupehash

import "os"

type fileID struct {
	dev uint64
	ino uint64
}

// fileIDOf has no stable identity to offer on windows; cycle detection falls
// back to resolved path tracking.
func fileIDOf(os.FileInfo) (fileID, bool) {
	return fileID{}, false
}
