//go:build linux

package dupehash

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the whole file is about to be read once
func adviseSequential(file *os.File) {
	if err := unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil && IsDebugEnabled(DebugHash) {
		VerboseLog(3, "fadvise %s: %v", file.Name(), err)
	}
}
