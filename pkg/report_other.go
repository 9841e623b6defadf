//go:build !linux

package dupehash

import "io"

func writeSegments(w io.Writer, segments [][]byte) error {
	return writeSegmentsSequential(w, segments)
}
