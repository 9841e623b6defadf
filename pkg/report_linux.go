//go:build linux

package dupehash

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/google/vectorio"
)

// fallbackIOVMax is the Linux IOV_MAX; chunks never exceed it
const fallbackIOVMax = 1024

// writeSegments writes all segments to a file with writev, chunked by
// IOV_MAX. Other writers get sequential writes.
func writeSegments(w io.Writer, segments [][]byte) error {
	file, ok := w.(*os.File)
	if !ok {
		return writeSegmentsSequential(w, segments)
	}

	nonEmpty := make([][]byte, 0, len(segments))
	for _, seg := range segments {
		if len(seg) > 0 {
			nonEmpty = append(nonEmpty, seg)
		}
	}

	for offset := 0; offset < len(nonEmpty); offset += fallbackIOVMax {
		end := offset + fallbackIOVMax
		if end > len(nonEmpty) {
			end = len(nonEmpty)
		}
		chunk := nonEmpty[offset:end]

		iovecs := make([]syscall.Iovec, len(chunk))
		want := 0
		for i, seg := range chunk {
			iovecs[i].Base = &seg[0]
			iovecs[i].SetLen(len(seg))
			want += len(seg)
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs)
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		if nw < want {
			// Pipes and terminals may accept less than asked; finish the chunk with plain writes
			if err := writeSegmentsSequential(file, remainingAfter(chunk, nw)); err != nil {
				return err
			}
		}
	}
	return nil
}

// remainingAfter drops the first n bytes from segs
func remainingAfter(segs [][]byte, n int) [][]byte {
	for i, seg := range segs {
		if n < len(seg) {
			rest := make([][]byte, 0, len(segs)-i)
			rest = append(rest, seg[n:])
			return append(rest, segs[i+1:]...)
		}
		n -= len(seg)
	}
	return nil
}
