package source

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest span worth handing to its own reader.
const minChunk = 4 << 20

// Load reads the whole file at path into memory. With parallelism > 1 the
// file is split into contiguous chunks read concurrently with ReadAt.
func Load(path string, parallelism int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, unavailable(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, unavailable(path, fmt.Errorf("not a regular file"))
	}

	size := info.Size()
	buf := make([]byte, size)
	if err := readChunks(f, buf, chunkCount(size, parallelism)); err != nil {
		return nil, unavailable(path, err)
	}

	return &Source{name: path, mode: ModeBuffered, data: buf}, nil
}

func chunkCount(size int64, parallelism int) int {
	if parallelism < 1 {
		parallelism = 1
	}
	if max := int(size / minChunk); max < parallelism {
		parallelism = max
	}
	if parallelism < 1 {
		return 1
	}
	return parallelism
}

// readChunks fills buf from r using n concurrent readers. The last chunk
// takes the remainder.
func readChunks(r io.ReaderAt, buf []byte, n int) error {
	size := int64(len(buf))
	if size == 0 {
		return nil
	}
	chunk := size / int64(n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		start := int64(i) * chunk
		end := start + chunk
		if i == n-1 {
			end = size
		}
		g.Go(func() error {
			n, err := r.ReadAt(buf[start:end], start)
			if int64(n) == end-start {
				return nil
			}
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("read bytes %d-%d: %w", start, end, err)
		})
	}
	return g.Wait()
}
