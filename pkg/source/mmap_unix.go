//go:build unix

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func openMmap(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, unavailable(path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, unavailable(path, fmt.Errorf("not a regular file"))
	}

	size := info.Size()
	if size == 0 {
		// mmap rejects zero-length mappings.
		return &Source{name: path, mode: ModeMmap, data: []byte{}, file: f}, nil
	}
	if size != int64(int(size)) {
		f.Close()
		return nil, unavailable(path, fmt.Errorf("file too large to map: %d bytes", size))
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, unavailable(path, fmt.Errorf("mmap: %w", err))
	}
	// Sequential scan; the hint is advisory.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &Source{name: path, mode: ModeMmap, data: data, file: f, unmap: unix.Munmap}, nil
}
