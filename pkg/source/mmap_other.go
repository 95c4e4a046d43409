//go:build !unix

package source

// Without mmap the file is read into memory.
func openMmap(path string) (*Source, error) {
	return Load(path, 1)
}
