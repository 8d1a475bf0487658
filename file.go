package lmdb

import "os"

// openFile opens path read-only for use as a Reader source.
func openFile(path string) (*os.File, error) {
	return os.Open(path)
}

// createFile creates (truncating) path for use as a Writer sink.
func createFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

// openFileReadWrite opens an existing file for both reading and writing,
// without truncating it.
func openFileReadWrite(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0o644)
}
