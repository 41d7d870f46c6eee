package ports

import "io"

// SinkOpener opens the destination for one receive operation.
// Open must create or truncate the destination and fail if another writer
// already holds it. The returned closer releases that exclusivity.
type SinkOpener interface {
	Open(path string) (io.WriteCloser, error)
}
