package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// ErrSinkBusy is returned when the destination already has a writer.
var ErrSinkBusy = errors.New("fs: sink already has a writer")

// held tracks paths open for writing in this process. flock alone does not
// cover platforms without advisory locks.
var held = struct {
	sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

func acquire(path string) bool {
	held.Lock()
	defer held.Unlock()
	if _, ok := held.paths[path]; ok {
		return false
	}
	held.paths[path] = struct{}{}
	return true
}

func release(path string) {
	held.Lock()
	delete(held.paths, path)
	held.Unlock()
}

// ExclusiveFileOpener implements ports.SinkOpener with regular files.
// Open creates or truncates the file and holds an exclusive lock on it until
// the returned writer is closed.
type ExclusiveFileOpener struct {
	Perm os.FileMode
}

// NewExclusiveFileOpener returns an opener creating files with mode 0644.
func NewExclusiveFileOpener() *ExclusiveFileOpener {
	return &ExclusiveFileOpener{Perm: 0o644}
}

// Open opens path for exclusive writing.
func (o *ExclusiveFileOpener) Open(path string) (io.WriteCloser, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !acquire(abs) {
		return nil, ErrSinkBusy
	}

	perm := o.Perm
	if perm == 0 {
		perm = 0o644
	}

	// Truncate only after the lock is held so a losing opener cannot clobber
	// another writer's data.
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE, perm)
	if err != nil {
		release(abs)
		return nil, err
	}
	if err := lockFile(f); err != nil {
		f.Close()
		release(abs)
		return nil, err
	}
	if err := f.Truncate(0); err != nil {
		unlockFile(f)
		f.Close()
		release(abs)
		return nil, err
	}

	return &exclusiveFile{f: f, path: abs}, nil
}

type exclusiveFile struct {
	f    *os.File
	path string

	once sync.Once
	err  error
}

func (e *exclusiveFile) Write(p []byte) (int, error) {
	return e.f.Write(p)
}

// Close syncs, unlocks and closes the file. Safe to call more than once.
func (e *exclusiveFile) Close() error {
	e.once.Do(func() {
		syncErr := e.f.Sync()
		if errors.Is(syncErr, syscall.EINVAL) {
			// character devices such as /dev/null
			syncErr = nil
		}
		unlockFile(e.f)
		closeErr := e.f.Close()
		release(e.path)
		e.err = errors.Join(syncErr, closeErr)
	})
	return e.err
}
