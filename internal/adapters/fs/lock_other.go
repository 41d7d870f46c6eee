//go:build !unix

package fs

import "os"

// Without advisory locks only the in-process registry guards the sink.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) {}
