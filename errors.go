package lrustore

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by New when capacity is not positive.
// Construction fails before any operation is possible; no partial cache
// is ever handed out.
var ErrInvalidCapacity = errors.New("lrustore: capacity must be positive")

// SnapshotError reports a failed snapshot write. The cache itself is
// unaffected; SAVE is best-effort by contract.
type SnapshotError struct {
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("lrustore: snapshot to %q failed: %v", e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }
