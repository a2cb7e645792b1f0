package recordstore

import "errors"

// ErrPersistence marks a failed read or write against the backing storage.
// A mutation that returns it must not be treated as committed.
var ErrPersistence = errors.New("persistence failure")
