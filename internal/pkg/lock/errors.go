package lock

import "errors"

// ErrLockTimeout is returned when a player lock cannot be acquired within
// the timeout period.
var ErrLockTimeout = errors.New("lock acquisition timeout")
