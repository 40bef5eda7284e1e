// ABOUTME: Engine error definitions
// ABOUTME: Sentinel errors surfaced to the control context only
package engine

import "errors"

// ErrInvalidState reports an operation on a freed handle.
var ErrInvalidState = errors.New("engine: handle already freed")

// ErrUnknownParam reports a parameter name outside the graph's fixed set.
var ErrUnknownParam = errors.New("engine: unknown parameter")
