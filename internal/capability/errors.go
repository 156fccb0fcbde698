package capability

import "errors"

// ErrNoDelegate is returned by Derive when the parent capability lacks
// the Delegate permission.
var ErrNoDelegate = errors.New("capability: parent lacks delegate permission")

// ErrRevoked is returned by Derive when the parent capability is revoked
// or stale (a prior generation).
var ErrRevoked = errors.New("capability: parent is revoked")

// ErrTableFull is returned by Derive when the table already holds its
// configured capacity of live entries. MintRoot reports the same
// condition by returning the zero Capability.
var ErrTableFull = errors.New("capability: table is full")
