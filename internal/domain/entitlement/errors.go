package entitlement

import "errors"

// ErrNodeNotFound is returned for nodes that are missing or not yet visible to the viewer.
var ErrNodeNotFound = errors.New("catalog node not found")
