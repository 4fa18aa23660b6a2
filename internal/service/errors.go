package service

import "errors"

// Expected conditions reported to the boundary. These are results, not
// failures: the transport maps them to negative responses, never to 5xx.
var (
	// ErrNotFound means the simulation id resolves to no record.
	ErrNotFound = errors.New("simulation not found")
	// ErrNotActive means the simulation exists but is not in-progress.
	ErrNotActive = errors.New("simulation not active")
	// ErrTransferBlocked means the routing policy rejected the transfer.
	ErrTransferBlocked = errors.New("transfer blocked by policy")
)
