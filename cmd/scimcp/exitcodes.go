package main

// Exit codes shared by every command.
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (bad arguments, unknown operation, runtime failure)
	ExitConfigError  = 2 // Configuration error (unreadable file, invalid value)
	ExitInvalidInput = 3 // Operation arguments rejected by validation
	ExitUpstream     = 4 // Crossref or ChEMBL failure (not found, rate limit, network, bad response)
)
