package main

import "fmt"

// Exit codes used across all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid values)
	ExitDataError   = 3 // Data error (bad reference id, malformed batch file)
	ExitFetchFailed = 4 // Every fetch tier failed for the reference
	ExitInvalid     = 5 // Snippet validation returned INVALID
)

// exitStatus signals a non-zero exit code from a command. Returning it
// from RunE instead of calling os.Exit lets deferred cleanup (closing
// the cache) run first; main maps it to the process exit code.
type exitStatus int

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}
