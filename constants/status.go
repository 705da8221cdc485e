package constants

// RunStatus is the canonical status for rows in batch_runs.
type RunStatus string

// Stable values (store these exact strings in the journal).
const (
	RunStatusRunning RunStatus = "RUNNING" // in progress
	RunStatusOK      RunStatus = "OK"      // batch completed, output written
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure, no output
)
