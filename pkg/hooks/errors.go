package hooks

import "fmt"

// Hook errors.
var (
	// ErrHookExecution is returned when a hook script fails to run.
	ErrHookExecution = fmt.Errorf("error executing hook")

	// ErrHookScript is returned when a hook script reports an error itself.
	ErrHookScript = fmt.Errorf("hook script error")
)
