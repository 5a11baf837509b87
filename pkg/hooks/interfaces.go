package hooks

// HookManager defines the interface for managing upgrade hooks.
type HookManager interface {
	// Execute runs the script for the given hook type. Hook types without a
	// loaded script are a no-op.
	Execute(hookType HookType, ctx HookContext) error

	// AddHook registers a hook script.
	AddHook(hook Hook) error

	// RemoveHook drops the script for the given hook type.
	RemoveHook(hookType HookType) error

	// HasHook checks whether a script is loaded for the given hook type.
	HasHook(hookType HookType) bool
}
