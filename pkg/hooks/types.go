package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types. Scripts are looked up in the extracted package tree
// by these names.
const (
	PreUpgrade  HookType = "pre-upgrade"
	PostUpgrade HookType = "post-upgrade"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hook scripts.
type HookContext struct {
	CurrentVersion string
	TargetVersion  string
	InstallDir     string
	PackageDir     string
	Vars           map[string]interface{}
}
