package fsutil

// File and directory permission constants.
// These follow standard Unix permission conventions and are used consistently
// throughout the application.
const (
	// Default file modes.
	FileModeDefault = 0o644 // -rw-r--r--: regular files
	FileModeExec    = 0o755 // -rwxr-xr-x: executable files

	// Directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x: default for directories
	DirModeSecure  = 0o750 // drwxr-x---: work areas
	DirModePrivate = 0o700 // drwx------: backup roots
)
