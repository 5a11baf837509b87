package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
)

// hookFileExtension is the only supported hook script extension.
const hookFileExtension = ".tengo"

// hooksDirName is the directory inside an extracted package tree that
// carries hook scripts.
const hooksDirName = "hooks"

// LoadFromPackageDir loads the hook scripts shipped inside an extracted
// package tree at <packageDir>/hooks/<hook-type>.tengo. Packages without a
// hooks directory are common; that case is not an error.
func LoadFromPackageDir(manager HookManager, packageDir string) error {
	hooksDir := filepath.Join(packageDir, hooksDirName)
	if _, err := os.Stat(hooksDir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "error loading hooks from %s", hooksDir)
	}
	return loadHooksFromDir(manager, hooksDir)
}

// loadHooksFromDir loads all hook files from a directory.
func loadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != hookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), ext))
		switch hookType {
		case PreUpgrade, PostUpgrade:
		default:
			// Unknown hook names are ignored so newer packages keep working
			// with older clients.
			continue
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(err, "error reading hook file %s", hookPath)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}
