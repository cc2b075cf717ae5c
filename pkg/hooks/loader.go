package hooks

import (
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
)

// hookFileExtension is the supported hook script extension.
const hookFileExtension = ".tengo"

// LoadHooksFromDir loads all recognized hook scripts from dir into manager.
// A missing directory is not an error; hooks are optional.
func LoadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != hookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), hookFileExtension))
		switch hookType {
		case PreInstall, PostInstall:
		default:
			continue // Skip unknown hook types
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return pkgerrors.Wrapf(err, "error reading hook file %s", hookPath)
		}

		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return pkgerrors.Wrapf(err, "error adding hook %s", hookType)
		}
	}

	return nil
}
