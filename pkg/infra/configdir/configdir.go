// Package configdir resolves the per-user configuration directory the game
// stores its mods under.
package configdir

import (
	"os"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// OS resolves the platform configuration directory: %AppData% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME or ~/.config
// elsewhere.
type OS struct{}

func (OS) ConfigRoot() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to find config directory",
			goerr.T(types.ErrTagDirNotFound),
			goerr.V(types.KeyPath, "user config directory"),
		)
	}
	return dir, nil
}

// Static returns a fixed directory, set by --config-root
type Static string

func (s Static) ConfigRoot() (string, error) {
	if s == "" {
		return "", goerr.New("config directory override is empty",
			goerr.T(types.ErrTagDirNotFound),
			goerr.V(types.KeyPath, ""),
		)
	}
	return string(s), nil
}
