package interfaces

import (
	"context"

	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
)

// ModUseCase defines mod installation and removal
type ModUseCase interface {
	// Install fetches an archive and unpacks it under the mods root
	Install(ctx context.Context, req *model.InstallRequest) (*model.InstallResult, error)

	// Uninstall removes an installed mod directory
	Uninstall(ctx context.Context, path string) error

	// List returns the installed mods
	List(ctx context.Context) ([]*model.InstalledMod, error)

	// ModsRoot returns the managed directory all mods live under
	ModsRoot() (string, error)
}
