package usecase

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/archive"
	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/utils/clock"
	"github.com/balatro-mod-manager/bmm/pkg/utils/safepath"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
)

const (
	// steamoddedPrefix is the folder prefix of Steamodded builds downloaded from GitHub
	steamoddedPrefix = "Steamodded-smods-"
)

// modsSubPath is the location of the mods root below the config directory
var modsSubPath = []string{"Balatro", "Mods"}

// Mods installs, removes and lists mods below the mods root. It holds no
// lock: callers must not run two operations on the same mods root at once.
type Mods struct {
	fetcher    interfaces.Fetcher
	configRoot interfaces.ConfigRootProvider
	clock      interfaces.Clock
	fs         afero.Fs
	extractor  *archive.Extractor
}

var _ interfaces.ModUseCase = (*Mods)(nil)

// Option is a functional option for Mods
type Option func(*Mods)

// WithClock sets the clock used for fallback mod names
func WithClock(c interfaces.Clock) Option {
	return func(uc *Mods) {
		uc.clock = c
	}
}

// WithFs sets the filesystem all mods are written to and removed from
func WithFs(fsys afero.Fs) Option {
	return func(uc *Mods) {
		uc.fs = fsys
	}
}

// NewMods creates a new instance of ModUseCase
func NewMods(fetcher interfaces.Fetcher, configRoot interfaces.ConfigRootProvider, opts ...Option) *Mods {
	uc := &Mods{
		fetcher:    fetcher,
		configRoot: configRoot,
		clock:      clock.Real{},
		fs:         afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.extractor = archive.NewExtractor(uc.fs)
	return uc
}

// ModsRoot resolves the managed directory from the config directory
func (uc *Mods) ModsRoot() (string, error) {
	root, err := uc.configRoot.ConfigRoot()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve config directory",
			goerr.T(types.ErrTagDirNotFound),
			goerr.V(types.KeyPath, "config directory"),
		)
	}
	return filepath.Join(append([]string{root}, modsSubPath...)...), nil
}

// Install fetches the archive at req.URL and unpacks it as a fresh mod
// directory. An existing directory of the same name is uninstalled first; if
// extraction then fails, the mod stays uninstalled.
func (uc *Mods) Install(ctx context.Context, req *model.InstallRequest) (*model.InstallResult, error) {
	logger := ctxlog.From(ctx).With(
		"request_id", uuid.NewString(),
		"url", req.URL,
	)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Installing mod", "stage", model.StageFetching)
	data, err := uc.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch mod archive",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, req.URL),
			goerr.V("stage", model.StageFetching),
		)
	}
	logger.Debug("Fetched mod archive", "size_bytes", len(data))

	format, err := archive.Classify(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to detect archive format",
			goerr.V(types.KeyURL, req.URL),
			goerr.V("stage", model.StageDetecting),
		)
	}

	modsRoot, err := uc.ModsRoot()
	if err != nil {
		return nil, err
	}

	name := ResolveName(req.Name, req.URL, uc.clock)
	target, err := uc.installTarget(modsRoot, name)
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolved install target",
		"stage", model.StageDetecting,
		"format", format.String(),
		"name", name,
		"target", target,
	)

	exists, err := afero.Exists(uc.fs, target)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check install target",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, target),
		)
	}
	if exists {
		logger.Info("Uninstalling existing mod", "stage", model.StageRemovingExisting, "path", target)
		if err := uc.Uninstall(ctx, target); err != nil {
			return nil, goerr.Wrap(err, "failed to remove previous version",
				goerr.V("stage", model.StageRemovingExisting),
			)
		}
	}

	logger.Info("Extracting mod", "stage", model.StageExtracting, "format", format.String())
	installed, err := uc.extractor.Extract(ctx, format, data, modsRoot, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract mod archive",
			goerr.V(types.KeyURL, req.URL),
			goerr.V("stage", model.StageExtracting),
		)
	}

	logger.Info("Mod installed successfully", "stage", model.StageDone, "path", installed)
	return &model.InstallResult{
		Name: name,
		Path: installed,
	}, nil
}

// installTarget joins name onto modsRoot. The result must be a direct
// descendant of the root and must not collide with the scratch directory.
func (uc *Mods) installTarget(modsRoot, name string) (string, error) {
	target := filepath.Join(modsRoot, name)
	if err := safepath.AssertDescendant(modsRoot, target); err != nil {
		return "", goerr.Wrap(err, "mod name resolves outside the mods directory",
			goerr.V("name", name),
		)
	}

	if name == archive.ScratchDirName {
		return "", goerr.New("mod name is reserved",
			goerr.T(types.ErrTagInvalidState),
			goerr.V(types.KeyDetail, "name collides with the extraction scratch directory"),
			goerr.V("name", name),
		)
	}
	return target, nil
}

// Uninstall deletes the mod directory at path. It refuses paths that do not
// exist, the mods root itself and anything outside of it.
func (uc *Mods) Uninstall(ctx context.Context, path string) error {
	logger := ctxlog.From(ctx)
	logger.Info("Uninstalling mod", "path", path)

	modsRoot, err := uc.ModsRoot()
	if err != nil {
		return err
	}

	if err := uc.validateUninstallPath(path, modsRoot); err != nil {
		return err
	}

	if name := filepath.Base(path); strings.HasPrefix(name, steamoddedPrefix) {
		logger.Info("Uninstalling Steamodded variant", "name", name)
	}

	if err := uc.fs.RemoveAll(path); err != nil {
		return goerr.Wrap(err, "failed to remove mod directory",
			goerr.T(types.ErrTagFileWrite),
			goerr.V(types.KeyPath, path),
		)
	}
	return nil
}

func (uc *Mods) validateUninstallPath(path, modsRoot string) error {
	exists, err := afero.Exists(uc.fs, path)
	if err != nil {
		return goerr.Wrap(err, "failed to check path",
			goerr.T(types.ErrTagPathValidation),
			goerr.V(types.KeyPath, path),
		)
	}
	if !exists {
		return goerr.New("path doesn't exist",
			goerr.T(types.ErrTagPathValidation),
			goerr.V(types.KeyPath, path),
		)
	}

	if safepath.IsSame(path, modsRoot) {
		return goerr.New("blocked attempt to delete the mods directory",
			goerr.T(types.ErrTagInvalidState),
			goerr.V(types.KeyDetail, "refusing to delete the mods root"),
			goerr.V(types.KeyPath, path),
		)
	}

	if !safepath.IsWithin(modsRoot, path) {
		return goerr.New("path outside mods directory",
			goerr.T(types.ErrTagPathValidation),
			goerr.V(types.KeyPath, path),
			goerr.V("mods_root", modsRoot),
		)
	}

	return nil
}

// List returns the mod directories below the mods root, sorted by name. A
// missing mods root means nothing is installed.
func (uc *Mods) List(ctx context.Context) ([]*model.InstalledMod, error) {
	modsRoot, err := uc.ModsRoot()
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(uc.fs, modsRoot)
	if errors.Is(err, fs.ErrNotExist) {
		ctxlog.From(ctx).Debug("Mods directory does not exist yet", "path", modsRoot)
		return []*model.InstalledMod{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read mods directory",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, modsRoot),
		)
	}

	mods := make([]*model.InstalledMod, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == archive.ScratchDirName {
			continue
		}
		mods = append(mods, &model.InstalledMod{
			Name:    entry.Name(),
			Path:    filepath.Join(modsRoot, entry.Name()),
			ModTime: entry.ModTime(),
		})
	}
	return mods, nil
}
