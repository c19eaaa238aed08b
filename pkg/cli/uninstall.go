package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/cli/config"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdUninstall(env *environment) *cli.Command {
	var modsCfg config.Mods

	return &cli.Command{
		Name:      "uninstall",
		Aliases:   []string{"rm"},
		Usage:     "Remove an installed mod",
		ArgsUsage: "<name|path>",
		Flags:     modsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			modsCfg.Merge(env.file, c)

			arg := c.Args().First()
			if arg == "" {
				return goerr.New("mod name or path is required", goerr.T(types.ErrTagInvalidState))
			}

			modUC := usecase.NewMods(nil, modsCfg.Provider(), usecase.WithFs(env.fs))

			path := arg
			if isBareName(arg) {
				modsRoot, err := modUC.ModsRoot()
				if err != nil {
					return err
				}
				path = filepath.Join(modsRoot, arg)
			}

			if err := modUC.Uninstall(ctx, path); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s %s\n", color.YellowString("Removed"), path)
			return nil
		},
	}
}

// isBareName reports whether arg names a mod rather than a filesystem path
func isBareName(arg string) bool {
	return !filepath.IsAbs(arg) && !strings.ContainsAny(arg, `/\`) && arg != "." && arg != ".."
}
