package cli

import (
	"context"
	"fmt"

	"github.com/balatro-mod-manager/bmm/pkg/cli/config"
	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdInstall(env *environment) *cli.Command {
	var (
		modsCfg   config.Mods
		fetchCfg  config.Fetch
		githubCfg config.GitHub
		name      string
		source    string
	)

	flags := append(modsCfg.Flags(), fetchCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Folder name of the mod (derived from the URL when omitted)",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "github",
			Aliases:     []string{"g"},
			Usage:       "Install from GitHub: owner/repo for the latest release, owner/repo@ref for a branch, tag or commit",
			Destination: &source,
		},
	)

	return &cli.Command{
		Name:      "install",
		Aliases:   []string{"i"},
		Usage:     "Download a mod archive and install it",
		ArgsUsage: "<url>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			modsCfg.Merge(env.file, c)
			githubCfg.Merge(env.file, c)
			if err := fetchCfg.Merge(env.file, c); err != nil {
				return err
			}
			logger.Debug("Install configuration",
				"mods", modsCfg,
				"fetch", fetchCfg,
				"github", githubCfg,
			)

			req := &model.InstallRequest{
				URL:  c.Args().First(),
				Name: name,
			}

			if source != "" {
				if req.URL != "" {
					return goerr.New("specify either a URL or --github, not both",
						goerr.T(types.ErrTagInvalidState))
				}
				if err := resolveGitHubSource(ctx, &githubCfg, source, req); err != nil {
					return err
				}
			}

			if req.URL == "" {
				return goerr.New("archive URL is required", goerr.T(types.ErrTagInvalidState))
			}

			fetcher, gcs := fetchCfg.NewFetcher(env.fs)
			defer gcs.Close()

			modUC := usecase.NewMods(fetcher, modsCfg.Provider(), usecase.WithFs(env.fs))
			result, err := modUC.Install(ctx, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s %s -> %s\n",
				color.GreenString("Installed"),
				color.New(color.Bold).Sprint(result.Name),
				result.Path,
			)
			return nil
		},
	}
}

// resolveGitHubSource turns owner/repo[@ref] into an archive URL. The repository
// name becomes the mod name unless one was given.
func resolveGitHubSource(ctx context.Context, githubCfg *config.GitHub, source string, req *model.InstallRequest) error {
	src, err := model.ParseGitHubSource(source)
	if err != nil {
		return err
	}

	client, err := githubCfg.NewClient()
	if err != nil {
		return err
	}

	archiveURL, err := client.ArchiveURL(ctx, src.Owner, src.Repo, src.Ref)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve GitHub source", goerr.V("source", src.String()))
	}

	ctxlog.From(ctx).Info("Resolved GitHub source", "source", src.String(), "url", archiveURL)
	req.URL = archiveURL
	if req.Name == "" {
		req.Name = src.Repo
	}
	return nil
}
