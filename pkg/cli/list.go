package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/balatro-mod-manager/bmm/pkg/cli/config"
	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"
)

func cmdList(env *environment) *cli.Command {
	var (
		modsCfg config.Mods
		output  string
	)

	flags := append(modsCfg.Flags(),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output format (table, yaml)",
			Value:       "table",
			Destination: &output,
		},
	)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List installed mods",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			modsCfg.Merge(env.file, c)

			modUC := usecase.NewMods(nil, modsCfg.Provider(), usecase.WithFs(env.fs))
			mods, err := modUC.List(ctx)
			if err != nil {
				return err
			}

			switch output {
			case "table":
				return writeTable(c.Root().Writer, mods)
			case "yaml":
				return writeYAML(c.Root().Writer, mods)
			default:
				return goerr.New("invalid output format",
					goerr.T(types.ErrTagInvalidState),
					goerr.V("output", output))
			}
		},
	}
}

func writeTable(w io.Writer, mods []*model.InstalledMod) error {
	if len(mods) == 0 {
		fmt.Fprintln(w, "No mods installed")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := color.New(color.Bold, color.FgCyan).SprintFunc()
	fmt.Fprintf(tw, "%s\t%s\t%s\n", header("NAME"), header("UPDATED"), header("PATH"))
	for _, mod := range mods {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mod.Name, mod.ModTime.Format(time.DateTime), mod.Path)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, mods []*model.InstalledMod) error {
	data, err := yaml.Marshal(mods)
	if err != nil {
		return goerr.Wrap(err, "failed to encode mods as YAML")
	}
	_, err = w.Write(data)
	return err
}
