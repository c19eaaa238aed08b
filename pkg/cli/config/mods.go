package config

import (
	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/infra/configdir"
	"github.com/urfave/cli/v3"
)

// Mods holds the location of the game configuration directory
type Mods struct {
	ConfigRoot string
}

// Flags returns CLI flags for mods configuration
func (c *Mods) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config-root",
			Usage:       "Override the user config directory that contains Balatro/Mods",
			Destination: &c.ConfigRoot,
			Sources:     cli.EnvVars("BMM_CONFIG_ROOT"),
		},
	}
}

// Merge fills values not given on the command line from the config file
func (c *Mods) Merge(file *FileValues, cmd *cli.Command) {
	if file == nil {
		return
	}
	if !cmd.IsSet("config-root") && file.ConfigRoot != "" {
		c.ConfigRoot = file.ConfigRoot
	}
}

// Provider returns the config root provider: the override if set, the OS default otherwise
func (c *Mods) Provider() interfaces.ConfigRootProvider {
	if c.ConfigRoot != "" {
		return configdir.Static(c.ConfigRoot)
	}
	return configdir.OS{}
}
