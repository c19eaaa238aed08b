package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr     string
	APIToken string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("BMM_ADDR"),
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token required on /mods routes",
			Destination: &c.APIToken,
			Sources:     cli.EnvVars("BMM_API_TOKEN"),
		},
	}
}

// Merge fills values not given on the command line from the config file
func (c *Server) Merge(file *FileValues, cmd *cli.Command) {
	if file == nil {
		return
	}
	if !cmd.IsSet("addr") && file.Server.Addr != "" {
		c.Addr = file.Server.Addr
	}
	if !cmd.IsSet("api-token") && file.Server.APIToken != "" {
		c.APIToken = file.Server.APIToken
	}
}
