package config

import (
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// FileValues is the layout of the TOML config file. Flags and environment
// variables take precedence over it.
//
//	config_root = "/srv/balatro"
//
//	[fetch]
//	timeout = "30s"
//
//	[server]
//	addr = "0.0.0.0:8080"
type FileValues struct {
	ConfigRoot string     `toml:"config_root"`
	Fetch      fileFetch  `toml:"fetch"`
	GitHub     fileGitHub `toml:"github"`
	Server     fileServer `toml:"server"`
}

type fileFetch struct {
	Timeout      string `toml:"timeout"`
	UserAgent    string `toml:"user_agent"`
	GCSAnonymous bool   `toml:"gcs_anonymous"`
	GCSEndpoint  string `toml:"gcs_endpoint"`
}

type fileGitHub struct {
	Token   string `toml:"token" masq:"secret"`
	BaseURL string `toml:"api_url"`
}

type fileServer struct {
	Addr     string `toml:"addr"`
	APIToken string `toml:"api_token" masq:"secret"`
}

// File holds the config file location
type File struct {
	Path string
}

// Flags returns CLI flags for the config file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML config file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("BMM_CONFIG"),
		},
	}
}

// Load reads the config file. Without a path it returns nil values.
func (c *File) Load(fsys afero.Fs) (*FileValues, error) {
	if c.Path == "" {
		return nil, nil
	}

	data, err := afero.ReadFile(fsys, c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.T(types.ErrTagFileRead),
			goerr.V(types.KeyPath, c.Path),
		)
	}

	var values FileValues
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.T(types.ErrTagInvalidState),
			goerr.V(types.KeyPath, c.Path),
		)
	}
	return &values, nil
}
