package config

import (
	"time"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/infra/fetch"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Fetch holds archive download configuration
type Fetch struct {
	Timeout      time.Duration
	UserAgent    string
	GCSAnonymous bool
	GCSEndpoint  string
}

// Flags returns CLI flags for fetch configuration
func (c *Fetch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "fetch-timeout",
			Usage:       "Timeout of a single archive download",
			Value:       fetch.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("BMM_FETCH_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent header for http(s) downloads",
			Value:       types.AppName + "/" + types.Version,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("BMM_USER_AGENT"),
		},
		&cli.BoolFlag{
			Name:        "gcs-anonymous",
			Usage:       "Read gs:// archives without Google Cloud credentials",
			Destination: &c.GCSAnonymous,
			Sources:     cli.EnvVars("BMM_GCS_ANONYMOUS"),
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Custom Cloud Storage endpoint",
			Destination: &c.GCSEndpoint,
			Sources:     cli.EnvVars("BMM_GCS_ENDPOINT"),
		},
	}
}

// Merge fills values not given on the command line from the config file
func (c *Fetch) Merge(file *FileValues, cmd *cli.Command) error {
	if file == nil {
		return nil
	}

	if !cmd.IsSet("fetch-timeout") && file.Fetch.Timeout != "" {
		d, err := time.ParseDuration(file.Fetch.Timeout)
		if err != nil {
			return goerr.Wrap(err, "invalid fetch.timeout in config file",
				goerr.T(types.ErrTagInvalidState),
				goerr.V("timeout", file.Fetch.Timeout),
			)
		}
		c.Timeout = d
	}
	if !cmd.IsSet("user-agent") && file.Fetch.UserAgent != "" {
		c.UserAgent = file.Fetch.UserAgent
	}
	if !cmd.IsSet("gcs-anonymous") && file.Fetch.GCSAnonymous {
		c.GCSAnonymous = true
	}
	if !cmd.IsSet("gcs-endpoint") && file.Fetch.GCSEndpoint != "" {
		c.GCSEndpoint = file.Fetch.GCSEndpoint
	}
	return nil
}

// NewFetcher builds a fetcher for http, https, gs and file URLs. The
// returned GCS fetcher must be closed by the caller.
func (c *Fetch) NewFetcher(fsys afero.Fs) (*fetch.Router, *fetch.GCS) {
	httpOpts := []fetch.HTTPOption{
		fetch.WithUserAgent(c.UserAgent),
	}
	if c.Timeout > 0 {
		httpOpts = append(httpOpts, fetch.WithTimeout(c.Timeout))
	}

	var gcsOpts []fetch.GCSOption
	if c.GCSAnonymous {
		gcsOpts = append(gcsOpts, fetch.WithoutAuthentication())
	}
	if c.GCSEndpoint != "" {
		gcsOpts = append(gcsOpts, fetch.WithEndpoint(c.GCSEndpoint))
	}
	gcs := fetch.NewGCS(gcsOpts...)

	router := fetch.NewRouter().
		Register(fetch.NewHTTP(httpOpts...), "http", "https").
		Register(gcs, "gs").
		Register(fetch.NewFile(fsys), "file")
	return router, gcs
}
