package config

import (
	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	githubinfra "github.com/balatro-mod-manager/bmm/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token   string `masq:"secret"`
	BaseURL string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for resolving --github sources",
			Destination: &c.Token,
			Sources:     cli.EnvVars("BMM_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("BMM_GITHUB_API_URL"),
		},
	}
}

// Merge fills values not given on the command line from the config file
func (c *GitHub) Merge(file *FileValues, cmd *cli.Command) {
	if file == nil {
		return
	}
	if !cmd.IsSet("github-token") && file.GitHub.Token != "" {
		c.Token = file.GitHub.Token
	}
	if !cmd.IsSet("github-api-url") && file.GitHub.BaseURL != "" {
		c.BaseURL = file.GitHub.BaseURL
	}
}

// NewClient creates a GitHub client from the configuration
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	return githubinfra.NewClient(opts...)
}
