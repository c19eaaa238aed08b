package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// maxArchiveRedirects is how many redirects GetArchiveLink may follow
const maxArchiveRedirects = 3

type client struct {
	githubClient *github.Client
}

type config struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option configures the GitHub client
type Option func(*config)

// WithToken authenticates API calls, raising the rate limit
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithBaseURL points the client at another API endpoint, e.g. GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GitHub client. Without a token it uses anonymous access.
func NewClient(opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		base := cfg.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL",
				goerr.T(types.ErrTagInvalidState),
				goerr.V(types.KeyURL, cfg.baseURL),
			)
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// ArchiveURL resolves the zipball URL of ref, or of the latest release when ref is empty
func (c *client) ArchiveURL(ctx context.Context, owner, repo, ref string) (string, error) {
	logger := ctxlog.From(ctx)

	if ref == "" {
		release, _, err := c.githubClient.Repositories.GetLatestRelease(ctx, owner, repo)
		if err != nil {
			return "", goerr.Wrap(err, "failed to get latest release",
				goerr.T(types.ErrTagNetwork),
				goerr.V("owner", owner),
				goerr.V("repo", repo),
			)
		}

		zipball := release.GetZipballURL()
		if zipball == "" {
			return "", goerr.New("latest release has no zipball",
				goerr.T(types.ErrTagInvalidState),
				goerr.V(types.KeyDetail, "release without source archive"),
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("tag", release.GetTagName()),
			)
		}

		logger.Debug("Resolved latest release",
			"owner", owner,
			"repo", repo,
			"tag", release.GetTagName(),
		)
		return zipball, nil
	}

	link, _, err := c.githubClient.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: ref,
	}, maxArchiveRedirects)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get zipball download URL",
			goerr.T(types.ErrTagNetwork),
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("ref", ref),
		)
	}

	logger.Debug("Resolved archive link", "owner", owner, "repo", repo, "ref", ref)
	return link.String(), nil
}
