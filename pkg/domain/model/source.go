package model

import (
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// GitHubSource identifies a mod hosted on GitHub
type GitHubSource struct {
	Owner string // Repository owner
	Repo  string // Repository name, also the default mod name
	Ref   string // Branch, tag or commit; empty means latest release
}

// ParseGitHubSource parses "owner/repo" or "owner/repo@ref"
func ParseGitHubSource(s string) (*GitHubSource, error) {
	fullName, ref, _ := strings.Cut(strings.TrimSpace(s), "@")
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, goerr.New("invalid GitHub source, expected owner/repo[@ref]",
			goerr.T(types.ErrTagInvalidState),
			goerr.V(types.KeyDetail, s),
		)
	}

	return &GitHubSource{
		Owner: owner,
		Repo:  strings.TrimSuffix(repo, ".git"),
		Ref:   ref,
	}, nil
}

// String formats the source back into owner/repo[@ref]
func (s GitHubSource) String() string {
	if s.Ref == "" {
		return s.Owner + "/" + s.Repo
	}
	return s.Owner + "/" + s.Repo + "@" + s.Ref
}
