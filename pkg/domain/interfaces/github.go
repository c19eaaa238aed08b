package interfaces

import "context"

// GitHubClient defines operations for resolving GitHub hosted mods
type GitHubClient interface {
	// ArchiveURL returns the zipball URL of a ref, or of the latest release when ref is empty
	ArchiveURL(ctx context.Context, owner, repo, ref string) (string, error)
}
