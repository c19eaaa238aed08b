package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Router dispatches a URL to the fetcher registered for its scheme
type Router struct {
	routes map[string]interfaces.Fetcher
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{routes: make(map[string]interfaces.Fetcher)}
}

// Register binds fetcher to the given schemes, replacing earlier bindings
func (r *Router) Register(fetcher interfaces.Fetcher, schemes ...string) *Router {
	for _, scheme := range schemes {
		r.routes[strings.ToLower(scheme)] = fetcher
	}
	return r
}

func (r *Router) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid URL",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
		)
	}

	fetcher, ok := r.routes[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, goerr.New("unsupported URL scheme",
			goerr.T(types.ErrTagNetwork),
			goerr.V(types.KeyURL, rawURL),
			goerr.V("scheme", u.Scheme),
		)
	}
	return fetcher.Fetch(ctx, rawURL)
}
