package api

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/bridge"
	"github.com/ViniZap4/gestor360/desktop"
)

// Env is what Select needs to know about the runtime environment.
type Env struct {
	// APIURL selects the networked variant when set.
	APIURL   string
	APIToken string

	// DocsDir is the documents directory used by the local variant.
	DocsDir string

	// Watch starts forwarding external file edits in the local variant.
	Watch bool
}

// Select builds the API variant for env. It is meant to be called once;
// the returned close function releases whatever the variant started.
func Select(ctx context.Context, env Env) (DocumentAPI, func() error, error) {
	if env.APIURL != "" {
		log.Debug().Str("component", "api").Str("url", env.APIURL).Msg("Using networked document API")
		return NewHTTP(env.APIURL, env.APIToken), func() error { return nil }, nil
	}

	lib, repo, err := desktop.Bootstrap(ctx, env.DocsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open documents directory: %w", err)
	}

	b := bridge.New()
	host, err := desktop.NewHost(lib, repo, b)
	if err != nil {
		return nil, nil, err
	}
	if env.Watch {
		if err := host.Watch(); err != nil {
			return nil, nil, fmt.Errorf("failed to watch documents: %w", err)
		}
	}

	log.Debug().Str("component", "api").Str("dir", env.DocsDir).Msg("Using local document API")
	return NewLocal(b), host.Close, nil
}
