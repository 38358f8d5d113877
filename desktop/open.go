package desktop

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// GitHubNewRepoURL is opened when the user asks to set up a remote without
// giving one.
const GitHubNewRepoURL = "https://github.com/new"

// Opener shows a directory or URL with the platform's default handler.
type Opener func(target string) error

func init() {
	// the opener's own chatter would end up in the CLI output
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// SystemOpener hands web addresses to the default browser and paths to the
// file manager.
func SystemOpener(target string) error {
	open := browser.OpenFile
	if isWebURL(target) {
		open = browser.OpenURL
	}
	if err := open(target); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

func isWebURL(target string) bool {
	u, err := url.Parse(target)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
