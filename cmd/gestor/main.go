// Command gestor is the Gestor 360 client. It reads and edits documents
// through the document API, either against a server (--api-url) or
// directly on the local documents directory.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/gestor360/api"
	"github.com/ViniZap4/gestor360/config"
	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/logger"
)

var (
	configPath string
	apiURL     string
	docsDir    string
	verbose    bool

	cfg      *config.Config
	docsAPI  api.DocumentAPI
	closeAPI func() error
)

var rootCmd = &cobra.Command{
	Use:           "gestor",
	Short:         "Gestor 360 document client",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Manage Gestor 360 markdown documents from the terminal.

Without --api-url the client works on the local documents directory
(default ~/Gestor360-Docs) and keeps it in a git working copy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only grouped commands talk to the document API.
		if cmd.GroupID == "" {
			return nil
		}
		return connect(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeAPI == nil {
			return nil
		}
		return closeAPI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Gestor 360 server URL (overrides GESTOR_API_URL)")
	rootCmd.PersistentFlags().StringVar(&docsDir, "docs-dir", "", "local documents directory (overrides GESTOR_DOCS_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "docs", Title: "Documents:"},
		&cobra.Group{ID: "sync", Title: "Synchronization:"},
	)
}

// connect loads the configuration and selects the document API once.
func connect(ctx context.Context) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		c.APIURL = apiURL
	}
	if docsDir != "" {
		c.DocsDir = docsDir
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger.Setup(level, true)

	a, closeFn, err := api.Select(ctx, api.Env{
		APIURL:   c.APIURL,
		APIToken: c.APIToken,
		DocsDir:  c.DocsDir,
	})
	if err != nil {
		return err
	}
	cfg, docsAPI, closeAPI = c, a, closeFn
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fail(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the short user-facing message for API errors.
func errorText(err error) string {
	if verbose {
		return err.Error()
	}
	for _, kind := range []error{domain.ErrNotFound, domain.ErrValidation, domain.ErrConflict, domain.ErrNotSupported, domain.ErrTransport} {
		if errors.Is(err, kind) {
			return api.UserMessage(err)
		}
	}
	return err.Error()
}
