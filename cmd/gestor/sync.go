package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/gestor360/api"
	"github.com/ViniZap4/gestor360/auth"
	"github.com/ViniZap4/gestor360/domain"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "sync",
	Short:   "Pull and push the documents repository",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := docsAPI.GitSync(cmd.Context())
		if err != nil {
			return err
		}
		printSync(cmd.OutOrStdout(), res)
		if res.Status == domain.SyncError {
			return errors.New("sync failed")
		}
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:     "open",
	GroupID: "sync",
	Short:   "Open the documents folder in the file manager",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := desktopAPI()
		if err != nil {
			return err
		}
		return d.OpenDocumentsFolder(cmd.Context())
	},
}

var setupRemoteCmd = &cobra.Command{
	Use:     "setup-remote [url]",
	GroupID: "sync",
	Short:   "Configure the GitHub remote of the documents repository",
	Long: `Configure the GitHub remote of the documents repository.

Without a URL the GitHub "new repository" page is opened so one can be
created first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := desktopAPI()
		if err != nil {
			return err
		}
		var url string
		if len(args) == 1 {
			url = args[0]
		}
		res, err := d.SetupGitHubRepo(cmd.Context(), url)
		if err != nil {
			return err
		}
		if res.Opened != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Abierto "+accentStyle.Render(res.Opened))
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Crea el repositorio y ejecuta: gestor setup-remote <url>"))
			return nil
		}
		ok(cmd.OutOrStdout(), "Remoto configurado: "+res.RemoteURL)
		return nil
	},
}

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Print the bcrypt hash to use as GESTOR_TOKEN_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashToken(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd, openCmd, setupRemoteCmd, hashTokenCmd)
}

func desktopAPI() (api.DesktopAPI, error) {
	d, ok := docsAPI.(api.DesktopAPI)
	if !ok {
		return nil, fmt.Errorf("only available without --api-url: %w", domain.ErrNotSupported)
	}
	return d, nil
}
