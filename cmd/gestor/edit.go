package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/gestor360/api"
	"github.com/ViniZap4/gestor360/domain"
)

const draftPollInterval = time.Second

var editStdin bool

var editCmd = &cobra.Command{
	Use:     "edit <folder> <filename>",
	GroupID: "docs",
	Short:   "Edit a document",
	Long: `Edit a document in $EDITOR.

While the editor is open the draft is saved every autosave interval
(GESTOR_AUTOSAVE_INTERVAL, 30s by default) and once more on exit. With
--stdin the new content is read from standard input instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := lookup(cmd, args[0], args[1])
		if err != nil {
			return err
		}

		saver := api.NewAutoSaver(docsAPI, doc, cfg.AutosaveInterval)
		saver.OnSave(func(d domain.Document) {
			ok(cmd.ErrOrStderr(), "Guardado "+d.UpdatedAt.Local().Format("15:04:05"))
		})

		if editStdin {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			saver.Edit(string(data))
			saved, err := saver.Save(cmd.Context())
			if err != nil {
				return err
			}
			if !saved {
				warn(cmd.ErrOrStderr(), "Sin cambios")
			}
			return nil
		}
		return editInteractive(cmd.Context(), doc, saver)
	},
}

func init() {
	editCmd.Flags().BoolVar(&editStdin, "stdin", false, "read the new content from standard input")
	rootCmd.AddCommand(editCmd)
}

// editInteractive runs the editor on a scratch copy of the document and
// feeds the file into the auto-saver while the editor is open.
func editInteractive(ctx context.Context, doc domain.Document, saver *api.AutoSaver) error {
	dir, err := os.MkdirTemp("", "gestor-edit-")
	if err != nil {
		return err
	}
	keep := false
	defer func() {
		if !keep {
			os.RemoveAll(dir)
		}
	}()

	draft := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(draft, []byte(doc.Content), 0600); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	ed := exec.CommandContext(ctx, editor, draft)
	ed.Stdin, ed.Stdout, ed.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := ed.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", editor, err)
	}

	runCtx, stopSaver := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		saver.Run(runCtx)
		close(done)
	}()

	exited := make(chan error, 1)
	go func() { exited <- ed.Wait() }()

	ticker := time.NewTicker(draftPollInterval)
	defer ticker.Stop()

	var edErr error
loop:
	for {
		select {
		case edErr = <-exited:
			break loop
		case <-ticker.C:
			if data, err := os.ReadFile(draft); err == nil {
				saver.Edit(string(data))
			}
		}
	}

	if data, err := os.ReadFile(draft); err == nil {
		saver.Edit(string(data))
	}
	stopSaver()
	<-done

	if edErr != nil {
		return fmt.Errorf("%s exited: %w", editor, edErr)
	}
	if saver.Dirty() {
		keep = true
		return fmt.Errorf("changes were not saved, draft kept at %s", draft)
	}
	return nil
}
