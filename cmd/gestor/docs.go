package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/gestor360/api"
	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/kanban"
)

var (
	docsFolder string
	newFolder  string
	newType    string
	newFile    string
)

var foldersCmd = &cobra.Command{
	Use:     "folders",
	GroupID: "docs",
	Short:   "List folders",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := docsAPI.GetFolders(cmd.Context())
		if err != nil {
			return err
		}
		printFolders(cmd.OutOrStdout(), folders)
		return nil
	},
}

var docsCmd = &cobra.Command{
	Use:     "docs",
	GroupID: "docs",
	Short:   "List documents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := docsAPI.GetDocuments(cmd.Context())
		if err != nil {
			return err
		}
		printDocuments(cmd.OutOrStdout(), filterFolder(docs, docsFolder))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	GroupID: "docs",
	Short:   "Search documents by title or content",
	Long: `Search documents by title or content, case-insensitively.

Queries shorter than three characters list every document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := api.VisibleDocuments(cmd.Context(), docsAPI, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printDocuments(cmd.OutOrStdout(), docs)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <folder> <filename>",
	GroupID: "docs",
	Short:   "Print a document's markdown",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := lookup(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), doc.Content)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:     "new <title>",
	GroupID: "docs",
	Short:   "Create a document from the folder's template",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		content := domain.DefaultContent(newFolder, title, newType)

		doc, err := docsAPI.CreateDocument(cmd.Context(), domain.InsertDocument{
			Title:    title,
			Content:  &content,
			Folder:   newFolder,
			Filename: newFile,
		})
		if err != nil {
			return err
		}
		ok(cmd.OutOrStdout(), "Documento creado: "+doc.Folder+"/"+doc.Filename)
		return nil
	},
}

var kanbanCmd = &cobra.Command{
	Use:     "kanban <folder> <filename>",
	GroupID: "docs",
	Short:   "Show a document as a Kanban board",
	Long: `Show a document as a read-only Kanban board.

Level-two headings such as "## Por hacer", "## En proceso" or "## Hecho"
become columns and their "- " list entries become cards.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := lookup(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), kanban.Render(doc.Title, kanban.Parse(doc.Content)))
		return nil
	},
}

func init() {
	docsCmd.Flags().StringVarP(&docsFolder, "folder", "f", "", "only documents in this folder")

	newCmd.Flags().StringVarP(&newFolder, "folder", "f", "notas", "target folder")
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "document type used by the template")
	newCmd.Flags().StringVar(&newFile, "filename", "", "explicit filename (generated when empty)")

	rootCmd.AddCommand(foldersCmd, docsCmd, searchCmd, showCmd, newCmd, kanbanCmd)
}

// lookup finds a document by location. The API has no single-document
// read, so it scans the listing.
func lookup(cmd *cobra.Command, folder, filename string) (domain.Document, error) {
	docs, err := docsAPI.GetDocuments(cmd.Context())
	if err != nil {
		return domain.Document{}, err
	}
	return findDocument(docs, folder, filename)
}
