package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewCmdGenDocs creates a command that writes the markdown
// documentation of all commands and flags
func NewCmdGenDocs(rootCmd *cobra.Command) *cobra.Command {
	var docPath string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate markdown documentation",
		Long:  `Generate the markdown documentation of available CLI flags`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(rootCmd, docPath)
		},
	}

	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory path where the markdown files will be created")

	return cmd
}

func genDocs(rootCmd *cobra.Command, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	rootCmd.DisableAutoGenTag = true
	return doc.GenMarkdownTree(rootCmd, path)
}
