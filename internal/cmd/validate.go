package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/notebook-fuse/nbfs"
	"github.com/dendrascience/notebook-fuse/util"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates and returns the validate subcommand for the nbfs CLI.
// It checks that every notebook in a tree can be projected.
func NewValidateCmd() *cobra.Command {
	var (
		rootPath    string
		suffix      string
		verbose     bool
		strictNames bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every notebook in a tree can be mounted",
		Long: `Decode and project every notebook under a directory tree.

A notebook fails validation when it cannot be decoded, declares code cells
without a file extension, carries invalid base64 image data, or (with
--strict-names) produces colliding virtual file names. Failed notebooks show
up as unreadable directories in a mount. The command exits non-zero when any
notebook fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			checked, err := validateTree(cmd.OutOrStdout(), rootPath, suffix, strictNames, verbose)
			fmt.Fprintf(cmd.OutOrStdout(), "\nValidation complete:\n")
			fmt.Fprintf(cmd.OutOrStdout(), "  Notebooks checked: %d\n", checked)
			if merr, ok := err.(*multierror.Error); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "  Failed: %d\n", merr.Len())
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&rootPath, "path", "p", "", "Path to the directory tree to validate (required)")
	cmd.Flags().StringVar(&suffix, "suffix", nbfs.DefaultSuffix, "File suffix that marks a notebook")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&strictNames, "strict-names", false, "Treat virtual file name collisions as failures")

	cmd.MarkFlagRequired("path")

	return cmd
}

// validateTree projects every notebook under root. Per-notebook failures are
// collected into a *multierror.Error; a failure to walk the tree is returned
// on its own.
func validateTree(w io.Writer, root, suffix string, strictNames, verbose bool) (int, error) {
	if verbose {
		fmt.Fprintf(w, "Validating notebooks under %s\n", root)
	}

	var (
		checked int
		result  *multierror.Error
	)
	err := util.WalkNotebooks(root, suffix, func(path string) error {
		checked++
		if _, err := nbfs.NewProjection(path, nbfs.WithStrictNames(strictNames)); err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			result = multierror.Append(result, err)
			return nil
		}
		if verbose {
			fmt.Fprintf(w, "ok   %s\n", path)
		}
		return nil
	})
	if err != nil {
		return checked, fmt.Errorf("walking %s: %w", root, err)
	}
	return checked, result.ErrorOrNil()
}
