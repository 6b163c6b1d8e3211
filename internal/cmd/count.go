package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/notebook-fuse/nbfs"
	"github.com/dendrascience/notebook-fuse/notebook"
	"github.com/dendrascience/notebook-fuse/util"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the nbfs CLI.
// It summarizes the notebooks in a directory tree.
func NewCountCmd() *cobra.Command {
	var (
		path         string
		suffix       string
		showProgress bool
		asJSON       bool
		savePath     string
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count notebooks, cells and virtual files in a directory tree",
		Long: `Count the notebooks in a directory tree along with the cells they hold
and the virtual files a mount would present for them.

Notebooks that cannot be projected are counted as failed. Useful for getting
quick statistics before mounting a large tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd.OutOrStdout(), path, suffix, showProgress, asJSON, savePath)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count notebooks in")
	cmd.Flags().StringVar(&suffix, "suffix", nbfs.DefaultSuffix, "File suffix that marks a notebook")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 100 notebooks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().StringVar(&savePath, "save", "", "Also write the JSON summary to this file or directory")

	return cmd
}

func runCount(w io.Writer, path, suffix string, showProgress, asJSON bool, savePath string) error {
	var progress func(int)
	if showProgress {
		progress = func(n int) {
			if n%100 == 0 {
				fmt.Fprintf(w, "Progress: %d notebooks counted\n", n)
			}
		}
	}

	summary, err := countTree(path, suffix, progress)
	if err != nil {
		return fmt.Errorf("counting notebooks: %w", err)
	}

	if savePath != "" {
		if err := summary.Save(savePath); err != nil {
			return err
		}
	}
	if asJSON {
		return summary.Write(w)
	}

	fmt.Fprintf(w, "Notebooks:     %d\n", summary.Notebooks)
	fmt.Fprintf(w, "Failed:        %d\n", summary.Failed)
	fmt.Fprintf(w, "Cells:         %d\n", summary.Cells)
	fmt.Fprintf(w, "Virtual files: %d\n", summary.VirtualFiles)
	fmt.Fprintf(w, "Virtual bytes: %d\n", summary.VirtualBytes)
	return nil
}

func countTree(root, suffix string, progress func(int)) (util.TreeSummary, error) {
	summary := util.NewTreeSummary(root)
	err := util.WalkNotebooks(root, suffix, func(path string) error {
		summary.Notebooks++
		if progress != nil {
			progress(summary.Notebooks)
		}

		p, err := nbfs.NewProjection(path)
		if err != nil {
			summary.Failed++
			// Cells still count when only the projection failed.
			if doc, derr := notebook.DecodeFile(path); derr == nil {
				summary.Cells += len(doc.Cells)
			}
			return nil
		}
		summary.Cells += len(p.Document().Cells)
		for _, f := range p.Files() {
			summary.VirtualFiles++
			summary.VirtualBytes += int64(len(f.Data))
		}
		return nil
	})
	return summary, err
}
