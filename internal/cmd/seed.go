package cmd

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/dendrascience/notebook-fuse/notebook"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// onePixelPNG is a 1x1 transparent PNG, base64 encoded and wrapped the way
// Jupyter stores image outputs.
const onePixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA\n60e6kgAAAABJRU5ErkJggg==\n"

// NewSeedCmd creates and returns the seed subcommand for the nbfs CLI.
// It generates sample notebooks for trying out a mount.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		count      int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample notebooks",
		Long: `Generate sample notebooks for testing nbfs.

Notebooks are spread over a few subdirectories. Each one holds a markdown
cell, a code cell with a stream output and an image output, and optionally
a second code cell that printed to stderr. Cell ids are random UUIDs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.OutOrStdout(), outputPath, count, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&count, "count", "c", 20, "Number of notebooks to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

func runSeed(w io.Writer, outputPath string, count int, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "Generating %d notebooks in %s\n", count, outputPath)
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i := range count {
		dir := outputPath
		// Roughly a third of the notebooks land one level down.
		if sub := randInt(6); sub < 2 {
			dir = filepath.Join(outputPath, fmt.Sprintf("project-%d", sub))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("notebook-%04d.ipynb", i))
		if err := writeSeedNotebook(path, i); err != nil {
			return err
		}
		if verbose && (i+1)%10 == 0 {
			fmt.Fprintf(w, "Created %d/%d notebooks...\n", i+1, count)
		}
	}

	if verbose {
		fmt.Fprintf(w, "Successfully created %d notebooks\n", count)
	}
	return nil
}

func seedDocument(n int) *notebook.Document {
	execCount := 1
	value := randInt(1000)

	doc := &notebook.Document{
		Metadata: notebook.Metadata{
			LanguageInfo: notebook.LanguageInfo{Name: "python", FileExtension: ".py", MIMEType: "text/x-python"},
			KernelSpec:   notebook.KernelSpec{Name: "python3", DisplayName: "Python 3", Language: "python"},
		},
		Cells: []notebook.Cell{
			&notebook.MarkdownCell{
				ID:     uuid.New().String(),
				Source: notebook.Text(fmt.Sprintf("# Sample notebook %d\n\nGenerated by `nbfs seed`.", n)),
			},
			&notebook.CodeCell{
				ID:             uuid.New().String(),
				Source:         notebook.Text(fmt.Sprintf("value = %d\nprint(value)\nvalue", value)),
				ExecutionCount: &execCount,
				Outputs: []notebook.Output{
					&notebook.StreamOutput{Name: "stdout", Text: notebook.Text(fmt.Sprintf("%d\n", value))},
					&notebook.DataOutput{
						Type:           notebook.ExecuteResult,
						ExecutionCount: &execCount,
						Data: notebook.MIMEBundle{
							{MIME: "text/plain", Payload: notebook.Text(fmt.Sprint(value))},
							{MIME: "image/png", Payload: onePixelPNG},
						},
					},
				},
			},
		},
	}

	if randInt(2) == 1 {
		doc.Cells = append(doc.Cells, &notebook.CodeCell{
			ID:     uuid.New().String(),
			Source: "import sys\nprint('warning', file=sys.stderr)",
			Outputs: []notebook.Output{
				&notebook.StreamOutput{Name: "stderr", Text: "warning\n"},
			},
		})
	}
	return doc
}

func writeSeedNotebook(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := notebook.Encode(f, seedDocument(n)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
