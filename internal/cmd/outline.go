package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dendrascience/notebook-fuse/nbfs"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// NewOutlineCmd creates and returns the outline subcommand for the nbfs CLI.
// It prints the directory a single notebook would be mounted as.
func NewOutlineCmd() *cobra.Command {
	var strictNames bool

	cmd := &cobra.Command{
		Use:   "outline NOTEBOOK",
		Short: "List the files a notebook is presented as",
		Long: `Print every virtual file NOTEBOOK would contain when mounted, with its
kind and size. Markdown cells also show their first heading.

This does not need a mount and is handy for checking how a notebook will
look before publishing the names to other tools.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := nbfs.NewProjection(args[0], nbfs.WithStrictNames(strictNames))
			if err != nil {
				return err
			}
			return writeOutline(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().BoolVar(&strictNames, "strict-names", false, "Fail when virtual file names collide")

	return cmd
}

func writeOutline(w io.Writer, p *nbfs.Projection) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSIZE\tTITLE")
	for _, f := range p.Files() {
		var title string
		if f.Kind == nbfs.KindMarkdown {
			title = headingTitle(f.Data)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Name, f.Kind, len(f.Data), title)
	}
	return tw.Flush()
}

// headingTitle returns the plain text of the first heading in a markdown
// document, or "" when it has none.
func headingTitle(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			inlineText(&sb, h, source)
			title = strings.TrimSpace(sb.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(sb *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		default:
			inlineText(sb, c, source)
		}
	}
}
