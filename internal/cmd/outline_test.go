package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/notebook-fuse/nbfs"
	"github.com/stretchr/testify/require"
)

func TestHeadingTitle(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{name: "atx", source: "# Title\n\nbody", want: "Title"},
		{name: "second level", source: "intro\n\n## Results", want: "Results"},
		{name: "setext", source: "Overview\n========\n", want: "Overview"},
		{name: "inline markup", source: "# The *fast* `path`", want: "The fast path"},
		{name: "link", source: "### See [docs](http://example.com)", want: "See docs"},
		{name: "no heading", source: "just a paragraph", want: ""},
		{name: "heading in code block", source: "```\n# not a heading\n```", want: ""},
		{name: "empty", source: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, headingTitle([]byte(tc.source)))
		})
	}
}

func TestWriteOutline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(outlineNotebook), 0o644))

	p, err := nbfs.NewProjection(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeOutline(&buf, p))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, []string{"NAME", "KIND", "SIZE", "TITLE"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"cell0.md", "markdown", "16", "Analysis"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"cell1.py", "code", "5"}, strings.Fields(lines[2]))
	require.Equal(t, []string{"cell1_out0_stdout.txt", "stream", "2"}, strings.Fields(lines[3]))
}

const outlineNotebook = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Analysis\n", "\n", "text"]},
  {"cell_type": "code", "metadata": {}, "execution_count": 1, "source": "x = 1",
   "outputs": [{"output_type": "stream", "name": "stdout", "text": "1\n"}]}
 ],
 "metadata": {"language_info": {"name": "python", "file_extension": ".py"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`
