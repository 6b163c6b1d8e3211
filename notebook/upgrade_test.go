package notebook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const v3Fixture = `{
 "metadata": {"name": "legacy"},
 "nbformat": 3,
 "nbformat_minor": 0,
 "worksheets": [
  {"cells": [
   {"cell_type": "heading", "level": 2, "metadata": {}, "source": ["Results"]},
   {"cell_type": "code", "collapsed": false, "input": ["import sys\n", "print(2)"],
    "language": "python", "metadata": {}, "prompt_number": 4,
    "outputs": [
     {"output_type": "stream", "stream": "stdout", "text": ["2\n"]},
     {"output_type": "pyout", "prompt_number": 4, "metadata": {},
      "png": "iVBORw0KGgo=", "text": ["<Figure>"]},
     {"output_type": "pyerr", "ename": "E", "evalue": "v", "traceback": []}
    ]}
  ]},
  {"cells": [
   {"cell_type": "markdown", "metadata": {}, "source": "second sheet"}
  ]}
 ]
}`

func TestUpgradeV3(t *testing.T) {
	doc, err := Decode(strings.NewReader(v3Fixture))
	require.NoError(t, err)

	require.Equal(t, Version{Major: 3, Minor: 0}, doc.SourceFormat)
	require.Equal(t, 4, doc.Format.Major)
	require.Equal(t, "python", doc.Metadata.LanguageInfo.Name)
	require.Equal(t, ".py", doc.Metadata.LanguageInfo.FileExtension)
	require.Len(t, doc.Cells, 3)

	heading, ok := doc.Cells[0].(*MarkdownCell)
	require.True(t, ok, "heading should become markdown, got %T", doc.Cells[0])
	require.Equal(t, Text("## Results"), heading.Source)

	code, ok := doc.Cells[1].(*CodeCell)
	require.True(t, ok)
	require.Equal(t, Text("import sys\nprint(2)"), code.Source)
	require.Equal(t, 4, *code.ExecutionCount)
	require.Len(t, code.Outputs, 3)

	stream := code.Outputs[0].(*StreamOutput)
	require.Equal(t, "stdout", stream.Name)
	require.Equal(t, Text("2\n"), stream.Text)

	result := code.Outputs[1].(*DataOutput)
	require.Equal(t, ExecuteResult, result.Type)
	require.Equal(t, MIMEBundle{
		{MIME: "image/png", Payload: "iVBORw0KGgo="},
		{MIME: "text/plain", Payload: "<Figure>"},
	}, result.Data)

	_, ok = code.Outputs[2].(*ErrorOutput)
	require.True(t, ok)

	last := doc.Cells[2].(*MarkdownCell)
	require.Equal(t, Text("second sheet"), last.Source)
}

func TestUpgradeV3UnknownLanguage(t *testing.T) {
	const nb = `{"nbformat": 3, "nbformat_minor": 0, "worksheets": [{"cells": [
	  {"cell_type": "code", "input": "1", "language": "brainfuck", "outputs": []}]}]}`

	doc, err := Decode(strings.NewReader(nb))
	require.NoError(t, err)
	require.Equal(t, "brainfuck", doc.Metadata.LanguageInfo.Name)
	require.Empty(t, doc.Metadata.LanguageInfo.FileExtension)
}

func TestUpgradeV2(t *testing.T) {
	const nb = `{"nbformat": 2, "nbformat_minor": 1, "metadata": {"name": "old"},
	 "worksheets": [{"cells": [
	  {"cell_type": "markdown", "source": "# Intro"},
	  {"cell_type": "code", "input": "print 1", "language": "python", "prompt_number": 1,
	   "outputs": [{"output_type": "stream", "stream": "stdout", "text": "1\n"}]}
	 ]}]}`

	doc, err := Decode(strings.NewReader(nb))
	require.NoError(t, err)
	require.Equal(t, Version{Major: 2, Minor: 1}, doc.SourceFormat)
	require.Equal(t, 4, doc.Format.Major)
	require.Equal(t, ".py", doc.Metadata.LanguageInfo.FileExtension)
	require.Len(t, doc.Cells, 2)

	require.Equal(t, Text("# Intro"), doc.Cells[0].(*MarkdownCell).Source)
	code := doc.Cells[1].(*CodeCell)
	require.Equal(t, Text("print 1"), code.Source)
	require.Equal(t, &StreamOutput{Name: "stdout", Text: "1\n"}, code.Outputs[0])
}

func TestUpgradeV1(t *testing.T) {
	const nb = `{"nbformat": 1, "cells": [
	  {"cell_type": "text", "text": "notes"},
	  {"cell_type": "code", "code": "x = 1", "prompt_number": 3}
	]}`

	doc, err := Decode(strings.NewReader(nb))
	require.NoError(t, err)
	require.Equal(t, 1, doc.SourceFormat.Major)
	require.Equal(t, 4, doc.Format.Major)
	require.Len(t, doc.Cells, 2)
	require.Equal(t, Text("notes"), doc.Cells[0].(*MarkdownCell).Source)

	code := doc.Cells[1].(*CodeCell)
	require.Equal(t, Text("x = 1"), code.Source)
	require.Equal(t, 3, *code.ExecutionCount)
	require.Empty(t, code.Outputs)

	_, err = Decode(strings.NewReader(`{"nbformat": 1, "cells": [{"cell_type": "html"}]}`))
	require.ErrorIs(t, err, ErrUnknownCellType)
}
