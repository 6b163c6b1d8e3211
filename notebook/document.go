package notebook

import "fmt"

// Version is an nbformat version pair.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Document is a decoded notebook. Cells are in file order; a cell's index in
// Cells is its identity for the lifetime of the Document.
type Document struct {
	// Format is the version of the decoded structure, always 4.x.
	Format Version
	// SourceFormat is the version found in the file before any upgrade.
	SourceFormat Version
	Metadata     Metadata
	Cells        []Cell
}

// Metadata holds the document-level metadata fields nbfs reads.
type Metadata struct {
	LanguageInfo LanguageInfo `json:"language_info,omitempty"`
	KernelSpec   KernelSpec   `json:"kernelspec,omitempty"`
}

// LanguageInfo describes the kernel language. FileExtension includes the
// leading dot, e.g. ".py".
type LanguageInfo struct {
	Name          string `json:"name,omitempty"`
	Version       string `json:"version,omitempty"`
	MIMEType      string `json:"mimetype,omitempty"`
	FileExtension string `json:"file_extension,omitempty"`
}

type KernelSpec struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Cell is one of *MarkdownCell, *CodeCell or *RawCell.
type Cell interface {
	cell()
	// Body returns the concatenated cell source.
	Body() Text
}

type MarkdownCell struct {
	ID     string
	Source Text
}

type CodeCell struct {
	ID             string
	Source         Text
	ExecutionCount *int
	Outputs        []Output
}

// RawCell is passed through unrendered by Jupyter. It has no outputs.
type RawCell struct {
	ID     string
	Source Text
}

func (*MarkdownCell) cell() {}
func (*CodeCell) cell()     {}
func (*RawCell) cell()      {}

func (c *MarkdownCell) Body() Text { return c.Source }
func (c *CodeCell) Body() Text     { return c.Source }
func (c *RawCell) Body() Text      { return c.Source }

// Output is one of *StreamOutput, *DataOutput or *ErrorOutput.
type Output interface {
	output()
}

// StreamOutput is text written to a named stream such as "stdout".
type StreamOutput struct {
	Name string
	Text Text
}

// Output types carried by DataOutput.
const (
	DisplayData   = "display_data"
	ExecuteResult = "execute_result"
)

// DataOutput covers both display_data and execute_result records.
type DataOutput struct {
	Type           string
	Data           MIMEBundle
	ExecutionCount *int
}

type ErrorOutput struct {
	EName     string
	EValue    string
	Traceback []string
}

func (*StreamOutput) output() {}
func (*DataOutput) output()   {}
func (*ErrorOutput) output()  {}
