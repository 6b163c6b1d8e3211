package nbfs

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dendrascience/notebook-fuse/notebook"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Kind identifies what a virtual file was projected from.
type Kind int

const (
	KindMarkdown Kind = iota
	KindCode
	KindStream
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindCode:
		return "code"
	case KindStream:
		return "stream"
	case KindData:
		return "data"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// VirtualFile is one fully materialized file inside a notebook directory.
type VirtualFile struct {
	Name string
	Data []byte
	Kind Kind

	// Cell and Output locate the source of the file in the notebook.
	// Output is -1 for cell sources.
	Cell   int
	Output int
	// MIME is set for KindData files.
	MIME string
}

// binaryMIME lists the MIME types whose payloads are stored base64 encoded.
var binaryMIME = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

// ProjectionOption configures NewProjection.
type ProjectionOption func(*projectionOptions)

type projectionOptions struct {
	strict bool
	logger log.Logger
}

// WithStrictNames makes a duplicate virtual file name fail construction with
// ErrNameCollision instead of replacing the earlier file.
func WithStrictNames(strict bool) ProjectionOption {
	return func(o *projectionOptions) { o.strict = strict }
}

// WithProjectionLogger sets the logger used to report name collisions.
func WithProjectionLogger(l log.Logger) ProjectionOption {
	return func(o *projectionOptions) { o.logger = l }
}

// Projection is the read-only directory view of a single notebook file. It
// is immutable once built and safe for concurrent use.
type Projection struct {
	path  string
	doc   *notebook.Document
	stat  Attr
	files map[string]*VirtualFile
	names []string
}

// NewProjection decodes the notebook at path, snapshots its metadata and
// builds the full namespace of virtual files.
func NewProjection(path string, opts ...ProjectionOption) (*Projection, error) {
	doc, err := notebook.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	stat, err := statAttr(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return newProjection(path, doc, stat, opts...)
}

func newProjection(path string, doc *notebook.Document, stat Attr, opts ...ProjectionOption) (*Projection, error) {
	o := projectionOptions{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Projection{
		path:  path,
		doc:   doc,
		stat:  stat,
		files: make(map[string]*VirtualFile),
	}

	ext := doc.Metadata.LanguageInfo.FileExtension
	if ext == "" && hasCodeCell(doc) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingExtension)
	}

	add := func(f *VirtualFile) error {
		// Names come partly from the document (stream name, file extension)
		// and must stay a single path element.
		if strings.ContainsAny(f.Name, "/\x00") {
			return &notebook.DecodeError{
				Path: path,
				Err:  fmt.Errorf("cell %d: invalid virtual file name %q", f.Cell, f.Name),
			}
		}
		if _, dup := p.files[f.Name]; dup {
			if o.strict {
				return fmt.Errorf("%s: %w: %s", path, ErrNameCollision, f.Name)
			}
			level.Warn(o.logger).Log("msg", "virtual file name collision, keeping the later file", "notebook", path, "name", f.Name)
		}
		p.files[f.Name] = f
		return nil
	}

	for i, c := range doc.Cells {
		switch c := c.(type) {
		case *notebook.MarkdownCell:
			err := add(&VirtualFile{
				Name:   markdownName(i),
				Data:   []byte(c.Source),
				Kind:   KindMarkdown,
				Cell:   i,
				Output: -1,
			})
			if err != nil {
				return nil, err
			}

		case *notebook.CodeCell:
			err := add(&VirtualFile{
				Name:   codeName(i, ext),
				Data:   []byte(c.Source),
				Kind:   KindCode,
				Cell:   i,
				Output: -1,
			})
			if err != nil {
				return nil, err
			}
			for j, out := range c.Outputs {
				files, err := outputFiles(path, i, j, out)
				if err != nil {
					return nil, err
				}
				for _, f := range files {
					if err := add(f); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	p.names = make([]string, 0, len(p.files))
	for name := range p.files {
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)
	return p, nil
}

func hasCodeCell(doc *notebook.Document) bool {
	for _, c := range doc.Cells {
		if _, ok := c.(*notebook.CodeCell); ok {
			return true
		}
	}
	return false
}

func outputFiles(path string, cell, output int, out notebook.Output) ([]*VirtualFile, error) {
	switch out := out.(type) {
	case *notebook.StreamOutput:
		return []*VirtualFile{{
			Name:   streamName(cell, output, out.Name),
			Data:   []byte(out.Text),
			Kind:   KindStream,
			Cell:   cell,
			Output: output,
		}}, nil

	case *notebook.DataOutput:
		files := make([]*VirtualFile, 0, len(out.Data))
		for k, entry := range out.Data {
			data, err := payloadBytes(entry)
			if err != nil {
				return nil, &notebook.DecodeError{
					Path: path,
					Err:  fmt.Errorf("cell %d output %d %s: %w", cell, output, entry.MIME, err),
				}
			}
			files = append(files, &VirtualFile{
				Name:   dataName(cell, output, k, entry.MIME),
				Data:   data,
				Kind:   KindData,
				Cell:   cell,
				Output: output,
				MIME:   entry.MIME,
			})
		}
		return files, nil
	}
	return nil, nil
}

func payloadBytes(entry notebook.MIMEEntry) ([]byte, error) {
	if !binaryMIME[entry.MIME] {
		return []byte(entry.Payload), nil
	}
	// Notebooks wrap base64 payloads at 76 columns.
	compact := strings.Join(strings.Fields(string(entry.Payload)), "")
	return base64.StdEncoding.DecodeString(compact)
}

func markdownName(cell int) string {
	return "cell" + strconv.Itoa(cell) + ".md"
}

func codeName(cell int, ext string) string {
	return "cell" + strconv.Itoa(cell) + ext
}

func streamName(cell, output int, stream string) string {
	return fmt.Sprintf("cell%d_out%d_%s.txt", cell, output, stream)
}

func dataName(cell, output, entry int, mime string) string {
	return fmt.Sprintf("cell%d_out%d_data%d%s", cell, output, entry, notebook.GuessExtension(mime))
}

// Path returns the notebook file the projection was built from.
func (p *Projection) Path() string { return p.path }

// Document returns the decoded notebook.
func (p *Projection) Document() *notebook.Document { return p.doc }

// List returns ".", ".." and then every virtual file name in lexicographic
// order.
func (p *Projection) List() []string {
	out := make([]string, 0, len(p.names)+2)
	out = append(out, ".", "..")
	return append(out, p.names...)
}

// Files returns the virtual files in List order.
func (p *Projection) Files() []*VirtualFile {
	out := make([]*VirtualFile, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, p.files[name])
	}
	return out
}

// Attributes returns the backing file snapshot with Size set to the length
// of the named file's content.
func (p *Projection) Attributes(name string) (Attr, error) {
	f, ok := p.files[name]
	if !ok {
		return Attr{}, ErrNotFound
	}
	a := p.stat
	a.Size = uint64(len(f.Data))
	return a, nil
}

// Read returns up to size bytes of the named file starting at offset. Reads
// past the end return an empty slice.
func (p *Projection) Read(name string, offset int64, size int) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return clip(f.Data, offset, size), nil
}

func clip(data []byte, offset int64, size int) []byte {
	if offset < 0 {
		offset = 0
	}
	if size < 0 {
		size = 0
	}
	if offset >= int64(len(data)) {
		return []byte{}
	}
	end := offset + int64(size)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[offset:end]
}
