package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"
)

// CurrentMinor is the nbformat minor version written by Encode.
const CurrentMinor = 5

type rawHeader struct {
	NBFormat      int `json:"nbformat"`
	NBFormatMinor int `json:"nbformat_minor"`
}

type rawNotebook struct {
	Metadata Metadata          `json:"metadata"`
	Cells    []json.RawMessage `json:"cells"`
}

type rawCell struct {
	CellType       string            `json:"cell_type"`
	ID             string            `json:"id"`
	Source         Text              `json:"source"`
	ExecutionCount *int              `json:"execution_count"`
	Outputs        []json.RawMessage `json:"outputs"`
}

type rawOutput struct {
	OutputType     string     `json:"output_type"`
	Name           string     `json:"name"`
	Text           Text       `json:"text"`
	Data           MIMEBundle `json:"data"`
	ExecutionCount *int       `json:"execution_count"`
	EName          string     `json:"ename"`
	EValue         string     `json:"evalue"`
	Traceback      []string   `json:"traceback"`
}

// DecodeFile reads and decodes the notebook at path. Any failure, including
// an unreadable file, is returned as a *DecodeError.
func DecodeFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	doc, err := decode(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return doc, nil
}

// Decode reads a notebook from r. Format 3 documents are upgraded to the
// format 4 structure.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	doc, err := decode(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return doc, nil
}

func decode(data []byte) (*Document, error) {
	// Hand-edited notebooks sometimes carry comments or trailing commas.
	data = jsonc.ToJSON(data)

	var hdr rawHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, err
	}
	source := Version{Major: hdr.NBFormat, Minor: hdr.NBFormatMinor}

	switch hdr.NBFormat {
	case 4:
		doc, err := decodeV4(data)
		if err != nil {
			return nil, err
		}
		doc.Format = source
		doc.SourceFormat = source
		return doc, nil
	case 3, 2:
		// Format 2 has the same worksheet, cell and output shape as format 3.
		doc, err := upgradeV3(data)
		if err != nil {
			return nil, err
		}
		doc.Format = Version{Major: 4, Minor: 0}
		doc.SourceFormat = source
		return doc, nil
	case 1:
		doc, err := upgradeV1(data)
		if err != nil {
			return nil, err
		}
		doc.Format = Version{Major: 4, Minor: 0}
		doc.SourceFormat = source
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, source)
	}
}

func decodeV4(data []byte) (*Document, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{Metadata: raw.Metadata, Cells: make([]Cell, 0, len(raw.Cells))}
	for i, rc := range raw.Cells {
		c, err := decodeCellV4(rc)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		doc.Cells = append(doc.Cells, c)
	}
	return doc, nil
}

func decodeCellV4(data json.RawMessage) (Cell, error) {
	var rc rawCell
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, err
	}

	switch rc.CellType {
	case "markdown":
		return &MarkdownCell{ID: rc.ID, Source: rc.Source}, nil
	case "raw":
		return &RawCell{ID: rc.ID, Source: rc.Source}, nil
	case "code":
		c := &CodeCell{ID: rc.ID, Source: rc.Source, ExecutionCount: rc.ExecutionCount}
		for j, ro := range rc.Outputs {
			o, err := decodeOutputV4(ro)
			if err != nil {
				return nil, fmt.Errorf("output %d: %w", j, err)
			}
			c.Outputs = append(c.Outputs, o)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCellType, rc.CellType)
	}
}

func decodeOutputV4(data json.RawMessage) (Output, error) {
	var ro rawOutput
	if err := json.Unmarshal(data, &ro); err != nil {
		return nil, err
	}

	switch ro.OutputType {
	case "stream":
		return &StreamOutput{Name: ro.Name, Text: ro.Text}, nil
	case DisplayData, ExecuteResult:
		return &DataOutput{Type: ro.OutputType, Data: ro.Data, ExecutionCount: ro.ExecutionCount}, nil
	case "error":
		return &ErrorOutput{EName: ro.EName, EValue: ro.EValue, Traceback: ro.Traceback}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, ro.OutputType)
	}
}

// Encode writes doc as an nbformat 4 document.
func Encode(w io.Writer, doc *Document) error {
	cells := make([]map[string]any, 0, len(doc.Cells))
	for i, c := range doc.Cells {
		enc, err := encodeCell(c)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		cells = append(cells, enc)
	}

	out := struct {
		Cells         []map[string]any `json:"cells"`
		Metadata      Metadata         `json:"metadata"`
		NBFormat      int              `json:"nbformat"`
		NBFormatMinor int              `json:"nbformat_minor"`
	}{
		Cells:         cells,
		Metadata:      doc.Metadata,
		NBFormat:      4,
		NBFormatMinor: CurrentMinor,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(out)
}

func encodeCell(c Cell) (map[string]any, error) {
	m := map[string]any{"metadata": map[string]any{}}
	switch c := c.(type) {
	case *MarkdownCell:
		m["cell_type"] = "markdown"
		m["id"] = c.ID
		m["source"] = c.Source
	case *RawCell:
		m["cell_type"] = "raw"
		m["id"] = c.ID
		m["source"] = c.Source
	case *CodeCell:
		m["cell_type"] = "code"
		m["id"] = c.ID
		m["source"] = c.Source
		m["execution_count"] = c.ExecutionCount
		outputs := make([]map[string]any, 0, len(c.Outputs))
		for _, o := range c.Outputs {
			eo, err := encodeOutput(o)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, eo)
		}
		m["outputs"] = outputs
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCellType, c)
	}
	return m, nil
}

func encodeOutput(o Output) (map[string]any, error) {
	switch o := o.(type) {
	case *StreamOutput:
		return map[string]any{"output_type": "stream", "name": o.Name, "text": o.Text}, nil
	case *DataOutput:
		m := map[string]any{"output_type": o.Type, "data": o.Data, "metadata": map[string]any{}}
		if o.Type == ExecuteResult {
			m["execution_count"] = o.ExecutionCount
		}
		return m, nil
	case *ErrorOutput:
		tb := o.Traceback
		if tb == nil {
			tb = []string{}
		}
		return map[string]any{"output_type": "error", "ename": o.EName, "evalue": o.EValue, "traceback": tb}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOutputType, o)
	}
}
