package notebook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// v3MIMEKeys maps the short representation keys of format 3 outputs to
// their format 4 MIME types.
var v3MIMEKeys = map[string]string{
	"text":       "text/plain",
	"html":       "text/html",
	"svg":        "image/svg+xml",
	"png":        "image/png",
	"jpeg":       "image/jpeg",
	"latex":      "text/latex",
	"json":       "application/json",
	"javascript": "application/javascript",
	"pdf":        "application/pdf",
}

// languageExtensions is used to fill language_info for format 3 documents,
// which only record the language on each code cell.
var languageExtensions = map[string]string{
	"python":     ".py",
	"julia":      ".jl",
	"r":          ".r",
	"ruby":       ".rb",
	"javascript": ".js",
	"scala":      ".scala",
	"bash":       ".sh",
	"haskell":    ".hs",
}

type rawV3Notebook struct {
	Worksheets []struct {
		Cells []json.RawMessage `json:"cells"`
	} `json:"worksheets"`
}

type rawV3Cell struct {
	CellType     string            `json:"cell_type"`
	Source       Text              `json:"source"`
	Input        Text              `json:"input"`
	Level        int               `json:"level"`
	Language     string            `json:"language"`
	PromptNumber *int              `json:"prompt_number"`
	Outputs      []json.RawMessage `json:"outputs"`
}

type rawV3Output struct {
	OutputType   string   `json:"output_type"`
	Stream       string   `json:"stream"`
	Text         Text     `json:"text"`
	PromptNumber *int     `json:"prompt_number"`
	EName        string   `json:"ename"`
	EValue       string   `json:"evalue"`
	Traceback    []string `json:"traceback"`
}

// upgradeV3 decodes a format 3 or format 2 document into the format 4
// structure.
// Worksheets are flattened in order and no cell or output is reordered.
func upgradeV3(data []byte) (*Document, error) {
	var raw rawV3Notebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{}
	index := 0
	for _, ws := range raw.Worksheets {
		for _, rc := range ws.Cells {
			c, lang, err := upgradeCellV3(rc)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %w", index, err)
			}
			if lang != "" && doc.Metadata.LanguageInfo.Name == "" {
				doc.Metadata.LanguageInfo.Name = lang
				doc.Metadata.LanguageInfo.FileExtension = languageExtensions[strings.ToLower(lang)]
			}
			doc.Cells = append(doc.Cells, c)
			index++
		}
	}
	return doc, nil
}

func upgradeCellV3(data json.RawMessage) (Cell, string, error) {
	var rc rawV3Cell
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, "", err
	}

	switch rc.CellType {
	case "markdown":
		return &MarkdownCell{Source: rc.Source}, "", nil
	case "raw":
		return &RawCell{Source: rc.Source}, "", nil
	case "heading":
		level := rc.Level
		if level < 1 {
			level = 1
		}
		line := strings.Join(strings.Split(strings.TrimRight(rc.Source.String(), "\n"), "\n"), " ")
		return &MarkdownCell{Source: Text(strings.Repeat("#", level) + " " + line)}, "", nil
	case "code":
		c := &CodeCell{Source: rc.Input, ExecutionCount: rc.PromptNumber}
		for j, ro := range rc.Outputs {
			o, err := upgradeOutputV3(ro)
			if err != nil {
				return nil, "", fmt.Errorf("output %d: %w", j, err)
			}
			c.Outputs = append(c.Outputs, o)
		}
		return c, rc.Language, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCellType, rc.CellType)
	}
}

func upgradeOutputV3(data json.RawMessage) (Output, error) {
	var ro rawV3Output
	if err := json.Unmarshal(data, &ro); err != nil {
		return nil, err
	}

	switch ro.OutputType {
	case "stream":
		return &StreamOutput{Name: ro.Stream, Text: ro.Text}, nil
	case "pyerr":
		return &ErrorOutput{EName: ro.EName, EValue: ro.EValue, Traceback: ro.Traceback}, nil
	case "pyout", DisplayData:
		keys, values, err := orderedObject(data)
		if err != nil {
			return nil, err
		}
		var bundle MIMEBundle
		for _, key := range keys {
			mime, ok := v3MIMEKeys[key]
			if !ok {
				continue
			}
			bundle = append(bundle, MIMEEntry{MIME: mime, Payload: payloadText(values[key])})
		}
		if ro.OutputType == DisplayData {
			return &DataOutput{Type: DisplayData, Data: bundle}, nil
		}
		return &DataOutput{Type: ExecuteResult, Data: bundle, ExecutionCount: ro.PromptNumber}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, ro.OutputType)
	}
}

type rawV1Notebook struct {
	Cells []struct {
		CellType     string `json:"cell_type"`
		Text         Text   `json:"text"`
		Code         Text   `json:"code"`
		PromptNumber *int   `json:"prompt_number"`
	} `json:"cells"`
}

// upgradeV1 decodes a format 1 document. Format 1 has a flat cell list,
// text cells become markdown and code cells carry no outputs.
func upgradeV1(data []byte) (*Document, error) {
	var raw rawV1Notebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{}
	for i, rc := range raw.Cells {
		switch rc.CellType {
		case "text":
			doc.Cells = append(doc.Cells, &MarkdownCell{Source: rc.Text})
		case "code":
			doc.Cells = append(doc.Cells, &CodeCell{Source: rc.Code, ExecutionCount: rc.PromptNumber})
		default:
			return nil, fmt.Errorf("cell %d: %w: %q", i, ErrUnknownCellType, rc.CellType)
		}
	}
	return doc, nil
}
