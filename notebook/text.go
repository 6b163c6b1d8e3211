package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a multi-line string field. On disk it is either a single JSON
// string or a list of string fragments; both decode to the concatenation.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var fragments []string
	if err := json.Unmarshal(data, &fragments); err != nil {
		return fmt.Errorf("text must be a string or a list of strings: %w", err)
	}
	*t = Text(strings.Join(fragments, ""))
	return nil
}

func (t Text) String() string {
	return string(t)
}

// MIMEEntry is one representation inside a MIMEBundle.
type MIMEEntry struct {
	MIME    string
	Payload Text
}

// MIMEBundle is the data mapping of a display_data or execute_result output.
// Entries keep the key order of the JSON object they were decoded from.
type MIMEBundle []MIMEEntry

// Get returns the payload stored for mime.
func (b MIMEBundle) Get(mime string) (Text, bool) {
	for _, e := range b {
		if e.MIME == mime {
			return e.Payload, true
		}
	}
	return "", false
}

// UnmarshalJSON implements json.Unmarshaler. Payloads that are neither a
// string nor a list of strings (application/json data is stored as an
// object) are kept as their raw JSON text.
func (b *MIMEBundle) UnmarshalJSON(data []byte) error {
	keys, values, err := orderedObject(data)
	if err != nil {
		return fmt.Errorf("mime bundle: %w", err)
	}

	bundle := make(MIMEBundle, 0, len(keys))
	for _, key := range keys {
		bundle = append(bundle, MIMEEntry{MIME: key, Payload: payloadText(values[key])})
	}
	*b = bundle
	return nil
}

// MarshalJSON implements json.Marshaler, writing entries in order.
func (b MIMEBundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.MIME)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(string(e.Payload))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func payloadText(raw json.RawMessage) Text {
	var t Text
	if err := json.Unmarshal(raw, &t); err == nil {
		return t
	}
	return Text(bytes.TrimSpace(raw))
}

// orderedObject decodes a JSON object into its keys, in document order, and
// their raw values. A JSON null decodes to no keys. Repeated keys keep their
// first position and last value, as encoding/json does for maps.
func orderedObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok == nil {
		return nil, nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
