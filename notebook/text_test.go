package notebook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextUnmarshal(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Text
		wantErr bool
	}{
		{name: "string", input: `"a\nb"`, want: "a\nb"},
		{name: "fragments", input: `["a\n", "b"]`, want: "a\nb"},
		{name: "empty list", input: `[]`, want: ""},
		{name: "null", input: `null`, want: ""},
		{name: "unicode", input: `["ü", "ß"]`, want: "üß"},
		{name: "number", input: `42`, wantErr: true},
		{name: "mixed list", input: `["a", 1]`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Text
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestMIMEBundleMarshalKeepsOrder(t *testing.T) {
	b := MIMEBundle{
		{MIME: "text/plain", Payload: "z"},
		{MIME: "image/png", Payload: "AAAA"},
		{MIME: "application/json", Payload: "{}"},
	}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, `{"text/plain":"z","image/png":"AAAA","application/json":"{}"}`, string(data))
}

func TestMIMEBundleNull(t *testing.T) {
	var b MIMEBundle
	require.NoError(t, json.Unmarshal([]byte(`null`), &b))
	require.Empty(t, b)
}
